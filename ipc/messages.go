package ipc

// Envelope kinds. A tick envelope's Type, when present, is the phase the
// client believes is current.
const (
	TypeInit  = "init"
	TypeTick  = "tick"
	TypeError = "error"
)

// NewReport wraps a position report. The report's own first line already
// names the phase, so it travels without a header.
func NewReport(report string) Envelope {
	return Envelope{Body: report}
}

func NewError(err error) Envelope {
	return Envelope{Type: TypeError, Body: err.Error()}
}
