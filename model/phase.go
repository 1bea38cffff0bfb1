package model

import "fmt"

// PhaseKind tags the variants of Phase.
type PhaseKind int

const (
	KindStart PhaseKind = iota
	KindOpenPlay
	KindScrum
	KindRuck
	KindPenalty
	KindFreeKick
	KindPenaltyKick
)

var phaseNames = map[PhaseKind]string{
	KindStart:       "start",
	KindOpenPlay:    "play",
	KindScrum:       "scrum",
	KindRuck:        "ruck",
	KindPenalty:     "penalty",
	KindFreeKick:    "free-kick",
	KindPenaltyKick: "penalty-kick",
}

func (k PhaseKind) String() string {
	if n, ok := phaseNames[k]; ok {
		return n
	}
	return fmt.Sprintf("phase(%d)", int(k))
}

// ParsePhaseKind maps a wire name back to its kind. "set-penalty" is
// accepted as an alias of "penalty".
func ParsePhaseKind(name string) (PhaseKind, bool) {
	if name == "set-penalty" {
		return KindPenalty, true
	}
	for k, n := range phaseNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// ScrumSize is the contest radius of every scrum.
const ScrumSize = 4.2

// RuckSize is the contest radius of a ruck formed by a tackle.
const RuckSize = 3.0

// Phase is the rules context of the match. The set of implementations is
// closed; switch on the concrete type.
type Phase interface {
	Kind() PhaseKind
	// Team is the side in possession, or the side awarded a penalty.
	Team() Side
	Anchor() Point
	Radius() float64
	isPhase()
}

// Mark is the data every phase carries.
type Mark struct {
	Side Side
	At   Point
}

func (m Mark) Team() Side { return m.Side }
func (m Mark) Anchor() Point { return m.At }
func (Mark) Radius() float64 { return 0 }
func (Mark) isPhase() {}

type Start struct{ Mark }

func (Start) Kind() PhaseKind { return KindStart }

type OpenPlay struct{ Mark }

func (OpenPlay) Kind() PhaseKind { return KindOpenPlay }

type Scrum struct{ Mark }

func (Scrum) Kind() PhaseKind { return KindScrum }
func (Scrum) Radius() float64 { return ScrumSize }

type Ruck struct {
	Mark
	Size    float64
	Held    PlayerRef
	Tackler PlayerRef
}

func (Ruck) Kind() PhaseKind { return KindRuck }
func (r Ruck) Radius() float64 { return r.Size }

// Penalty waits for the awarded side to choose a restart.
type Penalty struct{ Mark }

func (Penalty) Kind() PhaseKind { return KindPenalty }

type FreeKick struct{ Mark }

func (FreeKick) Kind() PhaseKind { return KindFreeKick }

type PenaltyKick struct{ Mark }

func (PenaltyKick) Kind() PhaseKind { return KindPenaltyKick }

// NewPhase builds the variant for kind. Ruck references are left empty.
func NewPhase(kind PhaseKind, side Side, at Point, radius float64) Phase {
	m := Mark{Side: side, At: at}
	switch kind {
	case KindOpenPlay:
		return OpenPlay{m}
	case KindScrum:
		return Scrum{m}
	case KindRuck:
		if radius <= 0 {
			radius = RuckSize
		}
		return Ruck{Mark: m, Size: radius}
	case KindPenalty:
		return Penalty{m}
	case KindFreeKick:
		return FreeKick{m}
	case KindPenaltyKick:
		return PenaltyKick{m}
	default:
		return Start{m}
	}
}

// WithAnchor returns a copy of p moved to at.
func WithAnchor(p Phase, at Point) Phase {
	switch v := p.(type) {
	case Start:
		v.At = at
		return v
	case OpenPlay:
		v.At = at
		return v
	case Scrum:
		v.At = at
		return v
	case Ruck:
		v.At = at
		return v
	case Penalty:
		v.At = at
		return v
	case FreeKick:
		v.At = at
		return v
	case PenaltyKick:
		v.At = at
		return v
	}
	return p
}
