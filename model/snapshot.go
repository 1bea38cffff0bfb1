package model

// Snapshot is the read-only projection handed to renderers.
type Snapshot struct {
	Time  int          `json:"time" msgpack:"time"`
	Phase string       `json:"phase" msgpack:"phase"`
	Side  string       `json:"side" msgpack:"side"`
	Ball  BallMark     `json:"ball" msgpack:"ball"`
	Home  []PlayerMark `json:"home" msgpack:"home"`
	Away  []PlayerMark `json:"away" msgpack:"away"`
	Zone  *Zone        `json:"zone,omitempty" msgpack:"zone,omitempty"`
}

type BallMark struct {
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	Z       float64 `json:"z" msgpack:"z"`
	Carried bool    `json:"carried" msgpack:"carried"`
}

type PlayerMark struct {
	Number   int     `json:"number" msgpack:"number"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Carrying bool    `json:"carrying,omitempty" msgpack:"carrying,omitempty"`
}

// Zone is the scrum or ruck contest area.
type Zone struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// Snapshot projects the match for renderers.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Time:  m.Time,
		Phase: m.Phase.Kind().String(),
		Side:  m.Phase.Team().String(),
		Ball:  BallMark{X: m.Ball.X, Y: m.Ball.Y, Z: m.Ball.Z, Carried: m.Ball.Carried},
		Home:  marks(m.Home.Players),
		Away:  marks(m.Away.Players),
	}
	switch m.Phase.Kind() {
	case KindScrum, KindRuck:
		at := m.Phase.Anchor()
		s.Zone = &Zone{X: at.X, Y: at.Y, Radius: m.Phase.Radius()}
	}
	return s
}

func marks(players []*Player) []PlayerMark {
	out := make([]PlayerMark, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerMark{Number: p.Number, X: p.X, Y: p.Y, Carrying: p.Carrying})
	}
	return out
}
