package model

import "iter"

// CarryOffset is how far ahead of the carrier, along the carrier's attacking
// direction, a carried ball sits.
const CarryOffset = 0.5

// CarryHeight is the ball height while carried.
const CarryHeight = 1.0

// Match is the whole authoritative state of one game. It is owned by a
// single session and never shared.
type Match struct {
	Field  Field
	Ball   Ball
	Flight Flight
	Phase  Phase
	Home   Team
	Away   Team
	Time   int
}

// NewMatch returns the placeholder state that exists before initialization.
func NewMatch() *Match {
	return &Match{
		Field: DefaultField(),
		Ball:  Ball{X: 50, Y: 35, Z: 1},
		Phase: Start{Mark{Side: Home}},
	}
}

// Team returns the team playing as side.
func (m *Match) Team(s Side) *Team {
	if s == Away {
		return &m.Away
	}
	return &m.Home
}

// Player resolves a reference to an active player.
func (m *Match) Player(ref PlayerRef) *Player {
	if !ref.Side.Valid() {
		return nil
	}
	p, _ := m.Team(ref.Side).Find(ref.Number)
	return p
}

// Players yields every active player, home first, in roster order.
func (m *Match) Players() iter.Seq2[Side, *Player] {
	return func(yield func(Side, *Player) bool) {
		for _, s := range Sides {
			for _, p := range m.Team(s).Players {
				if !yield(s, p) {
					return
				}
			}
		}
	}
}

// Carrier returns the player carrying the ball and their side.
func (m *Match) Carrier() (*Player, Side, bool) {
	for _, s := range Sides {
		if p := m.Team(s).Carrier(); p != nil {
			return p, s, true
		}
	}
	return nil, 0, false
}

// GiveBall makes p (playing for side) the only carrier. It is the single
// place where possession is granted, so the carry invariant holds after it.
func (m *Match) GiveBall(side Side, p *Player) {
	for _, q := range m.Players() {
		q.Carrying = false
	}
	p.Carrying = true
	m.Flight.Active = false
	m.Ball.Carried = true
	m.Ball.X = p.X + m.Field.AttackSign(side)*CarryOffset
	m.Ball.Y = p.Y
	m.Ball.Z = CarryHeight
}

// LooseBall releases the ball from whoever carries it.
func (m *Match) LooseBall() {
	for _, q := range m.Players() {
		q.Carrying = false
	}
	m.Ball.Carried = false
}

// ClearBreakdownFlags resets Held and MustRelease on every player.
func (m *Match) ClearBreakdownFlags() {
	for _, p := range m.Players() {
		p.Held = false
		p.MustRelease = false
	}
}
