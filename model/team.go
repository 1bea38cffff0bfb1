package model

// ActiveCount is the number of players on the pitch per side.
const ActiveCount = 15

type Team struct {
	Players []*Player // roster index i holds the (i+1)th record
	Bench   []*Player

	Score       int
	Tries       int
	Conversions int
	Penalties   int
}

// Find returns the active player wearing number and its roster index,
// or (nil, -1).
func (t *Team) Find(number int) (*Player, int) {
	for i, p := range t.Players {
		if p.Number == number {
			return p, i
		}
	}
	return nil, -1
}

// Carrier returns the active player carrying the ball, if any.
func (t *Team) Carrier() *Player {
	for _, p := range t.Players {
		if p.Carrying {
			return p
		}
	}
	return nil
}
