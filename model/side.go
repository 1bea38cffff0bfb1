package model

import "fmt"

// Side identifies one of the two teams on the wire ("H" or "A").
type Side byte

const (
	Home Side = 'H'
	Away Side = 'A'
)

// Sides lists both teams in report order.
var Sides = [2]Side{Home, Away}

func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

func (s Side) Valid() bool { return s == Home || s == Away }

func (s Side) String() string { return string(rune(s)) }

// ParseSide accepts the single-letter wire form.
func ParseSide(r byte) (Side, error) {
	s := Side(r)
	if !s.Valid() {
		return 0, fmt.Errorf("unknown side %q", r)
	}
	return s, nil
}

// PlayerRef names a player by side and jersey number, e.g. H4.
type PlayerRef struct {
	Side   Side
	Number int
}

func (r PlayerRef) String() string { return fmt.Sprintf("%s%d", r.Side, r.Number) }

func (r PlayerRef) IsZero() bool { return r.Side == 0 && r.Number == 0 }
