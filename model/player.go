package model

import "math"

// Attributes are the physical ratings parsed from an attribute record.
type Attributes struct {
	Size           float64 // cm
	Pound          float64 // effective mass used in pushing contests
	Speed          float64 // km/h
	KickPower      float64
	KickAccuracy   float64 // percent
	TackleAccuracy float64 // percent
}

// DefaultAttributes are used for any value missing from a record.
func DefaultAttributes() Attributes {
	return Attributes{
		Size:           180,
		Pound:          100,
		Speed:          10,
		KickPower:      10,
		KickAccuracy:   10,
		TackleAccuracy: 10,
	}
}

type Player struct {
	X, Y     float64
	Number   int
	Carrying bool
	Attributes

	// Held is set on a tackled player while the ruck lasts.
	Held bool
	// MustRelease is set on the tackler until they leave the tackle zone.
	MustRelease bool
}

// Pos returns the planar position.
func (p *Player) Pos() Point { return Point{X: p.X, Y: p.Y} }

// Point is a planar position on the pitch.
type Point struct {
	X, Y float64
}

func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }
