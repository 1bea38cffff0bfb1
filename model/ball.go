package model

type Ball struct {
	X, Y, Z float64
	Carried bool
}

func (b Ball) Pos() Point { return Point{X: b.X, Y: b.Y} }

// Flight is the velocity record of an airborne ball. When Active is false
// the velocity is meaningless.
type Flight struct {
	VX, VY, VZ float64
	Active     bool
}
