package model

// Direction is the compass sense the home side attacks. North is +x.
type Direction byte

const (
	North Direction = 'N'
	South Direction = 'S'
)

func (d Direction) Opposite() Direction {
	if d == North {
		return South
	}
	return North
}

// SwitchPoint is a (time, configuration) override from the field descriptor.
type SwitchPoint struct {
	Time   int
	Config int
}

// Field is the immutable pitch configuration. x runs along the pitch from
// 0 to Width+2*TryDepth, y runs across from 0 to Height.
type Field struct {
	Width         float64
	Height        float64
	TryDepth      float64
	HomeAttacks   Direction
	Switch        bool
	SwitchTime    int
	SwitchHome    []SwitchPoint
	SwitchAway    []SwitchPoint
	WindStrength  float64
	WindDirection float64
	Weather       float64 // 0-100, pickup failure input
}

// DefaultField mirrors the defaults applied to a blank descriptor.
func DefaultField() Field {
	return Field{
		Width:       100,
		Height:      70,
		TryDepth:    10,
		HomeAttacks: North,
		SwitchTime:  40,
	}
}

// Attacks returns the direction the given side is attacking.
func (f Field) Attacks(s Side) Direction {
	if s == Home {
		return f.HomeAttacks
	}
	return f.HomeAttacks.Opposite()
}

// AttackSign is +1 when the side attacks toward +x, -1 otherwise.
func (f Field) AttackSign(s Side) float64 {
	if f.Attacks(s) == North {
		return 1
	}
	return -1
}

// Length is the full x extent including both in-goal areas.
func (f Field) Length() float64 { return f.Width + 2*f.TryDepth }
