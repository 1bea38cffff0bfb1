package rules

import (
	"math"

	"github.com/nstehr/ruck/ruck-core/model"
)

// TacklerClearance is how far a tackler must get from the tackle point
// before the next tick ends.
const TacklerClearance = 1.0

// A touch restart is kept this far from the try lines.
const (
	touchMarginNear = 6.0
	touchMarginFar  = 5.0
)

// RefereeEnv wraps the match and exposes helper methods callable from expr
// expressions.
type RefereeEnv struct {
	Match *model.Match
}

func (e RefereeEnv) Phase() string {
	return e.Match.Phase.Kind().String()
}

func (e RefereeEnv) BallCarried() bool {
	return e.Match.Ball.Carried
}

func (e RefereeEnv) BallInFlight() bool {
	return e.Match.Flight.Active
}

// BallDistance is the planar distance between the ball and the phase anchor.
func (e RefereeEnv) BallDistance() float64 {
	return e.Match.Ball.Pos().Dist(e.Match.Phase.Anchor())
}

func (e RefereeEnv) Radius() float64 {
	return e.Match.Phase.Radius()
}

// BallInTouch reports the ball crossing either touchline.
func (e RefereeEnv) BallInTouch() bool {
	y := e.Match.Ball.Y
	return y < 0 || y > e.Match.Field.Height
}

// lastPossession is the side that carries the ball, or the phase side when
// the ball is loose.
func (e RefereeEnv) lastPossession() model.Side {
	if _, s, ok := e.Match.Carrier(); ok {
		return s
	}
	return e.Match.Phase.Team()
}

// touchRestart is the mark of the scrum awarded after the ball goes into
// touch.
func (e RefereeEnv) touchRestart() model.Point {
	f := e.Match.Field
	x := clamp(e.Match.Ball.X, f.TryDepth+touchMarginNear, f.TryDepth+f.Width-touchMarginFar)
	return model.Point{X: x, Y: clamp(e.Match.Ball.Y, 0, f.Height)}
}

// holdingTackler returns the first tackler still inside the tackle zone.
func (e RefereeEnv) holdingTackler() (model.PlayerRef, bool) {
	at := e.Match.Phase.Anchor()
	for s, p := range e.Match.Players() {
		if p.MustRelease && p.Pos().Dist(at) < TacklerClearance {
			return model.PlayerRef{Side: s, Number: p.Number}, true
		}
	}
	return model.PlayerRef{}, false
}

func (e RefereeEnv) TacklerHoldingOn() bool {
	_, ok := e.holdingTackler()
	return ok
}

// contestWeight sums Pound of the non-held players of side inside the
// contest radius.
func (e RefereeEnv) contestWeight(side model.Side) float64 {
	at := e.Match.Phase.Anchor()
	r := e.Match.Phase.Radius()
	total := 0.0
	for _, p := range e.Match.Team(side).Players {
		if !p.Held && p.Pos().Dist(at) < r {
			total += p.Pound
		}
	}
	return total
}

func (e RefereeEnv) PossessionWeight() float64 {
	return e.contestWeight(e.Match.Phase.Team())
}

func (e RefereeEnv) OppositionWeight() float64 {
	return e.contestWeight(e.Match.Phase.Team().Opponent())
}

// nearestContester is the closest non-held opposition player inside the
// contest radius.
func (e RefereeEnv) nearestContester() (model.PlayerRef, bool) {
	at := e.Match.Phase.Anchor()
	r := e.Match.Phase.Radius()
	side := e.Match.Phase.Team().Opponent()
	best := math.MaxFloat64
	var ref model.PlayerRef
	for _, p := range e.Match.Team(side).Players {
		d := p.Pos().Dist(at)
		if p.Held || d >= r {
			continue
		}
		if d < best {
			best = d
			ref = model.PlayerRef{Side: side, Number: p.Number}
		}
	}
	return ref, !ref.IsZero()
}

func (e RefereeEnv) HasContester() bool {
	_, ok := e.nearestContester()
	return ok
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
