package game

import (
	"math"

	"github.com/nstehr/ruck/ruck-core/model"
)

const (
	Gravity = 9.81
	DT      = 0.25 // seconds of flight per tick

	WalkSpeed = 6.4 // km/h
	// RunFactor converts km/h into metres per tick.
	RunFactor = 1000.0 / 3600.0 * DT

	PassElevation = 1.0  // degrees
	PassDistance  = 20.0 // metres, fed to the launch formula like kick power
	TackleRange   = 1.2

	launchCorrection = 1.12
)

// heading returns the displacement of length dist along dir degrees.
func heading(dir, dist float64) (dx, dy float64) {
	rad := dir * math.Pi / 180
	return math.Cos(rad) * dist, math.Sin(rad) * dist
}

// launchSpeed is the empirical initial speed of a kick or pass.
func launchSpeed(power float64) float64 {
	return math.Sqrt(power*Gravity) / launchCorrection
}

// move runs or walks p along dir. A carried ball moves with the carrier.
func (g *Game) move(p *model.Player, dir float64, running bool) {
	speed := WalkSpeed
	if running {
		speed = p.Speed
	}
	dx, dy := heading(dir, speed*RunFactor)
	p.X += dx
	p.Y += dy
	if p.Carrying {
		g.Match.Ball.X += dx
		g.Match.Ball.Y += dy
	}
}

// kick releases the ball from its carrier along dir at elev degrees. A
// failed accuracy roll skews the direction and elevation and loses up to a
// fifth of the speed.
func (g *Game) kick(side model.Side, p *model.Player, dir, elev float64) {
	if !p.Carrying {
		g.log.Debug("kick without the ball", "player", ref(side, p))
		return
	}
	elev = clamp(elev, 0, 90)
	speed := launchSpeed(p.KickPower)

	if g.percent() < p.KickAccuracy {
		g.log.Debug("kick", "player", ref(side, p), "direction", dir, "elevation", elev)
	} else {
		dir += g.rng.Float64()*20 - 10
		elev += g.rng.Float64()*10 - 5
		speed *= 0.8 + g.rng.Float64()*0.2
		g.log.Debug("kick off target", "player", ref(side, p), "direction", dir, "elevation", elev)
	}

	g.Match.LooseBall()
	g.Match.Ball.Z = 0
	g.launch(speed, dir, elev)
}

// pass throws the ball flat along dir. A pass toward the passer's attacking
// direction is refused and gives the opponent a scrum; pass then reports
// true because the phase changed.
func (g *Game) pass(side model.Side, p *model.Player, dir float64) bool {
	if !p.Carrying {
		g.log.Debug("pass without the ball", "player", ref(side, p))
		return false
	}
	if forwardPass(g.Match.Field.AttackSign(side), dir) {
		g.log.Info("forward pass", "player", ref(side, p), "direction", dir)
		g.setupScrum(side.Opponent(), p.Pos())
		return true
	}
	g.Match.LooseBall()
	g.launch(launchSpeed(PassDistance), dir, PassElevation)
	return false
}

// forwardPass reports whether dir has a component along sign·x. Purely
// lateral passes are allowed.
func forwardPass(sign, dir float64) bool {
	dir = normalizeDegrees(dir)
	if sign > 0 {
		return dir > 270 || dir < 90
	}
	return dir > 90 && dir < 270
}

func (g *Game) launch(speed, dir, elev float64) {
	d := dir * math.Pi / 180
	e := elev * math.Pi / 180
	g.Match.Flight = model.Flight{
		VX:     speed * math.Cos(e) * math.Cos(d),
		VY:     speed * math.Cos(e) * math.Sin(d),
		VZ:     speed * math.Sin(e),
		Active: true,
	}
}

// tackle lets p try to bring down the opposing carrier. A successful tackle
// forms a ruck and reports true.
func (g *Game) tackle(side model.Side, p *model.Player) bool {
	m := g.Match
	carrier, carrierSide, ok := m.Carrier()
	switch {
	case !ok:
		g.log.Debug("tackle with no carrier", "player", ref(side, p))
		return false
	case carrierSide == side:
		g.log.Debug("tackle on own carrier", "player", ref(side, p))
		return false
	case p.Pos().Dist(carrier.Pos()) >= TackleRange:
		g.log.Debug("too far to tackle", "player", ref(side, p), "carrier", ref(carrierSide, carrier))
		return false
	}

	if !g.tackleRoll(p) {
		g.log.Info("tackle missed", "player", ref(side, p), "carrier", ref(carrierSide, carrier))
		return false
	}
	g.log.Info("tackle", "player", ref(side, p), "carrier", ref(carrierSide, carrier))
	g.formRuck(side, p, carrierSide, carrier)
	return true
}

func ref(side model.Side, p *model.Player) model.PlayerRef {
	return model.PlayerRef{Side: side, Number: p.Number}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
