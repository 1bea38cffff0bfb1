package game

import (
	"github.com/nstehr/ruck/ruck-core/model"
	"github.com/nstehr/ruck/ruck-core/rules"
)

const (
	ruckReach = 1.0 // a scrum-half must be this close to the ball
	ruckClear = 1.0 // and at least this far from the tackle point
	// entryCone is the half-angle, in degrees, of a legal entry into the ruck.
	entryCone = 45.0
)

// formRuck turns a successful tackle into a ruck at the carrier's position.
// Possession goes to the tackling side; the ball is placed back toward the
// carrier's own goal.
func (g *Game) formRuck(tacklerSide model.Side, tackler *model.Player, carrierSide model.Side, carrier *model.Player) {
	m := g.Match
	at := carrier.Pos()

	m.LooseBall()
	m.Flight.Active = false
	m.Ball.X = at.X - m.Field.AttackSign(carrierSide)*model.CarryOffset
	m.Ball.Y = at.Y
	m.Ball.Z = 0

	g.setPhase(model.Ruck{
		Mark:    model.Mark{Side: tacklerSide, At: at},
		Size:    model.RuckSize,
		Held:    ref(carrierSide, carrier),
		Tackler: ref(tacklerSide, tackler),
	})
	carrier.Held = true
	tackler.MustRelease = true
}

// stepRuck runs one tick of a ruck. After the commands the referee checks
// the tackler and the counter-ruck; tacklers who got clear are released.
func (g *Game) stepRuck(tokens []string) {
	if g.dispatch(tokens, g.ruckAction) {
		return
	}
	g.judge()
	if g.Match.Phase.Kind() == model.KindRuck {
		g.releaseTacklers()
	}
}

func (g *Game) ruckAction(cmd Command, p *model.Player) bool {
	side := cmd.Player.Side
	switch cmd.Code {
	case CodeRun, CodeWalk:
		if p.Held {
			g.log.Debug("held player cannot move", "player", cmd.Player)
			return false
		}
		g.move(p, cmd.Direction, cmd.Code == CodeRun)
		g.checkEntry(side, p, cmd.Direction)
	case CodeTackle:
		return g.ruckPickup(side, p)
	case CodeStand:
	default:
		g.log.Debug("action not allowed in ruck", "player", cmd.Player, "code", cmd.Code)
	}
	return false
}

// ruckPickup lets p take the ball from the base of the ruck. Any offside
// defender turns the attempt into a penalty for the side in possession.
func (g *Game) ruckPickup(side model.Side, p *model.Player) bool {
	m := g.Match
	if off, ok := offsidePlayer(m); ok {
		g.log.Info("offside at ruck", "player", off)
		g.awardPenalty(m.Phase.Team(), m.Phase.Anchor())
		return true
	}
	if p.Pos().Dist(m.Ball.Pos()) >= ruckReach || p.Pos().Dist(m.Phase.Anchor()) < ruckClear {
		g.log.Debug("cannot reach ball at ruck", "player", ref(side, p))
		return false
	}
	g.log.Info("ball taken from ruck", "player", ref(side, p))
	g.takeBall(side, p)
	return true
}

// checkEntry logs players that arrive in the ruck from the side instead of
// through the gate behind their own team.
func (g *Game) checkEntry(side model.Side, p *model.Player, dir float64) {
	m := g.Match
	if p.Pos().Dist(m.Phase.Anchor()) >= m.Phase.Radius() {
		return
	}
	gate := 0.0
	if m.Field.AttackSign(side) < 0 {
		gate = 180
	}
	off := normalizeDegrees(dir - gate)
	if off <= entryCone || off >= 360-entryCone {
		g.log.Debug("joined ruck", "player", ref(side, p))
		return
	}
	g.log.Info("side entry at ruck", "player", ref(side, p), "direction", dir)
}

// releaseTacklers clears the obligation of tacklers who have left the
// tackle zone.
func (g *Game) releaseTacklers() {
	m := g.Match
	at := m.Phase.Anchor()
	for side, p := range m.Players() {
		if p.MustRelease && p.Pos().Dist(at) >= rules.TacklerClearance {
			p.MustRelease = false
			g.log.Debug("tackler released", "player", ref(side, p))
		}
	}
}
