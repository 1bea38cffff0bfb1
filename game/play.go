package game

import "github.com/nstehr/ruck/ruck-core/model"

// stepOpenPlay runs one tick of open play. Kick-off and restart kicks turn
// into open play on their first tick.
func (g *Game) stepOpenPlay(tokens []string) {
	m := g.Match
	switch m.Phase.(type) {
	case model.Start, model.FreeKick, model.PenaltyKick:
		g.setPhase(model.OpenPlay{Mark: model.Mark{Side: m.Phase.Team(), At: m.Phase.Anchor()}})
	}

	if g.dispatch(tokens, g.playAction) {
		return
	}
	g.advanceFlight()
	g.resolvePickup()
	g.judge()
}

func (g *Game) playAction(cmd Command, p *model.Player) bool {
	side := cmd.Player.Side
	switch cmd.Code {
	case CodeRun, CodeWalk:
		g.move(p, cmd.Direction, cmd.Code == CodeRun)
	case CodeKick:
		g.kick(side, p, cmd.Direction, cmd.Elevation)
	case CodePass:
		return g.pass(side, p, cmd.Direction)
	case CodeTackle:
		return g.tackle(side, p)
	}
	return false
}
