package game

import "github.com/nstehr/ruck/ruck-core/model"

// stepPenalty waits for the awarded side to choose a restart: P kicks for
// goal or touch, K takes a quick free kick, S packs down a scrum on the mark.
func (g *Game) stepPenalty(tokens []string) {
	g.dispatch(tokens, g.penaltyAction)
}

func (g *Game) penaltyAction(cmd Command, p *model.Player) bool {
	m := g.Match
	awarded := m.Phase.Team()
	if cmd.Player.Side != awarded {
		g.log.Debug("restart chosen by wrong side", "player", cmd.Player, "awarded", awarded)
		return false
	}

	switch cmd.Code {
	case CodePass:
		g.setupPenaltyKick(p, cmd.Direction, cmd.Elevation)
	case CodeKick:
		g.setupFreeKick(p, cmd.Direction, cmd.Elevation)
	case CodeStand:
		g.setupScrum(awarded, m.Phase.Anchor())
	default:
		g.log.Debug("not a restart choice", "player", cmd.Player, "code", cmd.Code)
		return false
	}
	return true
}
