package game

import "github.com/nstehr/ruck/ruck-core/model"

// Roster indices allowed to act in a scrum.
const (
	packLast     = 7 // indices 0..7 push
	baseFirst    = 7 // number eight and scrum-half may gather at the base
	baseLast     = 8
	scrumMobile  = 7 // from here on players may move
	pickupAtBase = 1.0
)

// stepScrum runs one tick of a scrum: forwards push with S, the number eight
// or scrum-half may gather the ball with T, and backs reposition.
func (g *Game) stepScrum(tokens []string) {
	m := g.Match
	weight := map[model.Side]float64{}

	ended := g.dispatch(tokens, func(cmd Command, p *model.Player) bool {
		side := cmd.Player.Side
		_, idx := m.Team(side).Find(p.Number)

		switch cmd.Code {
		case CodeStand:
			if idx <= packLast {
				weight[side] += p.Pound
			}
		case CodeTackle:
			if idx >= baseFirst && idx <= baseLast {
				return g.scrumPickup(side, p)
			}
			g.log.Debug("not at the scrum base", "player", cmd.Player)
		case CodeRun, CodeWalk:
			if idx >= scrumMobile {
				g.move(p, cmd.Direction, cmd.Code == CodeRun)
			} else {
				g.log.Debug("forward cannot leave the scrum", "player", cmd.Player)
			}
		default:
			g.log.Debug("action not allowed in scrum", "player", cmd.Player, "code", cmd.Code)
		}
		return false
	})
	if ended {
		return
	}

	g.scrumDrift(weight)
	g.judge()
}

func (g *Game) scrumPickup(side model.Side, p *model.Player) bool {
	if p.Pos().Dist(g.Match.Ball.Pos()) >= pickupAtBase {
		g.log.Debug("ball out of reach at scrum base", "player", ref(side, p))
		return false
	}
	g.log.Info("ball gathered from scrum", "player", ref(side, p))
	g.takeBall(side, p)
	return true
}
