package game

import (
	"math"

	"github.com/nstehr/ruck/ruck-core/model"
)

const (
	scrumDriftStep = 0.5
	scrumContest   = 20.0
)

// tackleRoll succeeds when a uniform percentage falls below the tackler's
// accuracy.
func (g *Game) tackleRoll(p *model.Player) bool {
	return g.percent() < p.TackleAccuracy
}

// offsidePlayer returns the first defender standing outside the contest zone
// on the wrong side of the offside line. The line sits one metre past the
// anchor toward the defenders' own goal.
func offsidePlayer(m *model.Match) (model.PlayerRef, bool) {
	attack := m.Phase.Team()
	at := m.Phase.Anchor()
	r := m.Phase.Radius()
	sign := m.Field.AttackSign(attack)
	line := at.X + sign

	defence := attack.Opponent()
	for _, p := range m.Team(defence).Players {
		if p.Pos().Dist(at) < r {
			continue
		}
		if (sign > 0 && p.X < line) || (sign < 0 && p.X > line) {
			return ref(defence, p), true
		}
	}
	return model.PlayerRef{}, false
}

// scrumDrift moves the ball one step back toward the put-in side's pack.
// When the opposing pack outweighs the put-in pack, the drift reverses with
// a probability of scrumContest times their relative weight gap, capped at 1.
func (g *Game) scrumDrift(weight map[model.Side]float64) {
	m := g.Match
	in := m.Phase.Team()
	winner := in

	pushIn, pushOpp := weight[in], weight[in.Opponent()]
	if pushOpp > pushIn {
		reverse := math.Min(scrumContest*(pushOpp-pushIn)/(pushOpp+pushIn), 1)
		if g.rng.Float64() < reverse {
			winner = in.Opponent()
			g.log.Debug("scrum contest won against the put-in", "home", weight[model.Home], "away", weight[model.Away])
		}
	}

	m.Ball.X -= m.Field.AttackSign(winner) * scrumDriftStep
}
