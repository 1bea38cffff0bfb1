package game

const (
	pickupHeight = 3.5 // metres; higher balls cannot be gathered
	pickupRange  = 1.0
	armReach     = 50.0 // cm above head height
)

// resolvePickup lets the first player close enough to a loose ball gather
// it. Home players are tried before away players, in roster order. Bad
// weather can make an attempt fail, in which case the next player is tried.
func (g *Game) resolvePickup() {
	m := g.Match
	if m.Ball.Carried || m.Ball.Z > pickupHeight {
		return
	}
	for side, p := range m.Players() {
		if p.Pos().Dist(m.Ball.Pos()) >= pickupRange || m.Ball.Z > (p.Size+armReach)/100 {
			continue
		}
		if g.percent() <= m.Field.Weather/2 {
			g.log.Info("pickup fumbled", "player", ref(side, p), "weather", m.Field.Weather)
			continue
		}
		g.log.Info("pickup", "player", ref(side, p))
		g.takeBall(side, p)
		return
	}
}
