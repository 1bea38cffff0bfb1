package game

import "github.com/nstehr/ruck/ruck-core/model"

// advanceFlight moves an airborne ball by one tick under gravity. The phase
// anchor follows the ball; on landing the ball rests at Z = 0.
func (g *Game) advanceFlight() {
	m := g.Match
	f := &m.Flight
	if !f.Active {
		return
	}

	m.Ball.X += f.VX * DT
	m.Ball.Y += f.VY * DT
	m.Ball.Z += f.VZ * DT
	f.VZ -= Gravity * DT

	m.Phase = model.WithAnchor(m.Phase, m.Ball.Pos())

	if m.Ball.Z <= 0 {
		m.Ball.Z = 0
		f.Active = false
		g.log.Debug("ball landed", "x", m.Ball.X, "y", m.Ball.Y)
	}
}
