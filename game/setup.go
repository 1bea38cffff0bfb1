package game

import "github.com/nstehr/ruck/ruck-core/model"

// Positions lists jersey numbers in the order players line up across the
// pitch at a restart kick, from one touchline to the other.
var Positions = [...]int{11, 15, 13, 9, 7, 5, 3, 1, 2, 4, 6, 8, 10, 12, 14}

const (
	scrumMarginX = 6.0
	scrumMarginY = 6.0
	wingDepth    = 23.0
	wingTouch    = 10.0 // wings stand this far in from the touchlines
	backLineNear = 7.5
	backLineFar  = 17.5
	backLineOpen = 15.0 // the back line ends this far from the far touchline
	defenceLine  = 9.5
	restartStep  = 0.5
)

// packSlot is the offset of a forward from the scrum mark, before the
// attack sign is applied.
type packSlot struct {
	number int
	dx, dy float64
}

var scrumPack = []packSlot{
	{1, 0.5, -1}, {2, 0.5, 0}, {3, 0.5, 1}, // front row
	{4, 1.5, -0.5}, {5, 1.5, 0.5}, // second row
	{6, 1.5, -1.5}, {7, 1.5, 1.5}, {8, 2.5, 0}, // back row
}

// setupScrum packs down a scrum with side putting in at at. The mark is kept
// inside the field, both packs bind behind it, scrum-halves stand on the
// open side, wings sit deep near the touchlines and the remaining backs form
// two diagonal lines.
func (g *Game) setupScrum(side model.Side, at model.Point) {
	m := g.Match
	f := m.Field
	at.X = clamp(at.X, f.TryDepth+scrumMarginX, f.Width+f.TryDepth-scrumMarginX)
	at.Y = clamp(at.Y, scrumMarginY, f.Height-scrumMarginY)

	m.LooseBall()
	m.Flight.Active = false
	m.Ball.X = at.X - f.AttackSign(side)*restartStep
	m.Ball.Y = at.Y
	m.Ball.Z = 0

	upper := at.Y > f.Height/2
	for _, s := range model.Sides {
		sign := f.AttackSign(s)
		team := m.Team(s)
		for _, slot := range scrumPack {
			if p, _ := team.Find(slot.number); p != nil {
				p.X = at.X - sign*slot.dx
				p.Y = at.Y + sign*slot.dy
			}
		}
		if p, _ := team.Find(9); p != nil {
			p.X = at.X - sign*0.5
			p.Y = at.Y + 2.5
			if upper {
				p.Y = at.Y - 2.5
			}
		}
		for _, wing := range []struct {
			number int
			low    bool
		}{{11, sign > 0}, {14, sign < 0}} {
			if p, _ := team.Find(wing.number); p != nil {
				p.X = at.X - sign*wingDepth
				p.Y = f.Height - wingTouch
				if wing.low {
					p.Y = wingTouch
				}
			}
		}
	}

	sign := f.AttackSign(side)
	x1, x2 := at.X-sign*backLineNear, at.X-sign*backLineFar
	y1, y2 := at.Y, backLineOpen
	if at.Y < f.Height/2 {
		y2 = f.Height - backLineOpen
	}
	var line [4]model.Point
	for i := range line {
		t := float64(i+1) / float64(len(line))
		line[i] = model.Point{X: x1 + t*(x2-x1), Y: y1 + t*(y2-y1)}
	}

	i := 0
	for _, p := range backs(m.Team(side)) {
		if i == len(line) {
			break
		}
		p.X, p.Y = line[i].X, line[i].Y
		i++
	}
	i = 0
	for _, p := range backs(m.Team(side.Opponent())) {
		if i == len(line) {
			break
		}
		p.X, p.Y = at.X+sign*defenceLine, line[i].Y
		i++
	}

	g.setPhase(model.Scrum{Mark: model.Mark{Side: side, At: at}})
}

// backs returns the active backs that are not wings, in roster order.
func backs(t *model.Team) []*model.Player {
	var out []*model.Player
	for _, p := range t.Players {
		if p.Number >= 10 && p.Number != 11 && p.Number != 14 {
			out = append(out, p)
		}
	}
	return out
}

// kickLineup describes where the two sides stand for a restart kick.
type kickLineup struct {
	kind model.PhaseKind
	// supportBack is how far behind the mark, in restart steps, the kicker's
	// team-mates line up.
	supportBack float64
	// receiverX places the receiving side given the kicking side's sign.
	receiverX func(f model.Field, at model.Point, sign float64) float64
	// receiverY spreads receivers across the pitch; chase reports whether
	// the receiver at this index drops deeper.
	receiverY func(f model.Field, at model.Point, index int) (y float64, chase bool)
}

var freeKickLineup = kickLineup{
	kind:        model.KindFreeKick,
	supportBack: 1,
	receiverX: func(_ model.Field, at model.Point, sign float64) float64 {
		return at.X + sign*restartStep*22
	},
	receiverY: func(f model.Field, at model.Point, index int) (float64, bool) {
		if at.Y < f.Height/2 {
			return 6 + float64((len(Positions)-2)*3) - float64(index*3), index == len(Positions)-1
		}
		return f.Height - 3 - float64(index*3), index == 0
	},
}

var penaltyKickLineup = kickLineup{
	kind:        model.KindPenaltyKick,
	supportBack: 3,
	receiverX: func(f model.Field, _ model.Point, sign float64) float64 {
		if sign > 0 {
			return f.Width + f.TryDepth
		}
		return f.TryDepth
	},
	receiverY: func(f model.Field, at model.Point, index int) (float64, bool) {
		if at.Y < f.Height/2 {
			return 6 + float64((len(Positions)-1)*3) - float64(index*3), false
		}
		return f.Height - 6 - float64(index*3), false
	},
}

// setupFreeKick lines both sides up for a free kick taken by kicker and
// kicks immediately.
func (g *Game) setupFreeKick(kicker *model.Player, dir, elev float64) {
	g.restartKick(freeKickLineup, kicker, dir, elev)
}

// setupPenaltyKick lines the receivers up on their try line and kicks
// immediately.
func (g *Game) setupPenaltyKick(kicker *model.Player, dir, elev float64) {
	g.restartKick(penaltyKickLineup, kicker, dir, elev)
}

func (g *Game) restartKick(l kickLineup, kicker *model.Player, dir, elev float64) {
	m := g.Match
	f := m.Field
	side := m.Phase.Team()
	at := m.Phase.Anchor()
	sign := f.AttackSign(side)
	kicking, receiving := m.Team(side), m.Team(side.Opponent())

	for _, p := range kicking.Players {
		if p != kicker {
			p.X = at.X - sign*restartStep*l.supportBack
		}
	}
	for _, p := range receiving.Players {
		p.X = l.receiverX(f, at, sign)
	}

	for index, number := range Positions {
		if p, _ := kicking.Find(number); p != nil && p != kicker {
			shift := 0.0
			if number > 10 && number%2 == 0 {
				shift = 3
			}
			if at.Y < f.Height/2 {
				p.Y = 6 + float64(index*3) - shift
			} else {
				p.Y = f.Height - float64((len(Positions)-2)*3) - 6 + float64(index*3) - shift
			}
		}
		if p, _ := receiving.Find(number); p != nil {
			y, chase := l.receiverY(f, at, index)
			p.Y = y
			if chase {
				p.X += sign * restartStep * 20
			}
		}
	}

	kicker.X, kicker.Y = at.X, at.Y
	m.GiveBall(side, kicker)
	g.setPhase(model.NewPhase(l.kind, side, at, 0))
	g.kick(side, kicker, dir, elev)
}
