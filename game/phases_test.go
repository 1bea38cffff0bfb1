package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/nstehr/ruck/ruck-core/model"
)

const fullPack = "H1:S\nH2:S\nH3:S\nH4:S\nH5:S\nH6:S\nH7:S\nH8:S\nA1:S\nA2:S\nA3:S\nA4:S\nA5:S\nA6:S\nA7:S\nA8:S"

func TestScrumReversalScalesWithWeightGap(t *testing.T) {
	g := startedGame(t, rand.New(rand.NewSource(7)), "")
	for _, p := range g.Match.Away.Players {
		p.Pound = 102
	}

	const trials = 2000
	homeWins := 0
	for range trials {
		g.setupScrum(model.Home, model.Point{X: 60, Y: 35})
		x0 := g.Match.Ball.X
		step(t, g, fullPack)
		if g.Match.Ball.X < x0 {
			homeWins++
		}
	}
	// 816 against 800: the put-in is reversed 20*16/1616, about 20% of the time.
	if homeWins < 1500 || homeWins > 1700 {
		t.Errorf("put-in pack won %d of %d drifts, want about 1600", homeWins, trials)
	}
}

func TestEqualPacksDriftToPutIn(t *testing.T) {
	for _, batch := range []string{"", fullPack} {
		g := startedGame(t, fixedRand(0), "")
		g.setupScrum(model.Away, model.Point{X: 60, Y: 35})
		x0 := g.Match.Ball.X
		step(t, g, batch)
		if !near(g.Match.Ball.X, x0+scrumDriftStep) {
			t.Errorf("batch %q: ball x = %v, want %v", batch, g.Match.Ball.X, x0+scrumDriftStep)
		}
	}
}

func TestHeavierPutInIsNeverReversed(t *testing.T) {
	g := startedGame(t, fixedRand(0), "")
	for _, p := range g.Match.Home.Players {
		p.Pound = 101
	}
	for range 50 {
		g.setupScrum(model.Home, model.Point{X: 60, Y: 35})
		x0 := g.Match.Ball.X
		step(t, g, fullPack)
		if !near(g.Match.Ball.X, x0-scrumDriftStep) {
			t.Fatalf("ball x = %v, want %v", g.Match.Ball.X, x0-scrumDriftStep)
		}
	}
}

func TestDominantPackAlwaysWinsDrift(t *testing.T) {
	g := startedGame(t, fixedRand(0), "")
	g.setupScrum(model.Away, model.Point{X: 60, Y: 35})
	x0 := g.Match.Ball.X
	step(t, g, "H1:S\nH2:S\nH3:S\nH4:S\nH5:S\nH6:S\nH7:S\nH8:S\nA1:S")
	if !near(g.Match.Ball.X, x0-scrumDriftStep) {
		t.Errorf("ball x = %v, want %v", g.Match.Ball.X, x0-scrumDriftStep)
	}
}

func TestScrumSetupFormation(t *testing.T) {
	g := startedGame(t, fixedRand(0.5), "")
	g.setupScrum(model.Home, model.Point{X: 5, Y: 68})

	m := g.Match
	at := m.Phase.Anchor()
	if at.X != 16 || at.Y != 64 {
		t.Fatalf("scrum mark %v not clamped into the field", at)
	}
	if m.Phase.Radius() != model.ScrumSize {
		t.Errorf("scrum radius %v", m.Phase.Radius())
	}
	if m.Ball.Carried || !near(m.Ball.X, 15.5) || m.Ball.Y != 64 {
		t.Errorf("ball %+v, want loose on the home side of the mark", m.Ball)
	}

	checks := []struct {
		side   model.Side
		number int
		x, y   float64
	}{
		{model.Home, 2, 15.5, 64},
		{model.Away, 2, 16.5, 64},
		{model.Home, 8, 13.5, 64},
		{model.Home, 9, 15.5, 61.5}, // open side is toward the middle
		{model.Home, 11, -7, 10},
		{model.Away, 11, 39, 60},
		{model.Away, 14, 39, 10},
	}
	for _, c := range checks {
		p := player(t, g, c.side, c.number)
		if !near(p.X, c.x) || !near(p.Y, c.y) {
			t.Errorf("%s%d at %v, want (%v, %v)", c.side, c.number, p.Pos(), c.x, c.y)
		}
	}

	// Home backs 10, 12, 13, 15 fan out toward y = 15; away backs mirror
	// them 9.5 m on the other side of the mark.
	for i, n := range []int{10, 12, 13, 15} {
		h := player(t, g, model.Home, n)
		a := player(t, g, model.Away, n)
		tt := float64(i+1) / 4
		wantX := 16 - 7.5 + tt*(-10)
		wantY := 64 + tt*(15-64)
		if !near(h.X, wantX) || !near(h.Y, wantY) {
			t.Errorf("H%d at %v, want (%v, %v)", n, h.Pos(), wantX, wantY)
		}
		if !near(a.X, 25.5) || !near(a.Y, wantY) {
			t.Errorf("A%d at %v, want (25.5, %v)", n, a.Pos(), wantY)
		}
	}
}

func TestScrumRolesByRosterIndex(t *testing.T) {
	g := startedGame(t, fixedRand(0.5), "")
	g.setupScrum(model.Home, model.Point{X: 60, Y: 35})

	h1 := player(t, g, model.Home, 1)
	prop := h1.Pos()
	step(t, g, "H1:R90\nH1:T")
	if h1.Pos() != prop {
		t.Errorf("prop left the scrum: %v", h1.Pos())
	}
	if g.Match.Phase.Kind() != model.KindScrum {
		t.Fatalf("prop gathered the ball: phase %s", g.Match.Phase.Kind())
	}

	h12 := player(t, g, model.Home, 12)
	x := h12.X
	step(t, g, "H12:R0")
	if near(h12.X, x) {
		t.Error("back could not reposition during scrum")
	}

	h9 := player(t, g, model.Home, 9)
	h9.X, h9.Y = g.Match.Ball.X, g.Match.Ball.Y+0.5
	step(t, g, "H9:T\nH12:R0")
	m := g.Match
	if m.Phase.Kind() != model.KindOpenPlay || m.Phase.Team() != model.Home || !h9.Carrying {
		t.Fatalf("scrum-half did not gather: phase %s %s carrying=%v", m.Phase.Kind(), m.Phase.Team(), h9.Carrying)
	}
}

func TestBallOutOfScrumResumesPlay(t *testing.T) {
	g := startedGame(t, fixedRand(0), "")
	g.setupScrum(model.Home, model.Point{X: 60, Y: 35})
	for range 20 {
		step(t, g, "H1:S\nH2:S\nH3:S")
		if g.Match.Phase.Kind() != model.KindScrum {
			break
		}
	}
	m := g.Match
	if m.Phase.Kind() != model.KindOpenPlay || m.Phase.Team() != model.Home {
		t.Fatalf("phase %s %s, want home open play", m.Phase.Kind(), m.Phase.Team())
	}
	if m.Phase.Anchor() != m.Ball.Pos() {
		t.Errorf("play resumed at %v, ball at %v", m.Phase.Anchor(), m.Ball.Pos())
	}
}

func TestTackleFormsRuck(t *testing.T) {
	g := startedGame(t, fixedRand(0), "")
	a7 := player(t, g, model.Away, 7)
	a7.X, a7.Y = 58.8, 33
	h1 := player(t, g, model.Home, 1)
	h1Pos := h1.Pos()

	out := step(t, g, "A7:T\nH1:R0")

	m := g.Match
	ruck, ok := m.Phase.(model.Ruck)
	if !ok || ruck.Team() != model.Away {
		t.Fatalf("phase %s %s, want away ruck", m.Phase.Kind(), m.Phase.Team())
	}
	if ruck.Anchor() != (model.Point{X: 58, Y: 33}) || ruck.Radius() != model.RuckSize {
		t.Errorf("ruck at %v radius %v", ruck.Anchor(), ruck.Radius())
	}
	if ruck.Held != (model.PlayerRef{Side: model.Home, Number: 10}) || ruck.Tackler != (model.PlayerRef{Side: model.Away, Number: 7}) {
		t.Errorf("ruck refs %s / %s", ruck.Held, ruck.Tackler)
	}
	h10 := player(t, g, model.Home, 10)
	if !h10.Held || !a7.MustRelease || h10.Carrying {
		t.Errorf("flags held=%v release=%v carrying=%v", h10.Held, a7.MustRelease, h10.Carrying)
	}
	if m.Ball.Carried || !near(m.Ball.X, 57.5) || m.Ball.Y != 33 {
		t.Errorf("ball %+v, want loose behind the tackled player", m.Ball)
	}
	if h1.Pos() != h1Pos {
		t.Error("command after the tackle was applied")
	}
	if !strings.HasPrefix(out, "ruck A\n") {
		t.Errorf("report header %q", strings.SplitN(out, "\n", 2)[0])
	}
}

func TestTacklerHoldingOnConcedesPenalty(t *testing.T) {
	g := startedGame(t, fixedRand(0), "")
	a7 := player(t, g, model.Away, 7)
	a7.X, a7.Y = 58.8, 33
	step(t, g, "A7:T")
	step(t, g, "A7:S")

	m := g.Match
	if _, ok := m.Phase.(model.Penalty); !ok || m.Phase.Team() != model.Home {
		t.Fatalf("phase %s %s, want home penalty", m.Phase.Kind(), m.Phase.Team())
	}
	if m.Phase.Anchor() != (model.Point{X: 58, Y: 33}) {
		t.Errorf("penalty mark %v", m.Phase.Anchor())
	}
	for s, p := range m.Players() {
		if p.Held || p.MustRelease {
			t.Errorf("%s%d keeps breakdown flags after the ruck", s, p.Number)
		}
	}
}

func TestTacklerWhoLeavesIsReleased(t *testing.T) {
	g := startedGame(t, fixedRand(0), "")
	a7 := player(t, g, model.Away, 7)
	a7.X, a7.Y = 58.8, 33
	step(t, g, "A7:T")
	step(t, g, "A7:R0")

	if g.Match.Phase.Kind() != model.KindRuck {
		t.Fatalf("phase %s, want ruck", g.Match.Phase.Kind())
	}
	if a7.MustRelease {
		t.Error("tackler clear of the ruck still flagged")
	}
	if !player(t, g, model.Home, 10).Held {
		t.Error("tackled player released too early")
	}
}

func TestMissedTackle(t *testing.T) {
	g := startedGame(t, fixedRand(0.99), "")
	a7 := player(t, g, model.Away, 7)
	a7.X, a7.Y = 58.8, 33
	step(t, g, "A7:T")
	if g.Match.Phase.Kind() != model.KindOpenPlay || !player(t, g, model.Home, 10).Carrying {
		t.Fatalf("missed tackle changed play: %s", g.Match.Phase.Kind())
	}

	g = startedGame(t, fixedRand(0), "")
	step(t, g, "A7:T")
	if g.Match.Phase.Kind() != model.KindOpenPlay {
		t.Fatal("tackle from 32 m away succeeded")
	}
}

// homeRuck puts the match into a home ruck at (60, 35) with every away
// player onside and H9 at the base.
func homeRuck(t *testing.T) *Game {
	t.Helper()
	g := startedGame(t, fixedRand(0), "")
	m := g.Match
	m.Phase = model.Ruck{Mark: model.Mark{Side: model.Home, At: model.Point{X: 60, Y: 35}}, Size: model.RuckSize}
	m.LooseBall()
	m.Ball.X, m.Ball.Y, m.Ball.Z = 59.5, 35, 0
	for _, p := range m.Away.Players {
		p.X = 80
	}
	h9 := player(t, g, model.Home, 9)
	h9.X, h9.Y = 58.8, 35
	return g
}

func TestRuckPickupWhenOnside(t *testing.T) {
	g := homeRuck(t)
	step(t, g, "H9:T")
	m := g.Match
	if m.Phase.Kind() != model.KindOpenPlay || !player(t, g, model.Home, 9).Carrying {
		t.Fatalf("phase %s, want H9 away with the ball", m.Phase.Kind())
	}
}

func TestRuckOffsideAlwaysPenalised(t *testing.T) {
	spots := []model.Point{{X: 50, Y: 35}, {X: 60.9, Y: 20}, {X: 55, Y: 10}, {X: 40, Y: 60}, {X: 60, Y: 38.1}}
	for _, at := range spots {
		g := homeRuck(t)
		a5 := player(t, g, model.Away, 5)
		a5.X, a5.Y = at.X, at.Y

		step(t, g, "H9:T")

		m := g.Match
		if _, ok := m.Phase.(model.Penalty); !ok || m.Phase.Team() != model.Home {
			t.Fatalf("defender at %v: phase %s %s, want home penalty", at, m.Phase.Kind(), m.Phase.Team())
		}
		if m.Ball.Carried || player(t, g, model.Home, 9).Carrying {
			t.Errorf("defender at %v: ball was caught", at)
		}
	}
}

func TestRuckCounterRuckTurnover(t *testing.T) {
	g := homeRuck(t)
	m := g.Match
	for _, p := range m.Home.Players {
		p.X = 20
	}
	a4, a5 := player(t, g, model.Away, 4), player(t, g, model.Away, 5)
	a4.X, a4.Y = 59, 35
	a5.X, a5.Y = 61, 35

	step(t, g, "")

	if m.Phase.Kind() != model.KindOpenPlay || m.Phase.Team() != model.Away || !a4.Carrying {
		t.Fatalf("phase %s %s, A4 carrying=%v", m.Phase.Kind(), m.Phase.Team(), a4.Carrying)
	}
}

func TestRuckRestartRoundTrip(t *testing.T) {
	g := startedGame(t, fixedRand(0), "ruck A 60 35 3 H4 A7_B 59.5 35_H4 60 35_A7 60.8 35")

	m := g.Match
	ruck, ok := m.Phase.(model.Ruck)
	if !ok || ruck.Team() != model.Away || ruck.Radius() != 3 {
		t.Fatalf("phase %s %s radius %v", m.Phase.Kind(), m.Phase.Team(), m.Phase.Radius())
	}
	if ruck.Held.String() != "H4" || ruck.Tackler.String() != "A7" {
		t.Errorf("ruck refs %s / %s", ruck.Held, ruck.Tackler)
	}
	for s, p := range m.Players() {
		r := ref(s, p).String()
		if p.Held != (r == "H4") || p.MustRelease != (r == "A7") {
			t.Errorf("%s flags held=%v release=%v", r, p.Held, p.MustRelease)
		}
		if p.Carrying {
			t.Errorf("%s carries during a ruck", r)
		}
	}
	if m.Ball.Carried || m.Ball.X != 59.5 || m.Ball.Y != 35 {
		t.Errorf("ball %+v", m.Ball)
	}
	if !strings.HasPrefix(g.Report(), "ruck A\ntime:0\nB: 59.5 35\n") {
		t.Errorf("report:\n%s", g.Report())
	}

	h4 := player(t, g, model.Home, 4)
	step(t, g, "H4:R180")
	if h4.X != 60 || h4.Y != 35 {
		t.Errorf("held player moved to %v", h4.Pos())
	}
}

func TestRuckRestartWithoutBallDropsIt(t *testing.T) {
	g := startedGame(t, fixedRand(0), "ruck A 60 35 3 H4 A7_H4 60 35_A7 60.8 35")

	m := g.Match
	if m.Phase.Kind() != model.KindRuck {
		t.Fatalf("phase %s", m.Phase.Kind())
	}
	if _, _, ok := m.Carrier(); ok || m.Ball.Carried {
		t.Fatal("ball still carried after a ruck restart")
	}
	if !near(m.Ball.X, 59.5) || m.Ball.Y != 35 || m.Ball.Z != 0 {
		t.Errorf("ball %+v, want behind the held player at (59.5, 35)", m.Ball)
	}
}

func TestSetPieceRestartWithoutBallUsesMark(t *testing.T) {
	for _, restart := range []string{"scrum H 50 30 4.2", "penalty A 40 20 0"} {
		g := startedGame(t, fixedRand(0), restart)
		m := g.Match
		at := m.Phase.Anchor()
		if _, _, ok := m.Carrier(); ok || m.Ball.Carried {
			t.Errorf("%s: ball still carried", restart)
		}
		if m.Ball.X != at.X || m.Ball.Y != at.Y || m.Flight.Active {
			t.Errorf("%s: ball %+v, want on the mark %v", restart, m.Ball, at)
		}
	}

	g := startedGame(t, fixedRand(0), "play H 0 0 0")
	if !player(t, g, model.Home, 10).Carrying {
		t.Error("open play restart should keep the kick-off carrier")
	}
}

func TestRestartCarrierKeepsBall(t *testing.T) {
	g := startedGame(t, fixedRand(0), "play A 70 20 0_A12 70 20/B 70.5 20")
	a12 := player(t, g, model.Away, 12)
	if !a12.Carrying || player(t, g, model.Home, 10).Carrying {
		t.Fatal("restart did not move possession to A12")
	}
	if !near(g.Match.Ball.X, 69.5) || g.Match.Ball.Y != 20 {
		t.Errorf("ball %+v, want just ahead of A12 toward south", g.Match.Ball)
	}
}

func TestPenaltyRestartChoices(t *testing.T) {
	const restart = "penalty H 60 35_B 60 35"

	t.Run("wrong side", func(t *testing.T) {
		g := startedGame(t, fixedRand(0), restart)
		step(t, g, "A10:S\nA10:K0/45")
		if g.Match.Phase.Kind() != model.KindPenalty {
			t.Fatalf("phase %s, want penalty", g.Match.Phase.Kind())
		}
	})

	t.Run("scrum", func(t *testing.T) {
		g := startedGame(t, fixedRand(0), restart)
		step(t, g, "H1:S")
		m := g.Match
		if _, ok := m.Phase.(model.Scrum); !ok || m.Phase.Team() != model.Home || m.Phase.Anchor() != (model.Point{X: 60, Y: 35}) {
			t.Fatalf("phase %s %s at %v", m.Phase.Kind(), m.Phase.Team(), m.Phase.Anchor())
		}
	})

	t.Run("free kick", func(t *testing.T) {
		g := startedGame(t, fixedRand(0), restart)
		step(t, g, "H10:K0/45")
		m := g.Match
		if m.Phase.Kind() != model.KindFreeKick || !m.Flight.Active || m.Ball.Carried {
			t.Fatalf("phase %s flight %+v", m.Phase.Kind(), m.Flight)
		}
		h10 := player(t, g, model.Home, 10)
		if h10.X != 60 || h10.Y != 35 {
			t.Errorf("kicker at %v", h10.Pos())
		}
		if a1 := player(t, g, model.Away, 1); !near(a1.X, 71) {
			t.Errorf("receiver at x=%v, want 71", a1.X)
		}
		if h1 := player(t, g, model.Home, 1); !near(h1.X, 59.5) {
			t.Errorf("support at x=%v, want 59.5", h1.X)
		}
		step(t, g, "")
		if g.Match.Phase.Kind() != model.KindOpenPlay {
			t.Errorf("phase after free kick %s, want play", g.Match.Phase.Kind())
		}
	})

	t.Run("penalty kick", func(t *testing.T) {
		g := startedGame(t, fixedRand(0), restart)
		step(t, g, "H10:P90/30")
		m := g.Match
		if m.Phase.Kind() != model.KindPenaltyKick || !m.Flight.Active {
			t.Fatalf("phase %s flight %+v", m.Phase.Kind(), m.Flight)
		}
		for _, p := range m.Away.Players {
			if p.X != 110 {
				t.Errorf("A%d at x=%v, want on the try line", p.Number, p.X)
			}
		}
	})
}

func TestPickupWeather(t *testing.T) {
	setup := func(rng Rand) (*Game, *model.Player) {
		g := newGame(t, rng)
		if err := g.Init(initPayload("weather=100", 15, "")); err != nil {
			t.Fatalf("Init: %v", err)
		}
		g.Match.LooseBall()
		g.Match.Ball.X, g.Match.Ball.Y, g.Match.Ball.Z = 70, 20, 0
		h1 := player(t, g, model.Home, 1)
		h1.X, h1.Y = 70.3, 20
		return g, h1
	}

	g, h1 := setup(fixedRand(0.3))
	step(t, g, "")
	if h1.Carrying || g.Match.Ball.Carried {
		t.Error("pickup should fail in heavy rain with a low draw")
	}

	g, h1 = setup(fixedRand(0.9))
	step(t, g, "")
	if !h1.Carrying || g.Match.Phase.Team() != model.Home {
		t.Error("pickup should succeed with a high draw")
	}

	g, h1 = setup(fixedRand(0.9))
	g.Match.Ball.Z = 3
	step(t, g, "")
	if h1.Carrying {
		t.Error("ball above reach was gathered")
	}
}
