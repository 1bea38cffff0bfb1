package rules

import (
	"testing"

	"github.com/nstehr/ruck/ruck-core/model"
)

func referee(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func ruckAt(m *model.Match, side model.Side, at model.Point) {
	m.Phase = model.Ruck{Mark: model.Mark{Side: side, At: at}, Size: model.RuckSize}
	m.Ball = model.Ball{X: at.X - 0.5, Y: at.Y}
}

func TestQuietOpenPlayHasNoVerdict(t *testing.T) {
	m := testMatch()
	if v := referee(t).Evaluate(m); len(v) != 0 {
		t.Errorf("expected no verdicts, got %+v", v)
	}
}

func TestTacklerHoldingOnIsPenalised(t *testing.T) {
	m := testMatch()
	at := model.Point{X: 60, Y: 35}
	ruckAt(m, model.Away, at)
	tackler, _ := m.Away.Find(7)
	tackler.X, tackler.Y = 60.5, 35
	tackler.MustRelease = true

	v := referee(t).Evaluate(m)
	if len(v) != 1 {
		t.Fatalf("expected one verdict, got %+v", v)
	}
	if v[0].Kind != VerdictPenalty || v[0].Side != model.Home || v[0].At != at {
		t.Errorf("unexpected verdict %+v", v[0])
	}
	if v[0].Player != (model.PlayerRef{Side: model.Away, Number: 7}) {
		t.Errorf("offender = %s, want A7", v[0].Player)
	}
}

func TestReleasedTacklerIsNotPenalised(t *testing.T) {
	m := testMatch()
	ruckAt(m, model.Away, model.Point{X: 60, Y: 35})
	tackler, _ := m.Away.Find(7)
	tackler.X, tackler.Y = 62, 35
	tackler.MustRelease = true

	for _, v := range referee(t).Evaluate(m) {
		if v.Kind == VerdictPenalty {
			t.Fatalf("tackler outside the clearance should not be penalised: %+v", v)
		}
	}
}

func TestRuckTurnoverToNearestHeavierContester(t *testing.T) {
	m := testMatch()
	at := model.Point{X: 60, Y: 35}
	ruckAt(m, model.Away, at)

	a6, _ := m.Away.Find(6)
	a6.X, a6.Y = 61, 35
	for _, n := range []int{4, 5} {
		h, _ := m.Home.Find(n)
		h.X, h.Y = 59, 35+float64(n-4)
	}
	// The held player never counts.
	held, _ := m.Home.Find(2)
	held.X, held.Y, held.Held = 60, 35, true

	v := referee(t).Evaluate(m)
	if len(v) != 1 || v[0].Kind != VerdictTurnover {
		t.Fatalf("expected turnover, got %+v", v)
	}
	if v[0].Player != (model.PlayerRef{Side: model.Home, Number: 4}) {
		t.Errorf("expected nearest contester H4, got %s", v[0].Player)
	}
}

func TestRuckHoldingOnBeatsTurnover(t *testing.T) {
	m := testMatch()
	at := model.Point{X: 60, Y: 35}
	ruckAt(m, model.Away, at)
	tackler, _ := m.Away.Find(7)
	tackler.X, tackler.Y, tackler.MustRelease = 60.2, 35, true
	for _, n := range []int{4, 5} {
		h, _ := m.Home.Find(n)
		h.X, h.Y = 59, 35
	}

	v := referee(t).Evaluate(m)
	if len(v) != 1 || v[0].Kind != VerdictPenalty {
		t.Fatalf("expected a single penalty, got %+v", v)
	}
}

func TestBallOutOfScrum(t *testing.T) {
	m := testMatch()
	at := model.Point{X: 60, Y: 35}
	m.Phase = model.Scrum{Mark: model.Mark{Side: model.Home, At: at}}
	m.Ball = model.Ball{X: 60 + model.ScrumSize, Y: 35}

	v := referee(t).Evaluate(m)
	if len(v) != 1 || v[0].Kind != VerdictResume {
		t.Fatalf("expected resume, got %+v", v)
	}
	if v[0].At != m.Ball.Pos() || v[0].Side != model.Home {
		t.Errorf("unexpected resume verdict %+v", v[0])
	}

	m.Ball.X = 62
	if v := referee(t).Evaluate(m); len(v) != 0 {
		t.Errorf("ball inside the scrum should not resume play: %+v", v)
	}
}

func TestBallInTouchAwardsScrumToOpponent(t *testing.T) {
	m := testMatch()
	h10, _ := m.Home.Find(10)
	h10.X, h10.Y = 5, -1
	m.GiveBall(model.Home, h10)

	v := referee(t).Evaluate(m)
	if len(v) != 1 || v[0].Kind != VerdictScrum {
		t.Fatalf("expected scrum, got %+v", v)
	}
	if v[0].Side != model.Away {
		t.Errorf("scrum should go to away, got %s", v[0].Side)
	}
	if v[0].At.X != m.Field.TryDepth+6 {
		t.Errorf("restart x = %v, want clamp to %v", v[0].At.X, m.Field.TryDepth+6)
	}
}
