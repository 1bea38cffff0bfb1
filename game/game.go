// Package game advances a rugby match one command batch at a time. A Game is
// owned by a single session and is not safe for concurrent use.
package game

import (
	"errors"
	"log/slog"

	"github.com/nstehr/ruck/ruck-core/model"
	"github.com/nstehr/ruck/ruck-core/rules"
)

var ErrNotInitialized = errors.New("match not initialized")

// TickMillis is added to the match clock for every processed batch.
const TickMillis = 25

// Game couples one match with its random source and referee.
type Game struct {
	Match *model.Match

	rng     Rand
	referee *rules.Engine
	log     *slog.Logger
	ready   bool
}

func New(rng Rand, referee *rules.Engine, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		Match:   model.NewMatch(),
		rng:     rng,
		referee: referee,
		log:     logger,
	}
}

// Ready reports whether Init has succeeded.
func (g *Game) Ready() bool { return g.ready }

// Step applies one command batch and returns the position report. Bad tokens
// never fail a step; the only error is stepping before Init.
func (g *Game) Step(batch string) (string, error) {
	if !g.ready {
		return "", ErrNotInitialized
	}
	m := g.Match
	m.Time += TickMillis

	header, tokens := splitBatch(batch)
	if header != "" {
		if kind, ok := model.ParsePhaseKind(header); !ok || kind != m.Phase.Kind() {
			g.log.Debug("batch header differs from match phase", "header", header, "phase", m.Phase.Kind())
		}
	}

	switch m.Phase.(type) {
	case model.Scrum:
		g.stepScrum(tokens)
	case model.Ruck:
		g.stepRuck(tokens)
	case model.Penalty:
		g.stepPenalty(tokens)
	default:
		g.stepOpenPlay(tokens)
	}
	return g.Report(), nil
}

// Snapshot projects the match for renderers.
func (g *Game) Snapshot() model.Snapshot {
	return g.Match.Snapshot()
}

// actFunc applies one command to its player and reports whether it changed
// the phase.
type actFunc func(cmd Command, p *model.Player) bool

// dispatch applies tokens in order. A command that changes the phase ends the
// tick: the remaining tokens are dropped and dispatch returns true.
func (g *Game) dispatch(tokens []string, act actFunc) bool {
	for i, tok := range tokens {
		cmd, err := ParseCommand(tok)
		if err != nil {
			g.log.Warn("skipping command", "token", tok, "error", err)
			continue
		}
		p := g.Match.Player(cmd.Player)
		if p == nil {
			g.log.Debug("no such player", "player", cmd.Player)
			continue
		}
		if act(cmd, p) {
			if rest := len(tokens) - i - 1; rest > 0 {
				g.log.Debug("tick ended early", "phase", g.Match.Phase.Kind(), "dropped", rest)
			}
			return true
		}
	}
	return false
}

// setPhase switches the rules context. Leaving a ruck clears the breakdown
// flags.
func (g *Game) setPhase(p model.Phase) {
	m := g.Match
	if m.Phase.Kind() == model.KindRuck && p.Kind() != model.KindRuck {
		m.ClearBreakdownFlags()
	}
	g.log.Info("phase changed",
		"from", m.Phase.Kind(),
		"to", p.Kind(),
		"side", p.Team(),
		"x", p.Anchor().X,
		"y", p.Anchor().Y,
	)
	m.Phase = p
}

// takeBall gives the ball to p and restarts open play around it.
func (g *Game) takeBall(side model.Side, p *model.Player) {
	g.Match.GiveBall(side, p)
	g.setPhase(model.OpenPlay{Mark: model.Mark{Side: side, At: g.Match.Ball.Pos()}})
}

// awardPenalty stops play with the ball on the mark.
func (g *Game) awardPenalty(side model.Side, at model.Point) {
	m := g.Match
	m.LooseBall()
	m.Flight.Active = false
	m.Ball.X, m.Ball.Y, m.Ball.Z = at.X, at.Y, 0
	g.setPhase(model.Penalty{Mark: model.Mark{Side: side, At: at}})
}

// applyVerdict enacts the highest-priority referee decision.
func (g *Game) applyVerdict(verdicts []rules.Verdict) {
	if len(verdicts) == 0 {
		return
	}
	v := verdicts[0]
	g.log.Info("referee", "rule", v.Rule, "verdict", v.Kind, "side", v.Side, "player", v.Player)

	switch v.Kind {
	case rules.VerdictPenalty:
		g.awardPenalty(v.Side, v.At)
	case rules.VerdictScrum:
		g.setupScrum(v.Side, v.At)
	case rules.VerdictResume:
		g.setPhase(model.OpenPlay{Mark: model.Mark{Side: v.Side, At: v.At}})
	case rules.VerdictTurnover:
		if p := g.Match.Player(v.Player); p != nil {
			g.takeBall(v.Player.Side, p)
		}
	}
}

// judge runs the referee over the match and enacts its decision.
func (g *Game) judge() {
	g.applyVerdict(g.referee.Evaluate(g.Match))
}
