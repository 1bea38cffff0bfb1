package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/ruck/ruck-core/model"
)

// Engine runs compiled referee rules against the match after each tick.
// Rules fire in priority order; an exclusive rule blocks lower-priority
// rules in the same category. The engine holds no per-match state and may
// be shared by every session.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Evaluate returns the verdicts of every rule that fired, highest priority
// first. The match is read, never written.
func (e *Engine) Evaluate(m *model.Match) []Verdict {
	env := RefereeEnv{Match: m}
	fired := make(map[string]bool) // category → exclusive rule already fired

	var verdicts []Verdict
	for _, r := range e.rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		v := r.Call(env)
		v.Rule = r.Name
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category, "verdict", v.Kind)
		verdicts = append(verdicts, v)

		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return verdicts
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		if r.Call == nil {
			return nil, fmt.Errorf("rule %q has no call", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RefereeEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
