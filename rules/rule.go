package rules

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/ruck/ruck-core/model"
)

// CallFunc turns a rule whose condition held into a verdict for the engine
// to apply to the match.
type CallFunc func(env RefereeEnv) Verdict

// Rule is a condition → call pair. The engine evaluates rules by priority
// and uses Category + Exclusive so that one incident yields one decision.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Call         CallFunc
}

// VerdictKind says how the phase must change.
type VerdictKind int

const (
	// VerdictPenalty awards a penalty to Side at At.
	VerdictPenalty VerdictKind = iota + 1
	// VerdictScrum awards the put-in of a scrum at At to Side.
	VerdictScrum
	// VerdictResume returns to open play at At with Side in possession.
	VerdictResume
	// VerdictTurnover gives the ball to Player and resumes open play.
	VerdictTurnover
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictPenalty:
		return "penalty"
	case VerdictScrum:
		return "scrum"
	case VerdictResume:
		return "resume"
	case VerdictTurnover:
		return "turnover"
	default:
		return "none"
	}
}

// Verdict is the referee's decision for one rule.
type Verdict struct {
	Rule   string
	Kind   VerdictKind
	Side   model.Side
	At     model.Point
	Player model.PlayerRef
}
