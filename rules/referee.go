package rules

// DefaultRules returns the referee rule set checked after every tick.
// Conditions only call RefereeEnv helpers, so they always compile.
func DefaultRules() []*Rule {
	return []*Rule{
		{
			Name:         "tackler-holding-on",
			Priority:     900,
			Category:     "breakdown",
			Exclusive:    true,
			ConditionSrc: `Phase() == "ruck" && TacklerHoldingOn()`,
			Call:         CallHoldingOn,
		},
		{
			Name:         "ruck-turnover",
			Priority:     800,
			Category:     "breakdown",
			Exclusive:    true,
			ConditionSrc: `Phase() == "ruck" && HasContester() && OppositionWeight() > PossessionWeight()`,
			Call:         CallTurnover,
		},
		{
			Name:         "ball-out-of-scrum",
			Priority:     700,
			Category:     "scrum",
			Exclusive:    true,
			ConditionSrc: `Phase() == "scrum" && !BallCarried() && BallDistance() >= Radius()`,
			Call:         CallResume,
		},
		{
			Name:         "ball-in-touch",
			Priority:     600,
			Category:     "touch",
			Exclusive:    true,
			ConditionSrc: `Phase() == "play" && BallInTouch()`,
			Call:         CallTouch,
		},
	}
}

// CallHoldingOn penalises the side of a tackler who stayed on the ball.
func CallHoldingOn(env RefereeEnv) Verdict {
	ref, _ := env.holdingTackler()
	return Verdict{
		Kind:   VerdictPenalty,
		Side:   ref.Side.Opponent(),
		At:     env.Match.Phase.Anchor(),
		Player: ref,
	}
}

// CallTurnover hands the ball to the nearest opposition contester.
func CallTurnover(env RefereeEnv) Verdict {
	ref, _ := env.nearestContester()
	return Verdict{
		Kind:   VerdictTurnover,
		Side:   ref.Side,
		At:     env.Match.Phase.Anchor(),
		Player: ref,
	}
}

// CallResume restarts open play where the ball left the set piece.
func CallResume(env RefereeEnv) Verdict {
	return Verdict{
		Kind: VerdictResume,
		Side: env.Match.Phase.Team(),
		At:   env.Match.Ball.Pos(),
	}
}

// CallTouch awards a scrum against the side that put the ball out.
func CallTouch(env RefereeEnv) Verdict {
	return Verdict{
		Kind: VerdictScrum,
		Side: env.lastPossession().Opponent(),
		At:   env.touchRestart(),
	}
}
