// Package odds computes exact battle outcome expectations by enumerating every dice roll.
//
// The cost grows with faces^(attack dice + defend dice) per reachable state, which is small
// for standard rules and a few dozen units per side.
package odds

import (
	"fmt"

	"riskodds/game"
	"riskodds/utils"
)

// Odds are the exact expectations matching the estimates of simulator.Stats.
type Odds struct {
	AttackerWinRate float64
	AvgAttackers    float64
	AvgDefenders    float64
	AvgRounds       float64
}

type forces struct{ attackers, defenders int }

type transition struct {
	attackerLosses int
	defenderLosses int
	probability    float64
}

type calculator struct {
	rules  game.Rules
	policy game.DefenderPolicy
	memo   map[forces]Odds
}

// Exact returns the expected outcome of a battle under the given rules and defender policy.
// The policy must be deterministic in its inputs.
func Exact(attackers, defenders int, rules game.Rules, policy game.DefenderPolicy) (Odds, error) {
	if attackers < 1 || defenders < 0 {
		return Odds{}, fmt.Errorf("%w: attackers=%d defenders=%d", game.ErrInvalidForces, attackers, defenders)
	}
	if rules == nil {
		rules = game.NewStandardRules()
	}
	if policy == nil {
		policy = game.MaxDefense{}
	}
	if err := game.ValidateRules(rules); err != nil {
		return Odds{}, err
	}
	c := &calculator{rules: rules, policy: policy, memo: make(map[forces]Odds)}
	return c.solve(forces{attackers, defenders}), nil
}

func (c *calculator) solve(f forces) Odds {
	if f.defenders == 0 {
		return Odds{AttackerWinRate: 1, AvgAttackers: float64(f.attackers)}
	}
	if f.attackers == 1 {
		return Odds{AvgAttackers: 1, AvgDefenders: float64(f.defenders)}
	}
	if o, ok := c.memo[f]; ok {
		return o
	}

	o := Odds{AvgRounds: 1}
	for _, tr := range c.round(f) {
		next := c.solve(forces{f.attackers - tr.attackerLosses, f.defenders - tr.defenderLosses})
		o.AttackerWinRate += tr.probability * next.AttackerWinRate
		o.AvgAttackers += tr.probability * next.AvgAttackers
		o.AvgDefenders += tr.probability * next.AvgDefenders
		o.AvgRounds += tr.probability * next.AvgRounds
	}
	c.memo[f] = o
	return o
}

// round lists the loss outcomes of one round with their probabilities.
func (c *calculator) round(f forces) []transition {
	faces := c.rules.Faces()
	attackDice := min(c.rules.MaxAttackTroops(), f.attackers-1)
	limit := min(c.rules.MaxDefendTroops(), f.defenders)

	type losses struct{ attacker, defender int }
	outcomes := make(map[losses]float64)
	attackerWeight := 1 / float64(pow(faces, attackDice))

	eachRoll(attackDice, faces, func(attackerRolls []int) {
		utils.SortDescending(attackerRolls)
		defendDice := c.policy.DefenderDice(attackerRolls, f.attackers, f.defenders, limit)
		if defendDice < 1 || defendDice > limit {
			panic(fmt.Sprintf("%v: policy %s chose %d dice, allowed 1 to %d", game.ErrInconsistentState, c.policy.Name(), defendDice, limit))
		}
		weight := attackerWeight / float64(pow(faces, defendDice))

		eachRoll(defendDice, faces, func(defenderRolls []int) {
			utils.SortDescending(defenderRolls)
			a, d := c.rules.DetermineAttackOutcome(attackerRolls, defenderRolls)
			if a < 0 || d < 0 || a+d == 0 {
				panic(fmt.Sprintf("%v: round lost attackers=%d defenders=%d", game.ErrInconsistentState, a, d))
			}
			outcomes[losses{a, d}] += weight
		})
	})

	transitions := make([]transition, 0, len(outcomes))
	for l, p := range outcomes {
		transitions = append(transitions, transition{attackerLosses: l.attacker, defenderLosses: l.defender, probability: p})
	}
	return transitions
}

// eachRoll calls fn with every ordered roll of n dice. fn receives a fresh slice it may modify.
func eachRoll(n, faces int, fn func(rolls []int)) {
	current := make([]int, n)
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			rolls := make([]int, n)
			copy(rolls, current)
			fn(rolls)
			return
		}
		for face := 1; face <= faces; face++ {
			current[i] = face
			rec(i + 1)
		}
	}
	rec(0)
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
