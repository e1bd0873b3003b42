package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidForces = errors.New("invalid force counts")
	// ErrInconsistentState is raised via panic when the round loop breaks its own invariants.
	ErrInconsistentState = errors.New("inconsistent battle state")
)

type Side int

const (
	Attacker Side = iota
	Defender
)

func (s Side) String() string {
	switch s {
	case Attacker:
		return "Attacker"
	case Defender:
		return "Defender"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// BattleResult is the terminal state of one battle.
type BattleResult struct {
	Winner    Side
	Attackers int // Remaining attackers, including the occupying unit
	Defenders int // Remaining defenders
	Rounds    int
}

// Remaining returns the units left on the winner's side.
func (br BattleResult) Remaining() int {
	if br.Winner == Attacker {
		return br.Attackers
	}
	return br.Defenders
}

func (br BattleResult) String() string {
	return fmt.Sprintf("%s wins with %d unit(s) remaining", br.Winner, br.Remaining())
}

type ResolverOption func(r *Resolver)

// Resolver plays battles to completion. It keeps no state between battles, but its Source
// is not safe for concurrent use, so each goroutine needs its own Resolver.
type Resolver struct {
	source Source
	rules  Rules
	policy DefenderPolicy
}

func WithRules(rules Rules) ResolverOption {
	return func(r *Resolver) {
		if rules != nil {
			r.rules = rules
		}
	}
}

func WithPolicy(policy DefenderPolicy) ResolverOption {
	return func(r *Resolver) {
		if policy != nil {
			r.policy = policy
		}
	}
}

func NewResolver(source Source, options ...ResolverOption) *Resolver {
	if source == nil {
		panic("source cannot be nil")
	}
	r := &Resolver{ // Default values
		source: source,
		rules:  NewStandardRules(),
		policy: MaxDefense{},
	}
	for _, option := range options {
		option(r)
	}
	if err := ValidateRules(r.rules); err != nil {
		panic(err)
	}
	return r
}

// Resolve simulates one battle until the attacker is down to its occupying unit or the
// defenders are eliminated.
func (r *Resolver) Resolve(attackers, defenders int) (BattleResult, error) {
	if attackers < 1 || defenders < 0 {
		return BattleResult{}, fmt.Errorf("%w: attackers=%d defenders=%d", ErrInvalidForces, attackers, defenders)
	}

	rounds := 0
	for attackers > 1 && defenders > 0 {
		attackerRolls := rollDice(r.source, min(r.rules.MaxAttackTroops(), attackers-1), r.rules.Faces())

		limit := min(r.rules.MaxDefendTroops(), defenders)
		defenderDice := r.policy.DefenderDice(attackerRolls, attackers, defenders, limit)
		if defenderDice < 1 || defenderDice > limit {
			panic(fmt.Sprintf("%v: policy %s chose %d dice, allowed 1 to %d", ErrInconsistentState, r.policy.Name(), defenderDice, limit))
		}
		defenderRolls := rollDice(r.source, defenderDice, r.rules.Faces())

		attackerLosses, defenderLosses := r.rules.DetermineAttackOutcome(attackerRolls, defenderRolls)
		if attackerLosses < 0 || defenderLosses < 0 || attackerLosses+defenderLosses == 0 {
			panic(fmt.Sprintf("%v: round %d lost attackers=%d defenders=%d", ErrInconsistentState, rounds+1, attackerLosses, defenderLosses))
		}
		attackers -= attackerLosses
		defenders -= defenderLosses
		rounds++
	}

	switch {
	case attackers == 1 && defenders > 0:
		return BattleResult{Winner: Defender, Attackers: attackers, Defenders: defenders, Rounds: rounds}, nil
	case defenders == 0 && attackers > 1:
		return BattleResult{Winner: Attacker, Attackers: attackers, Defenders: defenders, Rounds: rounds}, nil
	case attackers == 1 && defenders == 0 && rounds == 0:
		// Nothing to occupy and nothing left to defend
		return BattleResult{Winner: Attacker, Attackers: attackers, Defenders: defenders}, nil
	default:
		panic(fmt.Sprintf("%v: attackers=%d defenders=%d after %d rounds", ErrInconsistentState, attackers, defenders, rounds))
	}
}
