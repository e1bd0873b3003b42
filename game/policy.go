package game

import (
	"errors"
	"fmt"

	"riskodds/utils"
)

var ErrUnknownPolicy = errors.New("unknown defender policy")

// cautiousThreshold is the sum of the attacker's two best dice from which a cautious
// defender holds back to a single die.
const cautiousThreshold = 8

// DefenderPolicy decides how many dice the defender rolls in a round. attackerRolls is the
// attacker's pool sorted highest first and limit is the most dice the defender may roll,
// min(max defend dice, defenders). Implementations must return a value in [1, limit].
type DefenderPolicy interface {
	Name() string
	DefenderDice(attackerRolls []int, attackers, defenders, limit int) int
}

// MaxDefense always rolls as many dice as allowed. It is the default policy.
type MaxDefense struct{}

func (MaxDefense) Name() string { return "max" }

func (MaxDefense) DefenderDice(attackerRolls []int, attackers, defenders, limit int) int {
	return limit
}

// CautiousDefense rolls a single die when the attacker's two best dice sum to 8 or more.
type CautiousDefense struct{}

func (CautiousDefense) Name() string { return "cautious" }

func (CautiousDefense) DefenderDice(attackerRolls []int, attackers, defenders, limit int) int {
	if limit == 1 {
		return 1
	}
	return holdBack(attackerRolls, limit)
}

// CautiousAboveTwo behaves like CautiousDefense but never holds back with two defenders or fewer.
type CautiousAboveTwo struct{}

func (CautiousAboveTwo) Name() string { return "cautious-above-two" }

func (CautiousAboveTwo) DefenderDice(attackerRolls []int, attackers, defenders, limit int) int {
	if limit == 1 || defenders <= 2 {
		return limit
	}
	return holdBack(attackerRolls, limit)
}

// CautiousAgainstMass additionally rolls every die while the attacker has three units or fewer.
type CautiousAgainstMass struct{}

func (CautiousAgainstMass) Name() string { return "cautious-mass" }

func (CautiousAgainstMass) DefenderDice(attackerRolls []int, attackers, defenders, limit int) int {
	if limit == 1 || defenders <= 2 || attackers <= 3 {
		return limit
	}
	return holdBack(attackerRolls, limit)
}

func holdBack(attackerRolls []int, limit int) int {
	if utils.SumHighest(attackerRolls, 2) >= cautiousThreshold {
		return 1
	}
	return limit
}

// Policies returns every available policy, the default first.
func Policies() []DefenderPolicy {
	return []DefenderPolicy{
		MaxDefense{},
		CautiousDefense{},
		CautiousAboveTwo{},
		CautiousAgainstMass{},
	}
}

// PolicyNames lists the names accepted by PolicyByName.
func PolicyNames() []string {
	policies := Policies()
	names := make([]string, len(policies))
	for i, p := range policies {
		names[i] = p.Name()
	}
	return names
}

func PolicyByName(name string) (DefenderPolicy, error) {
	i := utils.FindIndex(PolicyNames(), name)
	if i < 0 {
		return nil, fmt.Errorf("%w %q, expected one of %v", ErrUnknownPolicy, name, PolicyNames())
	}
	return Policies()[i], nil
}
