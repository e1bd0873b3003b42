package game

import (
	"errors"
	"fmt"
)

var ErrInvalidRules = errors.New("invalid rules")

// Rules holds the dice limits and the comparison used to resolve one round of an attack.
type Rules interface {
	MaxAttackTroops() int
	MaxDefendTroops() int
	Faces() int
	DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int)
}

// ValidateRules rejects rules under which a round cannot remove any unit.
func ValidateRules(rules Rules) error {
	if rules == nil {
		return fmt.Errorf("%w: rules cannot be nil", ErrInvalidRules)
	}
	if rules.MaxAttackTroops() < 1 || rules.MaxDefendTroops() < 1 || rules.Faces() < 1 {
		return fmt.Errorf("%w: attack dice=%d defend dice=%d faces=%d, each must be at least 1",
			ErrInvalidRules, rules.MaxAttackTroops(), rules.MaxDefendTroops(), rules.Faces())
	}
	return nil
}
