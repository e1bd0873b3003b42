package game

type StandardRules struct {
	MaxAttackDice int
	MaxDefendDice int
	DieFaces      int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		MaxAttackDice: 3,
		MaxDefendDice: 2,
		DieFaces:      6,
	}
}

func (sr *StandardRules) MaxAttackTroops() int {
	return sr.MaxAttackDice
}

func (sr *StandardRules) MaxDefendTroops() int {
	return sr.MaxDefendDice
}

func (sr *StandardRules) Faces() int {
	return sr.DieFaces
}

// DetermineAttackOutcome pairs both descending pools die by die. Defender wins ties and
// unpaired dice are ignored.
func (sr *StandardRules) DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int) {
	battles := min(len(attackerRolls), len(defenderRolls))
	for i := 0; i < battles; i++ {
		if attackerRolls[i] > defenderRolls[i] {
			defenderLosses++
		} else {
			attackerLosses++
		}
	}
	return
}
