package simulator

import "riskodds/game"

// Tally holds partial sums over a set of trials. Tallies from disjoint sets of trials
// combine with Merge in any order.
type Tally struct {
	Trials       int
	AttackerWins int
	Attackers    int // Sum of remaining attackers
	Defenders    int // Sum of remaining defenders
	Rounds       int
}

func (t *Tally) Add(result game.BattleResult) {
	t.Trials++
	if result.Winner == game.Attacker {
		t.AttackerWins++
	}
	t.Attackers += result.Attackers
	t.Defenders += result.Defenders
	t.Rounds += result.Rounds
}

func (t Tally) Merge(other Tally) Tally {
	return Tally{
		Trials:       t.Trials + other.Trials,
		AttackerWins: t.AttackerWins + other.AttackerWins,
		Attackers:    t.Attackers + other.Attackers,
		Defenders:    t.Defenders + other.Defenders,
		Rounds:       t.Rounds + other.Rounds,
	}
}

// Stats averages the tally over all of its trials, whoever won them.
func (t Tally) Stats() Stats {
	if t.Trials == 0 {
		return Stats{}
	}
	n := float64(t.Trials)
	return Stats{
		Trials:          t.Trials,
		AttackerWins:    t.AttackerWins,
		AttackerWinRate: float64(t.AttackerWins) / n,
		AvgAttackers:    float64(t.Attackers) / n,
		AvgDefenders:    float64(t.Defenders) / n,
		AvgRounds:       float64(t.Rounds) / n,
	}
}

// Stats is the final estimate over a completed set of trials.
type Stats struct {
	Trials          int
	AttackerWins    int
	AttackerWinRate float64
	AvgAttackers    float64 // Includes the occupying unit
	AvgDefenders    float64
	AvgRounds       float64
}
