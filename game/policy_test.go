package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefenderPolicies(t *testing.T) {
	tests := []struct {
		name          string
		policy        DefenderPolicy
		attackerRolls []int
		attackers     int
		defenders     int
		want          int
	}{
		{"max with a single defender", MaxDefense{}, []int{6, 6, 6}, 10, 1, 1},
		{"max with two defenders", MaxDefense{}, []int{6, 6, 6}, 10, 2, 2},
		{"max ignores attacker dice", MaxDefense{}, []int{1}, 2, 9, 2},

		{"cautious with a single defender", CautiousDefense{}, []int{1, 1}, 3, 1, 1},
		{"cautious holds back against a strong roll", CautiousDefense{}, []int{6, 2, 1}, 10, 5, 1},
		{"cautious holds back at exactly 8", CautiousDefense{}, []int{4, 4}, 3, 2, 1},
		{"cautious rolls both against a weak roll", CautiousDefense{}, []int{5, 2, 2}, 10, 5, 2},
		{"cautious counts a lone attacker die", CautiousDefense{}, []int{6}, 2, 5, 2},

		{"above-two with a single defender", CautiousAboveTwo{}, []int{6, 6}, 10, 1, 1},
		{"above-two never holds back with two defenders", CautiousAboveTwo{}, []int{6, 6, 6}, 10, 2, 2},
		{"above-two holds back with three defenders", CautiousAboveTwo{}, []int{6, 6, 6}, 10, 3, 1},

		{"mass rolls both against three attackers", CautiousAgainstMass{}, []int{6, 6}, 3, 5, 2},
		{"mass holds back against four attackers", CautiousAgainstMass{}, []int{6, 6, 6}, 4, 5, 1},
		{"mass never holds back with two defenders", CautiousAgainstMass{}, []int{6, 6, 6}, 10, 2, 2},
		{"mass rolls both against a weak roll", CautiousAgainstMass{}, []int{3, 3, 3}, 10, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := min(NewStandardRules().MaxDefendTroops(), tt.defenders)

			got := tt.policy.DefenderDice(tt.attackerRolls, tt.attackers, tt.defenders, limit)

			require.Equal(t, tt.want, got, "Policy %s chose the wrong number of dice", tt.policy.Name())
			require.GreaterOrEqual(t, got, 1)
			require.LessOrEqual(t, got, limit)
		})
	}
}

func TestPolicyByName(t *testing.T) {
	t.Run("resolving every listed policy", func(t *testing.T) {
		for _, name := range PolicyNames() {
			policy, err := PolicyByName(name)

			require.NoError(t, err)
			require.Equal(t, name, policy.Name())
		}
	})

	t.Run("listing the default policy first", func(t *testing.T) {
		require.Equal(t, MaxDefense{}, Policies()[0], "The maximum-dice policy should be the default")
		require.Len(t, PolicyNames(), 4)
	})

	t.Run("rejecting unknown names", func(t *testing.T) {
		_, err := PolicyByName("reckless")

		require.ErrorIs(t, err, ErrUnknownPolicy)
		require.Contains(t, err.Error(), "reckless")
	})
}
