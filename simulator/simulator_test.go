package simulator

import (
	"bytes"
	"testing"

	"riskodds/game"

	"github.com/stretchr/testify/require"
)

func TestAggregateValidation(t *testing.T) {
	s := NewSimulator(WithSeed(1))

	_, err := s.Aggregate(0, 5, 10)
	require.ErrorIs(t, err, game.ErrInvalidForces, "Zero attackers should be rejected")

	_, err = s.Aggregate(3, -2, 10)
	require.ErrorIs(t, err, game.ErrInvalidForces, "Negative defenders should be rejected")

	_, err = s.Aggregate(3, 2, 0)
	require.ErrorIs(t, err, ErrInvalidTrials, "Zero trials should be rejected")

	noAttackDice := NewSimulator(WithSeed(1), WithRules(&game.StandardRules{MaxAttackDice: 0, MaxDefendDice: 2, DieFaces: 6}))
	_, err = noAttackDice.Aggregate(5, 3, 10)
	require.ErrorIs(t, err, game.ErrInvalidRules, "Rules without attack dice should be rejected before simulating")
}

func TestAggregateDegenerate(t *testing.T) {
	s := NewSimulator(WithSeed(1))

	t.Run("defenders already eliminated", func(t *testing.T) {
		got, err := s.Aggregate(7, 0, 50)

		require.NoError(t, err)
		require.Equal(t, Stats{Trials: 50, AttackerWins: 50, AttackerWinRate: 1, AvgAttackers: 7}, got)
	})

	t.Run("attacker with only the occupying unit", func(t *testing.T) {
		got, err := s.Aggregate(1, 4, 50)

		require.NoError(t, err)
		require.Equal(t, Stats{Trials: 50, AvgAttackers: 1, AvgDefenders: 4}, got)
	})
}

func TestAggregateRanges(t *testing.T) {
	for _, policy := range game.Policies() {
		t.Run("estimates stay in range with "+policy.Name()+" policy", func(t *testing.T) {
			s := NewSimulator(WithSeed(11), WithWorkers(4), WithBatchSize(250), WithPolicy(policy))

			for _, forces := range [][2]int{{2, 1}, {3, 2}, {5, 5}, {12, 12}, {20, 3}} {
				got, err := s.Aggregate(forces[0], forces[1], 2000)
				require.NoError(t, err)

				require.Equal(t, 2000, got.Trials, "Should run exactly the requested trials")
				require.GreaterOrEqual(t, got.AttackerWinRate, 0.0)
				require.LessOrEqual(t, got.AttackerWinRate, 1.0)
				require.GreaterOrEqual(t, got.AvgAttackers, 1.0, "The occupying unit always remains")
				require.LessOrEqual(t, got.AvgAttackers, float64(forces[0]))
				require.GreaterOrEqual(t, got.AvgDefenders, 0.0)
				require.LessOrEqual(t, got.AvgDefenders, float64(forces[1]))
				require.Greater(t, got.AvgRounds, 0.0)
			}
		})
	}
}

func TestAggregateReproducible(t *testing.T) {
	t.Run("same seed gives the same estimate whatever the worker count", func(t *testing.T) {
		sequential := NewSimulator(WithSeed(2024), WithBatchSize(100))
		parallel := NewSimulator(WithSeed(2024), WithBatchSize(100), WithWorkers(8))

		want, err := sequential.Aggregate(12, 12, 5000)
		require.NoError(t, err)
		got, err := parallel.Aggregate(12, 12, 5000)
		require.NoError(t, err)

		require.Equal(t, want, got, "Batches own their random streams, so scheduling should not matter")
	})

	t.Run("different seeds give different estimates", func(t *testing.T) {
		a, err := NewSimulator(WithSeed(1)).Aggregate(12, 12, 5000)
		require.NoError(t, err)
		b, err := NewSimulator(WithSeed(2)).Aggregate(12, 12, 5000)
		require.NoError(t, err)

		require.NotEqual(t, a, b)
	})
}

func TestAggregateMonotonic(t *testing.T) {
	s := NewSimulator(WithSeed(77), WithWorkers(4))
	const tolerance = 0.02

	previous := -1.0
	for attackers := 2; attackers <= 16; attackers += 2 {
		got, err := s.Aggregate(attackers, 6, 20000)
		require.NoError(t, err)

		require.GreaterOrEqual(t, got.AttackerWinRate, previous-tolerance,
			"Adding attackers should not lower the win rate (attackers=%d)", attackers)
		previous = got.AttackerWinRate
	}
	require.Greater(t, previous, 0.8, "16 attackers should usually beat 6 defenders")
}

func TestAggregateMetrics(t *testing.T) {
	s := NewSimulator(WithSeed(5), WithWorkers(3), WithBatchSize(100), WithMetrics())

	got, err := s.Aggregate(6, 4, 1050)
	require.NoError(t, err)

	run := s.LastRun()
	require.Equal(t, 1050, run.Trials, "Metrics should count every trial")
	require.Equal(t, got.AttackerWins, run.AttackerWins)
	require.InDelta(t, got.AvgRounds*1050, float64(run.Rounds), 1e-6)
	require.Equal(t, 3, run.Workers)
}

func TestTallyMerge(t *testing.T) {
	var a, b Tally
	a.Add(game.BattleResult{Winner: game.Attacker, Attackers: 4, Defenders: 0, Rounds: 3})
	a.Add(game.BattleResult{Winner: game.Defender, Attackers: 1, Defenders: 2, Rounds: 5})
	b.Add(game.BattleResult{Winner: game.Attacker, Attackers: 2, Defenders: 0, Rounds: 4})

	require.Equal(t, a.Merge(b), b.Merge(a), "Merge should be commutative")
	require.Equal(t, Tally{}.Merge(a), a, "The empty tally is the identity")

	stats := a.Merge(b).Stats()
	require.Equal(t, 3, stats.Trials)
	require.Equal(t, 2, stats.AttackerWins)
	require.InDelta(t, 2.0/3, stats.AttackerWinRate, 1e-9)
	require.InDelta(t, 7.0/3, stats.AvgAttackers, 1e-9, "Averages cover every trial, not just wins")
	require.InDelta(t, 2.0/3, stats.AvgDefenders, 1e-9)
	require.InDelta(t, 4.0, stats.AvgRounds, 1e-9)
}

func TestNewSeed(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	require.NotZero(t, seed)

	require.NotZero(t, NewSimulator().Seed(), "A simulator without a seed should pick one")
	require.Equal(t, uint64(3), NewSimulator(WithSeed(3)).Seed())
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	stats := Stats{Trials: 10_000_000, AttackerWinRate: 0.62345, AvgAttackers: 5.5, AvgDefenders: 1.25, AvgRounds: 6}

	require.NoError(t, WriteReport(&buf, 12, 12, stats))

	out := buf.String()
	require.Contains(t, out, "12 attackers vs 12 defenders over 10,000,000 trials")
	require.Contains(t, out, "62.345%")
	require.Contains(t, out, "5.5000")
	require.Contains(t, out, "1.2500")
}
