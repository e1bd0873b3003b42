package experiments

import (
	"fmt"
	"time"

	"riskodds/experiments/metrics"
	"riskodds/game"
	"riskodds/meta"
	"riskodds/simulator"
	"riskodds/utils"

	"github.com/rs/zerolog/log"
)

// DefaultMatchups covers lopsided, even and large battles as (attackers, defenders).
var DefaultMatchups = [][2]int{
	{2, 1},
	{3, 2},
	{5, 5},
	{10, 5},
	{12, 12},
	{20, 10},
}

// Setup describes one experiment run.
type Setup struct {
	Matchups  [][2]int
	Trials    int // Per matchup
	Workers   int
	BatchSize int
	Seed      uint64
	OutputDir string // Records are not written when empty
}

// Result holds the records of an experiment and where they were stored.
type Result struct {
	Records []metrics.Record
	Dir     string
}

// RunPolicyComparison estimates every matchup under every defender policy.
func RunPolicyComparison(setup Setup) (Result, error) {
	policies := game.Policies()
	runs := make([]run, 0, len(policies))
	for _, policy := range policies {
		runs = append(runs, run{policy: policy, workers: setup.Workers})
	}
	return runExperiment("policies", setup, runs)
}

// RunThroughputExperiment estimates every matchup with the default policy at increasing
// worker counts, up to setup.Workers. The batch size shrinks when needed so every worker
// gets at least one batch.
func RunThroughputExperiment(setup Setup) (Result, error) {
	maxWorkers := max(1, setup.Workers)
	if setup.BatchSize < 1 {
		setup.BatchSize = meta.BATCH_SIZE
	}
	if perWorker := (setup.Trials + maxWorkers - 1) / maxWorkers; perWorker > 0 && perWorker < setup.BatchSize {
		log.Info().Msgf("reducing batch size from %d to %d to spread %d trials over %d workers", setup.BatchSize, perWorker, setup.Trials, maxWorkers)
		setup.BatchSize = perWorker
	}

	runs := []run{}
	for workers := 1; workers <= maxWorkers; workers *= 2 {
		runs = append(runs, run{policy: game.MaxDefense{}, workers: workers})
	}
	return runExperiment("throughput", setup, runs)
}

type run struct {
	policy  game.DefenderPolicy
	workers int
}

func runExperiment(name string, setup Setup, runs []run) (Result, error) {
	if len(setup.Matchups) == 0 {
		setup.Matchups = DefaultMatchups
	}
	if setup.Seed == 0 {
		seed, err := simulator.NewSeed()
		if err != nil {
			return Result{}, fmt.Errorf("failed to seed %s experiment: %w", name, err)
		}
		setup.Seed = seed
	}

	start := time.Now()
	records := []metrics.Record{}

	log.Info().Msgf("starting %s experiment...", name)

	for ri, r := range runs {
		s := simulator.NewSimulator(
			simulator.WithPolicy(r.policy),
			simulator.WithWorkers(r.workers),
			simulator.WithBatchSize(setup.BatchSize),
			simulator.WithSeed(setup.Seed),
			simulator.WithMetrics(),
		)
		log.Info().Msgf("starting run %d of %d with policy=%s workers=%d...", ri+1, len(runs), r.policy.Name(), r.workers)

		for _, matchup := range setup.Matchups {
			stats, err := s.Aggregate(matchup[0], matchup[1], setup.Trials)
			if err != nil {
				return Result{}, fmt.Errorf("failed to simulate %d vs %d: %w", matchup[0], matchup[1], err)
			}
			runMetric := s.LastRun()
			records = append(records, metrics.Record{
				Policy:          r.policy.Name(),
				Attackers:       matchup[0],
				Defenders:       matchup[1],
				Trials:          stats.Trials,
				AttackerWins:    stats.AttackerWins,
				AttackerWinRate: stats.AttackerWinRate,
				AvgAttackers:    stats.AvgAttackers,
				AvgDefenders:    stats.AvgDefenders,
				RunMetric:       runMetric,
			})
			log.Debug().Msgf("%d vs %d: win rate %.4f at %.0f trials/s", matchup[0], matchup[1], stats.AttackerWinRate, runMetric.TrialsPerSecond())
		}
		log.Info().Msgf("completed run %d of %d", ri+1, len(runs))
	}

	log.Info().Msgf("completed %s experiment", name)

	result := Result{Records: records}
	if setup.OutputDir == "" {
		return result, nil
	}

	// Store experiment metadata and results
	writer, err := metrics.NewWriter(setup.OutputDir, name)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create experiment writer: %w", err)
	}

	end := time.Now()
	policies := []string{}
	for _, r := range runs {
		if utils.FindIndex(policies, r.policy.Name()) < 0 {
			policies = append(policies, r.policy.Name())
		}
	}
	err = writer.WriteSetup(metrics.Setup{
		Name:      name,
		Policies:  policies,
		Matchups:  setup.Matchups,
		Trials:    setup.Trials,
		Workers:   setup.Workers,
		Seed:      setup.Seed,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to store setup: %w", err)
	}
	log.Info().Msg("stored setup")

	err = writer.WriteRecords(records)
	if err != nil {
		return Result{}, fmt.Errorf("failed to write records: %w", err)
	}
	log.Info().Msgf("stored %d records in %s", len(records), writer.Dir())

	result.Dir = writer.Dir()
	return result, nil
}
