package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"riskodds/config"
	"riskodds/experiments"
	"riskodds/game"
	"riskodds/logging"
	"riskodds/odds"
	"riskodds/simulator"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	attackers := flag.Int("attackers", 0, "Attacking units, including the one left behind")
	defenders := flag.Int("defenders", 0, "Defending units")
	trials := flag.Int("trials", 0, "Number of battles to simulate")
	workers := flag.Int("workers", 0, "Number of goroutines running trials")
	seed := flag.Uint64("seed", 0, "Random seed (0 for a random one)")
	policy := flag.String("policy", "", fmt.Sprintf("Defender dice policy, one of %v", game.PolicyNames()))
	exact := flag.Bool("exact", false, "Also compute exact odds")
	compare := flag.Bool("compare", false, "Compare all defender policies over a grid of matchups")
	throughput := flag.Bool("throughput", false, "Measure throughput at increasing worker counts")
	out := flag.String("out", "", "Directory for experiment records")
	flag.Parse()

	// Console logger until the configured one is set up
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Flags override file and environment only when given
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "attackers":
			cfg.Attackers = *attackers
		case "defenders":
			cfg.Defenders = *defenders
		case "trials":
			cfg.Trials = *trials
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "policy":
			cfg.Policy = *policy
		case "out":
			cfg.OutputDir = *out
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("failed to validate config")
	}

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	defer closer.Close()

	switch {
	case *compare:
		runExperiment(experiments.RunPolicyComparison, cfg)
	case *throughput:
		runExperiment(experiments.RunThroughputExperiment, cfg)
	default:
		runEstimate(cfg, *exact)
	}
}

func runEstimate(cfg *config.Config, exact bool) {
	policy, err := game.PolicyByName(cfg.Policy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to select policy")
	}

	s := simulator.NewSimulator(
		simulator.WithWorkers(cfg.Workers),
		simulator.WithBatchSize(cfg.BatchSize),
		simulator.WithSeed(cfg.Seed),
		simulator.WithPolicy(policy),
		simulator.WithMetrics(),
	)
	log.Info().Msgf("simulating %d vs %d with policy=%s seed=%d", cfg.Attackers, cfg.Defenders, policy.Name(), s.Seed())

	stats, err := s.Aggregate(cfg.Attackers, cfg.Defenders, cfg.Trials)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to simulate")
	}
	run := s.LastRun()
	log.Info().Msgf("simulated in %s (%.0f trials/s)", run.Duration, run.TrialsPerSecond())

	if err := simulator.WriteReport(os.Stdout, cfg.Attackers, cfg.Defenders, stats); err != nil {
		log.Fatal().Err(err).Msg("failed to write report")
	}

	if exact {
		o, err := odds.Exact(cfg.Attackers, cfg.Defenders, game.NewStandardRules(), policy)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to compute exact odds")
		}
		fmt.Printf("exact: attacker wins %.4f%%, avg attackers left %.4f, avg defenders left %.4f\n",
			o.AttackerWinRate*100, o.AvgAttackers, o.AvgDefenders)
	}
}

func runExperiment(experiment func(experiments.Setup) (experiments.Result, error), cfg *config.Config) {
	result, err := experiment(experiments.Setup{
		Trials:    cfg.Trials,
		Workers:   cfg.Workers,
		BatchSize: cfg.BatchSize,
		Seed:      cfg.Seed,
		OutputDir: cfg.OutputDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}

	for _, record := range result.Records {
		fmt.Printf("%-20s %3d vs %-3d  attacker wins %7.3f%%  workers %2d  %.0f trials/s\n",
			record.Policy, record.Attackers, record.Defenders, record.AttackerWinRate*100,
			record.Workers, record.TrialsPerSecond())
	}
}
