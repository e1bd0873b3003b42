package simulator

import (
	"errors"
	"fmt"
	"sync"

	"riskodds/experiments/metrics"
	"riskodds/game"
	"riskodds/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrInvalidTrials = errors.New("invalid trial count")

// Weyl sequence step between batch seeds
const seedStride = 0x9e3779b97f4a7c15

type Option func(s *Simulator)

// Simulator estimates battle outcomes by running independent trials. A Simulator may be
// reused but must not run Aggregate concurrently with itself.
type Simulator struct {
	workers   int
	batchSize int
	seed      uint64
	rules     game.Rules
	policy    game.DefenderPolicy
	metrics   metrics.Collector
	last      metrics.RunMetric
}

func WithWorkers(workers int) Option {
	return func(s *Simulator) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

func WithBatchSize(size int) Option {
	return func(s *Simulator) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithSeed fixes the random seed. Zero keeps a random seed.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		if seed != 0 {
			s.seed = seed
		}
	}
}

func WithRules(rules game.Rules) Option {
	return func(s *Simulator) {
		if rules != nil {
			s.rules = rules
		}
	}
}

func WithPolicy(policy game.DefenderPolicy) Option {
	return func(s *Simulator) {
		if policy != nil {
			s.policy = policy
		}
	}
}

func WithMetrics() Option {
	return func(s *Simulator) {
		s.metrics = metrics.NewCollector()
	}
}

func NewSimulator(options ...Option) *Simulator {
	s := &Simulator{ // Default values
		workers:   meta.WORKERS,
		batchSize: meta.BATCH_SIZE,
		rules:     game.NewStandardRules(),
		policy:    game.MaxDefense{},
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.seed == 0 {
		seed, err := NewSeed()
		if err != nil {
			panic(fmt.Sprintf("failed to seed simulator: %v", err))
		}
		s.seed = seed
	}
	return s
}

func (s *Simulator) Seed() uint64 {
	return s.seed
}

func (s *Simulator) Policy() game.DefenderPolicy {
	return s.policy
}

// LastRun returns the metrics of the latest Aggregate call, empty unless WithMetrics is set.
func (s *Simulator) LastRun() metrics.RunMetric {
	return s.last
}

type batch struct {
	index  int
	trials int
}

// Aggregate resolves trials battles between the same initial forces and returns the
// averaged outcome once every trial has completed.
func (s *Simulator) Aggregate(attackers, defenders, trials int) (Stats, error) {
	if attackers < 1 || defenders < 0 {
		return Stats{}, fmt.Errorf("%w: attackers=%d defenders=%d", game.ErrInvalidForces, attackers, defenders)
	}
	if trials < 1 {
		return Stats{}, fmt.Errorf("%w: %d", ErrInvalidTrials, trials)
	}
	if err := game.ValidateRules(s.rules); err != nil {
		return Stats{}, err
	}

	numBatches := (trials + s.batchSize - 1) / s.batchSize
	workers := min(s.workers, numBatches)
	if workers < s.workers {
		log.Warn().Msgf("only %d batches of %d trials, running %d of %d workers", numBatches, s.batchSize, workers, s.workers)
	}
	log.Debug().Msgf("simulating %d trials of %d attackers vs %d defenders in %d batches on %d workers (policy=%s seed=%d)",
		trials, attackers, defenders, numBatches, workers, s.policy.Name(), s.seed)

	task := make(chan batch, numBatches)
	for i := 0; i < numBatches; i++ {
		size := min(s.batchSize, trials-i*s.batchSize)
		task <- batch{index: i, trials: size}
	}
	close(task)

	s.metrics.Start(workers)
	partials := make([]Tally, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			for b := range task {
				t := s.runBatch(b, attackers, defenders)
				partials[w] = partials[w].Merge(t)
				s.metrics.AddTrials(t.Trials)
				s.metrics.AddRounds(t.Rounds)
				s.metrics.AddAttackerWins(t.AttackerWins)
			}
		}(w)
	}
	wg.Wait()
	s.last = s.metrics.Complete()

	var total Tally
	for _, partial := range partials {
		total = total.Merge(partial)
	}
	if total.Trials != trials {
		panic(fmt.Sprintf("ran %d trials, expected %d", total.Trials, trials))
	}

	stats := total.Stats()
	log.Debug().Msgf("completed %d trials: attacker win rate %.4f", trials, stats.AttackerWinRate)
	return stats, nil
}

// runBatch resolves one batch on its own random stream, so results depend only on the seed
// and the batch layout.
func (s *Simulator) runBatch(b batch, attackers, defenders int) Tally {
	source := rand.New(rand.NewSource(s.seed + uint64(b.index)*seedStride))
	resolver := game.NewResolver(source, game.WithRules(s.rules), game.WithPolicy(s.policy))

	var t Tally
	for i := 0; i < b.trials; i++ {
		result, err := resolver.Resolve(attackers, defenders)
		if err != nil {
			panic(err) // Forces were validated by Aggregate
		}
		t.Add(result)
	}
	return t
}
