package metrics

import (
	"sync/atomic"
	"time"
)

type RunMetric struct {
	Workers      int
	Duration     time.Duration
	Trials       int
	Rounds       int
	AttackerWins int
}

// TrialsPerSecond is the simulation throughput of the run.
func (m RunMetric) TrialsPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Trials) / m.Duration.Seconds()
}

// Collector gathers run statistics. Workers report per batch, so implementations must be
// safe for concurrent use.
type Collector interface {
	Start(workers int)
	AddTrials(n int)
	AddRounds(n int)
	AddAttackerWins(n int)
	Complete() RunMetric
}

type collector struct {
	workers      int
	startTime    time.Time
	trials       atomic.Int64
	rounds       atomic.Int64
	attackerWins atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(workers int) {
	m.startTime = time.Now()
	m.workers = workers
	m.trials.Store(0)
	m.rounds.Store(0)
	m.attackerWins.Store(0)
}

func (m *collector) AddTrials(n int) {
	m.trials.Add(int64(n))
}

func (m *collector) AddRounds(n int) {
	m.rounds.Add(int64(n))
}

func (m *collector) AddAttackerWins(n int) {
	m.attackerWins.Add(int64(n))
}

func (m *collector) Complete() RunMetric {
	return RunMetric{
		Workers:      m.workers,
		Duration:     time.Since(m.startTime),
		Trials:       int(m.trials.Load()),
		Rounds:       int(m.rounds.Load()),
		AttackerWins: int(m.attackerWins.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(workers int)     {}
func (m *dummyCollector) AddTrials(n int)       {}
func (m *dummyCollector) AddRounds(n int)       {}
func (m *dummyCollector) AddAttackerWins(n int) {}
func (m *dummyCollector) Complete() RunMetric   { return RunMetric{} }
