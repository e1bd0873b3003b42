package metrics

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Record is one aggregated estimate for a policy and matchup.
type Record struct {
	Policy          string
	Attackers       int
	Defenders       int
	Trials          int
	AttackerWins    int
	AttackerWinRate float64
	AvgAttackers    float64
	AvgDefenders    float64
	RunMetric
}

type Setup struct {
	Name      string        `json:"name"`
	Policies  []string      `json:"policies"`
	Matchups  [][2]int      `json:"matchups"` // attackers, defenders
	Trials    int           `json:"trials"`   // per matchup
	Workers   int           `json:"workers"`
	Seed      uint64        `json:"seed"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
}

type Writer struct {
	baseDir string
}

// Fixed width so run directories sort by start time
const dirTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func NewWriter(root, name string) (*Writer, error) {
	parent := filepath.Join(root, name)
	err := os.MkdirAll(parent, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Create a subfolder named by current timestamp, suffixed if a run already claimed it
	timestamp := time.Now().UTC().Format(dirTimeFormat)
	baseDir := filepath.Join(parent, timestamp)
	for i := 1; ; i++ {
		err = os.Mkdir(baseDir, 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		baseDir = filepath.Join(parent, fmt.Sprintf("%s-%d", timestamp, i))
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	path := filepath.Join(w.baseDir, "setup.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create setup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(setup); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}

	return nil
}

func (w *Writer) WriteRecords(records []Record) error {
	// Create a file
	path := filepath.Join(w.baseDir, "records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{
		"policy", "attackers", "defenders", "trials", "attacker_wins", "attacker_win_rate",
		"avg_attackers", "avg_defenders", "rounds", "workers", "duration",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			record.Policy,
			strconv.Itoa(record.Attackers),
			strconv.Itoa(record.Defenders),
			strconv.Itoa(record.Trials),
			strconv.Itoa(record.AttackerWins),
			strconv.FormatFloat(record.AttackerWinRate, 'f', 6, 64),
			strconv.FormatFloat(record.AvgAttackers, 'f', 6, 64),
			strconv.FormatFloat(record.AvgDefenders, 'f', 6, 64),
			strconv.Itoa(record.Rounds),
			strconv.Itoa(record.Workers),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write record row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}
