package simulator

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// WriteReport renders the estimate for a matchup in a human readable form.
func WriteReport(w io.Writer, attackers, defenders int, stats Stats) error {
	_, err := fmt.Fprintf(w,
		"%d attackers vs %d defenders over %s trials\n"+
			"  attacker wins:          %s%%\n"+
			"  avg attackers left:     %.4f\n"+
			"  avg defenders left:     %.4f\n"+
			"  avg rounds per battle:  %.4f\n",
		attackers, defenders, humanize.Comma(int64(stats.Trials)),
		humanize.FtoaWithDigits(stats.AttackerWinRate*100, 4),
		stats.AvgAttackers,
		stats.AvgDefenders,
		stats.AvgRounds,
	)
	return err
}
