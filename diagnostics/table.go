package diagnostics

import (
	"fmt"
	"io"
)

// StatsTable prints one row of permanence statistics per training cycle
type StatsTable struct {
	w      io.Writer
	header bool
}

// NewStatsTable writes rows to w
func NewStatsTable(w io.Writer) *StatsTable {
	return &StatsTable{w: w}
}

// Row prints the stats after cycle, with the header before the first row
func (t *StatsTable) Row(cycle int, s Stats, accuracy float64) {
	if !t.header {
		t.header = true
		fmt.Fprintf(t.w, "%5s %16s %19s %16s\n", "", "Connected", "Unconnected", "Recognition")
		fmt.Fprintf(t.w, "%5s %10s %8s %10s %8s %13s\n\n", "Cycle", "Percent", "Mean", "Percent", "Mean", "Accuracy")
	}
	fmt.Fprintf(t.w, "%5d %10.4f %8.3f %10.4f %8.3f %13.5f\n",
		cycle, s.PctConnected, s.ConnectedMean, s.PctUnconnected, s.UnconnectedMean, accuracy)
}
