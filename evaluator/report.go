package evaluator

import (
	"fmt"
	"io"
)

// Mismatch is a sample the classifier did not recognize
type Mismatch struct {
	Index          int
	Label          string
	Expected       int
	Predicted      int    // classifier.NoMatch when nothing answered
	PredictedLabel string // "" when nothing answered
}

// Report is the outcome of one test pass
type Report struct {
	Accuracy   float64
	Mismatches []Mismatch
	IDs        []int
}

// Print writes the mismatch table followed by the accuracy
func (r *Report) Print(w io.Writer) error {
	if len(r.Mismatches) > 0 {
		if _, err := fmt.Fprintf(w, "%-16s %-16s\n", "Input", "Output"); err != nil {
			return err
		}
		for _, m := range r.Mismatches {
			out := m.PredictedLabel
			if m.Predicted < 0 {
				out = "-"
			}
			if _, err := fmt.Fprintf(w, "%-16s %-16s\n", m.Label, out); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Accuracy %.5f%%\n", r.Accuracy)
	return err
}
