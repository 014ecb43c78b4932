// Package diagnostics reports on a pooler's synapse state. It only reads from the
// pooler and is meant as a progress signal while training, not a correctness gate.
package diagnostics

import (
	"github.com/neurlang/poolbench/pooler"
	"github.com/pkg/errors"
)

// Stats summarises connected and unconnected permanences
type Stats struct {
	PctConnected    float64
	ConnectedMean   float64
	PctUnconnected  float64
	UnconnectedMean float64
}

// PermanenceStats partitions every column's permanences at threshold (connected when
// >= threshold) and averages the per-column percentages and means across columns.
// Each column weighs 1/numColumns whatever its synapse count. A column without
// connected (or unconnected) synapses adds 0 to that mean.
func PermanenceStats(p pooler.Pooler, threshold float64) (s Stats, err error) {
	numCols := p.NumColumns()
	if numCols <= 0 {
		return s, nil
	}
	share := 1.0 / float64(numCols)
	for c := 0; c < numCols; c++ {
		perms, err := p.Permanence(c)
		if err != nil {
			return Stats{}, errors.Wrapf(err, "column %d", c)
		}
		if len(perms) == 0 {
			continue
		}
		var numConnected, numUnconnected int
		var sumConnected, sumUnconnected float64
		for _, v := range perms {
			if v >= threshold {
				numConnected++
				sumConnected += v
			} else {
				numUnconnected++
				sumUnconnected += v
			}
		}
		numPerms := float64(len(perms))
		s.PctConnected += 100.0 * share * float64(numConnected) / numPerms
		s.PctUnconnected += 100.0 * share * float64(numUnconnected) / numPerms
		if numConnected > 0 {
			s.ConnectedMean += sumConnected / float64(numConnected) * share
		}
		if numUnconnected > 0 {
			s.UnconnectedMean += sumUnconnected / float64(numUnconnected) * share
		}
	}
	return s, nil
}

// Report is PermanenceStats at the pooler's own connected threshold
func Report(p pooler.Pooler) (Stats, error) {
	return PermanenceStats(p, p.SynPermConnected())
}
