// Package pooler declares the port through which the bench drives a pattern-encoding
// pooler, and a few deterministic reference poolers for drivers and tests.
//
// Learning inside a pooler is owned by the pooler. The reference poolers here never
// change their synapses, their learn flag is accepted and ignored.
package pooler

import (
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// ErrColumn is returned for a column index outside the pooler
var ErrColumn = errors.New("pooler: column out of range")

// ErrInput is returned when a pattern does not match the pooler's input size
var ErrInput = errors.New("pooler: input size mismatch")

// Pooler turns pattern vectors into sparse activations and exposes its synapse state
type Pooler interface {

	// Compute returns the activation for pattern, updating synapses when learn is set
	Compute(pattern sdr.Vector, learn bool) (sdr.Vector, error)

	// Permanence returns the permanence of every input synapse of column
	Permanence(column int) ([]float64, error)

	// SynPermConnected is the threshold at which a synapse counts as connected
	SynPermConnected() float64

	// NumColumns is the activation length
	NumColumns() int

	// NumInputs is the pattern length
	NumInputs() int
}
