package pooler

import (
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// Identity passes each pattern through as its own activation. It has one column per
// input and no synapses worth reporting, every permanence reads as zero.
type Identity struct {
	Inputs int
}

func (p Identity) Compute(pattern sdr.Vector, learn bool) (sdr.Vector, error) {
	if pattern.Len() != p.Inputs {
		return sdr.Vector{}, errors.Wrapf(ErrInput, "pattern length %d, pooler takes %d", pattern.Len(), p.Inputs)
	}
	return pattern, nil
}

func (p Identity) Permanence(column int) ([]float64, error) {
	if column < 0 || column >= p.Inputs {
		return nil, errors.Wrapf(ErrColumn, "column %d of %d", column, p.Inputs)
	}
	return make([]float64, p.Inputs), nil
}

func (p Identity) SynPermConnected() float64 {
	return 0.5
}

func (p Identity) NumColumns() int {
	return p.Inputs
}

func (p Identity) NumInputs() int {
	return p.Inputs
}
