package pooler

import (
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// ErrUnknownPattern is returned by Table for a pattern it was not given
var ErrUnknownPattern = errors.New("pooler: unknown pattern")

// Table answers from an explicit pattern to activation mapping. It models poolers
// that collapse distinct inputs onto the same code.
type Table struct {
	inputs, columns int
	entries         map[uint32][][2]sdr.Vector
	permanences     [][]float64
	connected       float64
}

// NewTable creates an empty table pooler
func NewTable(inputs, columns int) *Table {
	return &Table{
		inputs:    inputs,
		columns:   columns,
		entries:   make(map[uint32][][2]sdr.Vector),
		connected: 0.5,
	}
}

// Set maps pattern to activation, replacing an earlier mapping of the same pattern
func (t *Table) Set(pattern, activation sdr.Vector) error {
	if pattern.Len() != t.inputs {
		return errors.Wrapf(ErrInput, "pattern length %d, pooler takes %d", pattern.Len(), t.inputs)
	}
	if activation.Len() != t.columns {
		return errors.Wrapf(sdr.ErrLength, "activation length %d, pooler has %d columns", activation.Len(), t.columns)
	}
	fp := pattern.Fingerprint()
	for i, e := range t.entries[fp] {
		if e[0].Equal(pattern) {
			t.entries[fp][i][1] = activation
			return nil
		}
	}
	t.entries[fp] = append(t.entries[fp], [2]sdr.Vector{pattern, activation})
	return nil
}

// SetPermanences installs the synapse state reported by Permanence
func (t *Table) SetPermanences(connected float64, perms [][]float64) error {
	if len(perms) != t.columns {
		return errors.Wrapf(ErrColumn, "%d permanence rows for %d columns", len(perms), t.columns)
	}
	t.connected = connected
	t.permanences = perms
	return nil
}

func (t *Table) Compute(pattern sdr.Vector, learn bool) (sdr.Vector, error) {
	for _, e := range t.entries[pattern.Fingerprint()] {
		if e[0].Equal(pattern) {
			return e[1], nil
		}
	}
	return sdr.Vector{}, errors.Wrapf(ErrUnknownPattern, "%d active of %d", pattern.Count(), pattern.Len())
}

func (t *Table) Permanence(column int) ([]float64, error) {
	if column < 0 || column >= t.columns {
		return nil, errors.Wrapf(ErrColumn, "column %d of %d", column, t.columns)
	}
	if t.permanences == nil {
		return make([]float64, t.inputs), nil
	}
	return append([]float64(nil), t.permanences[column]...), nil
}

func (t *Table) SynPermConnected() float64 {
	return t.connected
}

func (t *Table) NumColumns() int {
	return t.columns
}

func (t *Table) NumInputs() int {
	return t.inputs
}
