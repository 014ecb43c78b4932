package pooler

import (
	"slices"

	"github.com/neurlang/poolbench/hash"
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// permScale is the resolution of generated permanences
const permScale = 1 << 16

// Projection is a fixed random projection with k winners take all. Permanences are
// derived from the seed with hash.Salted, so equal settings give equal poolers on
// every platform.
type Projection struct {
	inputs, columns, active int
	connected               float64
	threshold               int
	seed                    uint32
	masks                   []sdr.Vector
}

// ProjectionConfig sizes a Projection pooler
type ProjectionConfig struct {
	Inputs    int     // pattern length
	Columns   int     // activation length
	Active    int     // winners per activation
	Connected float64 // connected permanence threshold
	Threshold int     // minimum overlap for a column to win, at least one
	Seed      uint32
}

// NewProjection builds the pooler's synapses from cfg
func NewProjection(cfg ProjectionConfig) (*Projection, error) {
	if cfg.Inputs <= 0 || cfg.Columns <= 0 {
		return nil, errors.Errorf("pooler: %d inputs, %d columns", cfg.Inputs, cfg.Columns)
	}
	if cfg.Active <= 0 || cfg.Active > cfg.Columns {
		return nil, errors.Errorf("pooler: %d active of %d columns", cfg.Active, cfg.Columns)
	}
	if cfg.Connected <= 0 || cfg.Connected >= 1 {
		return nil, errors.Errorf("pooler: connected threshold %v outside (0, 1)", cfg.Connected)
	}
	p := &Projection{
		inputs:    cfg.Inputs,
		columns:   cfg.Columns,
		active:    cfg.Active,
		connected: cfg.Connected,
		threshold: cfg.Threshold,
		seed:      cfg.Seed,
		masks:     make([]sdr.Vector, cfg.Columns),
	}
	for c := range p.masks {
		perms := p.row(c)
		bits := make([]bool, p.inputs)
		for i, v := range perms {
			bits[i] = v >= p.connected
		}
		p.masks[c] = sdr.FromBools(bits)
	}
	return p, nil
}

func (p *Projection) row(column int) []float64 {
	perms := make([]float64, p.inputs)
	base := uint32(column) * uint32(p.inputs)
	for i := range perms {
		perms[i] = float64(hash.Salted(p.seed, base+uint32(i), permScale)) / permScale
	}
	return perms
}

// Compute activates the columns with the largest overlap between pattern and their
// connected synapses. Equal overlaps prefer the lower column.
func (p *Projection) Compute(pattern sdr.Vector, learn bool) (sdr.Vector, error) {
	if pattern.Len() != p.inputs {
		return sdr.Vector{}, errors.Wrapf(ErrInput, "pattern length %d, pooler takes %d", pattern.Len(), p.inputs)
	}
	type candidate struct {
		column, overlap int
	}
	var candidates = make([]candidate, 0, p.columns)
	for c, mask := range p.masks {
		o, err := sdr.Overlap(pattern, mask)
		if err != nil {
			return sdr.Vector{}, err
		}
		if o > 0 && o >= p.threshold {
			candidates = append(candidates, candidate{column: c, overlap: o})
		}
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return b.overlap - a.overlap
	})
	if len(candidates) > p.active {
		candidates = candidates[:p.active]
	}
	winners := make([]int, len(candidates))
	for i, c := range candidates {
		winners[i] = c.column
	}
	return sdr.FromIndices(p.columns, winners...)
}

func (p *Projection) Permanence(column int) ([]float64, error) {
	if column < 0 || column >= p.columns {
		return nil, errors.Wrapf(ErrColumn, "column %d of %d", column, p.columns)
	}
	return p.row(column), nil
}

func (p *Projection) SynPermConnected() float64 {
	return p.connected
}

func (p *Projection) NumColumns() int {
	return p.columns
}

func (p *Projection) NumInputs() int {
	return p.inputs
}
