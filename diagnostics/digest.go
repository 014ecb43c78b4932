package diagnostics

import (
	"math"

	"github.com/neurlang/poolbench/parallel"
	"github.com/neurlang/poolbench/pooler"
	"github.com/pkg/errors"
)

// Digests fingerprints the connected synapse masks and the permanences quantized to
// 16 bits. Digests that stop changing between cycles mean learning has settled.
func Digests(p pooler.Pooler) (connected, permanence [32]byte, err error) {
	numCols, numInputs := p.NumColumns(), p.NumInputs()
	threshold := p.SynPermConnected()
	conns := parallel.NewUint16Hasher(numCols * numInputs)
	perms := parallel.NewUint16Hasher(numCols * numInputs)
	for c := 0; c < numCols; c++ {
		row, err := p.Permanence(c)
		if err != nil {
			return connected, permanence, errors.Wrapf(err, "column %d", c)
		}
		if len(row) != numInputs {
			return connected, permanence, errors.Errorf("diagnostics: column %d has %d permanences, pooler has %d inputs", c, len(row), numInputs)
		}
		for i, v := range row {
			n := c*numInputs + i
			if v >= threshold {
				conns.MustPutUint16(n, 1)
			} else {
				conns.MustPutUint16(n, 0)
			}
			perms.MustPutUint16(n, quantize(v))
		}
	}
	return conns.Sum(), perms.Sum(), nil
}

func quantize(v float64) uint16 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return math.MaxUint16
	}
	return uint16(math.Round(v * math.MaxUint16))
}
