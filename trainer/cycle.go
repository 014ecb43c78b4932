package trainer

import (
	"github.com/neurlang/poolbench/parallel"
	"github.com/neurlang/poolbench/sdr"
)

// Cycle is the outcome of one full pass over the training samples
type Cycle struct {
	Index       int          // 1 for the first cycle
	IDs         []int        // registry id per sample
	Activations []sdr.Vector // pooler output per sample
	Predictions []int        // inferred category per sample, nil when the policy does not learn
	Accuracy    float64      // percent of samples inferred correctly
	Collisions  int          // samples sharing an id with an earlier sample of another category
	FlippedPPM  float64      // bits flipped since the previous cycle, per million, -1 on the first cycle
	Digest      [32]byte     // fingerprint of the activation sequence
}

// Summary is the part of a cycle kept in the session history
type Summary struct {
	Index      int
	Accuracy   float64
	Collisions int
	FlippedPPM float64
	Distinct   int     // distinct ids among the samples
	Sparsity   float64 // mean fraction of active bits per activation
	Digest     [32]byte
}

func (c *Cycle) summary() Summary {
	var distinct = make(map[int]struct{}, len(c.IDs))
	for _, id := range c.IDs {
		distinct[id] = struct{}{}
	}
	var sparsity float64
	for _, a := range c.Activations {
		sparsity += a.Sparsity()
	}
	if len(c.Activations) > 0 {
		sparsity /= float64(len(c.Activations))
	}
	return Summary{
		Index:      c.Index,
		Accuracy:   c.Accuracy,
		Collisions: c.Collisions,
		FlippedPPM: c.FlippedPPM,
		Distinct:   len(distinct),
		Sparsity:   sparsity,
		Digest:     c.Digest,
	}
}

// collisions counts samples whose id was first taken by a sample of another category
func collisions(ids, categories []int) (n int) {
	var owner = make(map[int]int, len(ids))
	for i, id := range ids {
		if c, ok := owner[id]; !ok {
			owner[id] = categories[i]
		} else if c != categories[i] {
			n++
		}
	}
	return
}

// flippedPPM compares activations sample by sample, returning flipped bits per million
func flippedPPM(prev, cur []sdr.Vector) (float64, error) {
	if prev == nil {
		return -1, nil
	}
	var flipped, total int
	for i := range cur {
		d, err := sdr.Hamming(prev[i], cur[i])
		if err != nil {
			return 0, err
		}
		flipped += d
		total += cur[i].Len()
	}
	if total == 0 {
		return 0, nil
	}
	return 1e6 * float64(flipped) / float64(total), nil
}

func digest(activations []sdr.Vector) [32]byte {
	h := parallel.NewHashHasher(len(activations))
	for i, a := range activations {
		h.MustPutHash(i, a.Digest())
	}
	return h.Sum()
}
