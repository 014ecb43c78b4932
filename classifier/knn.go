package classifier

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/neurlang/poolbench/parallel"
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// shardSize is the exemplar count per parallel scan shard
const shardSize = 2048

type exemplar struct {
	v        sdr.Vector
	category int
}

// KNearestNeighbor keeps every learned exemplar and answers with the category of the
// nearest one by Hamming distance. Ties go to the earliest learned exemplar.
type KNearestNeighbor struct {
	exemplars []exemplar
	dim       int

	// Threads bounds the goroutines scanning large exemplar sets, 0 means DefaultThreads
	Threads int
}

// DefaultThreads is one scan goroutine per logical core. cpuid may not know the
// core count on some platforms, the runtime's count is used then.
func DefaultThreads() int {
	if cores := cpuid.CPU.LogicalCores; cores > 0 {
		return cores
	}
	return runtime.NumCPU()
}

// NewKNearestNeighbor creates an empty nearest neighbor classifier
func NewKNearestNeighbor() *KNearestNeighbor {
	return &KNearestNeighbor{}
}

func (k *KNearestNeighbor) Clear() {
	k.exemplars = nil
	k.dim = 0
}

// Learn appends an exemplar, identical exemplars are kept
func (k *KNearestNeighbor) Learn(v sdr.Vector, category int) error {
	if len(k.exemplars) == 0 {
		k.dim = v.Len()
	} else if v.Len() != k.dim {
		return errors.Wrapf(sdr.ErrLength, "exemplar length %d, classifier holds %d", v.Len(), k.dim)
	}
	k.exemplars = append(k.exemplars, exemplar{v: v, category: category})
	return nil
}

type nearest struct {
	index    int
	distance int
}

func (k *KNearestNeighbor) scan(v sdr.Vector, from, to int) nearest {
	best := nearest{index: -1}
	for i := from; i < to; i++ {
		d, _ := sdr.Hamming(v, k.exemplars[i].v)
		if best.index < 0 || d < best.distance {
			best = nearest{index: i, distance: d}
		}
	}
	return best
}

func (k *KNearestNeighbor) Infer(v sdr.Vector) (int, error) {
	if len(k.exemplars) == 0 {
		return NoMatch, ErrNoMatch
	}
	if v.Len() != k.dim {
		return NoMatch, errors.Wrapf(sdr.ErrLength, "query length %d, classifier holds %d", v.Len(), k.dim)
	}
	n := len(k.exemplars)
	if n <= shardSize {
		return k.exemplars[k.scan(v, 0, n).index].category, nil
	}
	shards := make([]nearest, (n+shardSize-1)/shardSize)
	threads := k.Threads
	if threads <= 0 {
		threads = DefaultThreads()
	}
	parallel.ForEach(len(shards), threads, func(s int) {
		to := (s + 1) * shardSize
		if to > n {
			to = n
		}
		shards[s] = k.scan(v, s*shardSize, to)
	})
	// shards are merged in order so ties keep the lowest insertion index
	best := shards[0]
	for _, s := range shards[1:] {
		if s.distance < best.distance {
			best = s
		}
	}
	return k.exemplars[best.index].category, nil
}

// Len is the number of exemplars
func (k *KNearestNeighbor) Len() int {
	return len(k.exemplars)
}
