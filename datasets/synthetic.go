package datasets

import (
	"strconv"

	"github.com/neurlang/poolbench/hash"
	"github.com/neurlang/poolbench/sdr"
)

// Synthetic generates n distinct random patterns of the given width, each carrying its
// own label "0" to "n-1". About density*width bits are set per pattern. The same seed
// always yields the same dataset. Fewer than n samples come back when the density
// leaves too few distinct patterns.
func Synthetic(n, width int, density float64, seed uint32) *Dataset {
	if n <= 0 || width <= 0 {
		return &Dataset{}
	}
	var patterns = make([]sdr.Vector, 0, n)
	var labels = make([]string, 0, n)
	var seen = make(map[uint32][]sdr.Vector)
	threshold := uint32(density * (1 << 16))
	if threshold == 0 {
		threshold = 1
	}
	salt := seed
	for attempt := 0; len(patterns) < n && attempt < 64*n; attempt++ {
		var active []int
		for j := 0; j < width; j++ {
			if hash.Salted(salt, uint32(j), 1<<16) < threshold {
				active = append(active, j)
			}
		}
		salt = hash.Hash(salt, uint32(len(patterns))+1, 0xFFFFFFFF) + 1
		v := sdr.MustFromIndices(width, active...)
		if v.Count() == 0 || contains(seen[v.Fingerprint()], v) {
			continue
		}
		seen[v.Fingerprint()] = append(seen[v.Fingerprint()], v)
		patterns = append(patterns, v)
		labels = append(labels, strconv.Itoa(len(labels)))
	}
	if len(patterns) == 0 {
		return &Dataset{}
	}
	return MustNew(patterns, labels)
}

// Repeat concatenates k copies of the dataset, categories follow the first copy
func (d *Dataset) Repeat(k int) *Dataset {
	var patterns []sdr.Vector
	var labels []string
	for i := 0; i < k; i++ {
		patterns = append(patterns, d.Patterns...)
		labels = append(labels, d.Labels...)
	}
	return &Dataset{Patterns: patterns, Labels: labels, Categories: Categories(labels)}
}

func contains(bucket []sdr.Vector, v sdr.Vector) bool {
	for _, o := range bucket {
		if o.Equal(v) {
			return true
		}
	}
	return false
}
