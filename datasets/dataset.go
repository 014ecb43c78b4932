package datasets

import (
	"fmt"

	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// ErrEmpty is returned for a dataset without samples
var ErrEmpty = errors.New("datasets: empty dataset")

// ErrMismatch is returned when pattern and label counts differ
var ErrMismatch = errors.New("datasets: pattern and label count mismatch")

// Dataset is an ordered sequence of labeled pattern vectors
type Dataset struct {
	Patterns   []sdr.Vector
	Labels     []string
	Categories []int
}

// Categories maps each label to the index of its first occurrence in labels.
// The map is built once, repeated labels resolve to the same first index.
func Categories[L comparable](labels []L) []int {
	var first = make(map[L]int, len(labels))
	var out = make([]int, len(labels))
	for i, l := range labels {
		idx, ok := first[l]
		if !ok {
			idx = i
			first[l] = i
		}
		out[i] = idx
	}
	return out
}

// New pairs patterns with labels. Labels keep their fmt.Sprint form for reports,
// categories are computed from the original label values.
func New[L comparable](patterns []sdr.Vector, labels []L) (*Dataset, error) {
	if len(patterns) != len(labels) {
		return nil, errors.Wrapf(ErrMismatch, "%d patterns, %d labels", len(patterns), len(labels))
	}
	if len(patterns) == 0 {
		return nil, ErrEmpty
	}
	d := &Dataset{
		Patterns:   append([]sdr.Vector(nil), patterns...),
		Labels:     make([]string, len(labels)),
		Categories: Categories(labels),
	}
	for i, l := range labels {
		d.Labels[i] = fmt.Sprint(l)
	}
	return d, nil
}

// MustNew is New that panics on error
func MustNew[L comparable](patterns []sdr.Vector, labels []L) *Dataset {
	d, err := New(patterns, labels)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Len is the number of samples
func (d *Dataset) Len() int {
	return len(d.Patterns)
}

// Width is the pattern length of the first sample
func (d *Dataset) Width() int {
	if len(d.Patterns) == 0 {
		return 0
	}
	return d.Patterns[0].Len()
}

// Label returns the label text for a category index, "" when out of range
func (d *Dataset) Label(category int) string {
	if category < 0 || category >= len(d.Labels) {
		return ""
	}
	return d.Labels[category]
}

// Distinct counts distinct labels
func (d *Dataset) Distinct() (n int) {
	for i, c := range d.Categories {
		if c == i {
			n++
		}
	}
	return
}

// Reversed returns the samples in reverse order with categories recomputed for the new order
func (d *Dataset) Reversed() *Dataset {
	n := d.Len()
	patterns := make([]sdr.Vector, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		patterns[i] = d.Patterns[n-1-i]
		labels[i] = d.Labels[n-1-i]
	}
	return &Dataset{Patterns: patterns, Labels: labels, Categories: Categories(labels)}
}
