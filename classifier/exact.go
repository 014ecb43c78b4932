package classifier

import (
	"math/bits"

	"github.com/neurlang/poolbench/datasets"
	"github.com/neurlang/poolbench/registry"
	"github.com/neurlang/poolbench/sdr"
	"github.com/neurlang/quaternary"
)

// ExactMatch maps the registry id of an activation to a category. Learning the same
// activation twice keeps the later category.
type ExactMatch struct {
	reg        *registry.Registry
	categories map[int]int
	overwrites int
}

// NewExactMatch creates an exact match classifier keyed by ids of the shared registry
func NewExactMatch(reg *registry.Registry) *ExactMatch {
	return &ExactMatch{reg: reg, categories: make(map[int]int)}
}

func (e *ExactMatch) Clear() {
	e.categories = make(map[int]int)
	e.overwrites = 0
}

func (e *ExactMatch) Learn(v sdr.Vector, category int) error {
	id, err := e.reg.Intern(v)
	if err != nil {
		return err
	}
	if prev, ok := e.categories[id]; ok && prev != category {
		e.overwrites++
	}
	e.categories[id] = category
	return nil
}

// Infer returns the category last learned for v. Content never learned since the
// last Clear is ErrNoMatch.
func (e *ExactMatch) Infer(v sdr.Vector) (int, error) {
	id, ok := e.reg.Lookup(v)
	if !ok {
		return NoMatch, ErrNoMatch
	}
	category, ok := e.categories[id]
	if !ok {
		return NoMatch, ErrNoMatch
	}
	return category, nil
}

// Len is the number of learned ids
func (e *ExactMatch) Len() int {
	return len(e.categories)
}

// Overwrites counts learns that replaced a different category since the last Clear
func (e *ExactMatch) Overwrites() int {
	return e.overwrites
}

// FilterSize is the byte size of the association stored as one quaternary filter
// per category bit, keyed by registry id.
func (e *ExactMatch) FilterSize() (size int) {
	if len(e.categories) == 0 {
		return 0
	}
	var max int
	for _, c := range e.categories {
		if c > max {
			max = c
		}
	}
	planes := bits.Len(uint(max))
	if planes == 0 {
		planes = 1
	}
	for b := 0; b < planes; b++ {
		var plane datasets.Bitmap
		plane.Init()
		for id, c := range e.categories {
			plane[uint32(id)] = (c>>uint(b))&1 == 1
		}
		// a plane without set bits answers false for every id and needs no filter
		if len(datasets.SplitBitmap(plane)[1]) == 0 {
			continue
		}
		q := quaternary.Make(plane)
		size += len(q)
	}
	return
}
