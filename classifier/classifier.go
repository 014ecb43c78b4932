// Package classifier associates activations with category indices.
//
// A Classifier is taught with Learn and queried with Infer. Clear discards every
// association, the trainer calls it at the start of each cycle because the pooler's
// codes for the same input may change while its permanences evolve.
package classifier

import (
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// NoMatch is the category reported alongside ErrNoMatch
const NoMatch = -1

// ErrNoMatch is returned by Infer when nothing learned can answer the query
var ErrNoMatch = errors.New("classifier: no match")

// Classifier is a learn/infer association between activations and category indices
type Classifier interface {

	// Clear discards all learned associations
	Clear()

	// Learn records that v belongs to category
	Learn(v sdr.Vector, category int) error

	// Infer returns the category for v, or NoMatch with ErrNoMatch
	Infer(v sdr.Vector) (int, error)
}
