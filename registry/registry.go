// Package registry interns sparse activations into stable integer identifiers.
//
// The registry is append-only and insertion-ordered. An id is assigned on the first
// occurrence of a given content and never reassigned. A Registry is not safe for
// concurrent mutation, one instance serves one train or test pass at a time.
package registry

import (
	"github.com/c2h5oh/datasize"
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// ErrDimension is returned when an activation length differs from the registry's
var ErrDimension = errors.New("registry: dimension mismatch")

// ErrOutOfRange is returned when resolving an id the registry never issued
var ErrOutOfRange = errors.New("registry: id out of range")

// Registry maps activation content to ids and back
type Registry struct {
	content []sdr.Vector
	buckets map[uint32][]int
	dim     int
	bytes   uint64
}

// New creates an empty registry
func New() *Registry {
	return &Registry{buckets: make(map[uint32][]int)}
}

// Intern returns the id of v, assigning the next id when v was never seen.
func (r *Registry) Intern(v sdr.Vector) (int, error) {
	if len(r.content) == 0 {
		r.dim = v.Len()
	} else if v.Len() != r.dim {
		return 0, errors.Wrapf(ErrDimension, "length %d, registry holds %d", v.Len(), r.dim)
	}
	fp := v.Fingerprint()
	for _, id := range r.buckets[fp] {
		if r.content[id].Equal(v) {
			return id, nil
		}
	}
	id := len(r.content)
	r.content = append(r.content, v)
	r.buckets[fp] = append(r.buckets[fp], id)
	r.bytes += uint64((v.Len()+63)/64) * 8
	return id, nil
}

// Lookup returns the id of v without interning it
func (r *Registry) Lookup(v sdr.Vector) (int, bool) {
	if v.Len() != r.dim {
		return 0, false
	}
	for _, id := range r.buckets[v.Fingerprint()] {
		if r.content[id].Equal(v) {
			return id, true
		}
	}
	return 0, false
}

// Resolve returns the content interned under id
func (r *Registry) Resolve(id int) (sdr.Vector, error) {
	if id < 0 || id >= len(r.content) {
		return sdr.Vector{}, errors.Wrapf(ErrOutOfRange, "id %d, size %d", id, len(r.content))
	}
	return r.content[id], nil
}

// MustResolve is Resolve for ids this registry issued, it panics otherwise
func (r *Registry) MustResolve(id int) sdr.Vector {
	v, err := r.Resolve(id)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// Size is the number of distinct activations interned so far
func (r *Registry) Size() int {
	return len(r.content)
}

// Dim is the activation length fixed by the first intern, 0 before that
func (r *Registry) Dim() int {
	return r.dim
}

// Footprint is the memory held by interned content
func (r *Registry) Footprint() datasize.ByteSize {
	return datasize.ByteSize(r.bytes)
}
