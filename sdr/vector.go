package sdr

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"

	"github.com/neurlang/poolbench/hash"
	"github.com/pkg/errors"
)

// ErrLength is returned when two vectors of different length are compared
var ErrLength = errors.New("sdr: length mismatch")

// ErrIndex is returned when a bit index falls outside the vector
var ErrIndex = errors.New("sdr: index out of range")

// Vector is a fixed-length binary vector
type Vector struct {
	n     int
	words []uint64
}

func wordsFor(n int) int {
	return (n + 63) / 64
}

// New returns an all-zero vector of length n
func New(n int) Vector {
	if n < 0 {
		n = 0
	}
	return Vector{n: n, words: make([]uint64, wordsFor(n))}
}

// FromBools packs a slice of booleans
func FromBools(bits []bool) Vector {
	v := New(len(bits))
	for i, b := range bits {
		if b {
			v.words[i>>6] |= 1 << uint(i&63)
		}
	}
	return v
}

// FromIndices builds a vector of length n with the given bits set
func FromIndices(n int, active ...int) (Vector, error) {
	v := New(n)
	for _, i := range active {
		if i < 0 || i >= n {
			return Vector{}, errors.Wrapf(ErrIndex, "bit %d of %d", i, n)
		}
		v.words[i>>6] |= 1 << uint(i&63)
	}
	return v, nil
}

// MustFromIndices is FromIndices that panics on a bad index
func MustFromIndices(n int, active ...int) Vector {
	v, err := FromIndices(n, active...)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// FromString parses '1' as set and '0' or '_' as clear. Spaces and newlines are skipped.
func FromString(s string) (Vector, error) {
	var bits []bool
	for i, r := range s {
		switch r {
		case '1':
			bits = append(bits, true)
		case '0', '_':
			bits = append(bits, false)
		case ' ', '\t', '\n', '\r':
		default:
			return Vector{}, errors.Errorf("sdr: bad character %q at offset %d", r, i)
		}
	}
	return FromBools(bits), nil
}

// Len is the number of elements
func (v Vector) Len() int {
	return v.n
}

// Get reports whether bit i is set. Out of range bits read as clear.
func (v Vector) Get(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.words[i>>6]&(1<<uint(i&63)) != 0
}

// Count is the number of set bits
func (v Vector) Count() int {
	return popcount(v.words)
}

// Active lists set bit indices in ascending order
func (v Vector) Active() (out []int) {
	for i := 0; i < v.n; i++ {
		if v.words[i>>6]&(1<<uint(i&63)) != 0 {
			out = append(out, i)
		}
	}
	return
}

// Bools unpacks the vector
func (v Vector) Bools() []bool {
	out := make([]bool, v.n)
	for i := range out {
		out[i] = v.Get(i)
	}
	return out
}

// Words returns a copy of the packed words
func (v Vector) Words() []uint64 {
	return append([]uint64(nil), v.words...)
}

// Equal reports exact element-wise equality
func (v Vector) Equal(o Vector) bool {
	if v.n != o.n {
		return false
	}
	for i := range v.words {
		if v.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Fingerprint hashes the content, equal vectors share a fingerprint
func (v Vector) Fingerprint() uint32 {
	return hash.Words(v.n, v.words)
}

// Digest is the SHA-256 of the length and packed content
func (v Vector) Digest() [32]byte {
	buf := make([]byte, 8+8*len(v.words))
	binary.LittleEndian.PutUint64(buf, uint64(v.n))
	for i, w := range v.words {
		binary.LittleEndian.PutUint64(buf[8+8*i:], w)
	}
	return sha256.Sum256(buf)
}

// Sparsity is the fraction of set bits
func (v Vector) Sparsity() float64 {
	if v.n == 0 {
		return 0
	}
	return float64(v.Count()) / float64(v.n)
}

// String renders the vector as a run of '0' and '1'
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.Get(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Grid renders the vector as a square-ish grid, set bits as "1" and clear bits as "_"
func (v Vector) Grid() string {
	line := int(math.Sqrt(float64(v.n)))
	if line == 0 {
		line = 1
	}
	var b strings.Builder
	for i := 0; i < v.n; i++ {
		if i != 0 {
			if i%line == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		if v.Get(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
