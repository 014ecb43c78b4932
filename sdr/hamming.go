package sdr

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Hamming counts the positions where a and b differ
func Hamming(a, b Vector) (int, error) {
	if a.n != b.n {
		return 0, errors.Wrapf(ErrLength, "%d vs %d", a.n, b.n)
	}
	var n int
	for i := range a.words {
		n += bits.OnesCount64(a.words[i] ^ b.words[i])
	}
	return n, nil
}

// Overlap counts the positions set in both a and b
func Overlap(a, b Vector) (int, error) {
	if a.n != b.n {
		return 0, errors.Wrapf(ErrLength, "%d vs %d", a.n, b.n)
	}
	var n int
	for i := range a.words {
		n += bits.OnesCount64(a.words[i] & b.words[i])
	}
	return n, nil
}

func popcount(words []uint64) (n int) {
	for _, w := range words {
		n += bits.OnesCount64(w)
	}
	return
}
