// Package sdr implements the packed fixed-length binary vector used for both the
// pattern vectors fed into a pooler and the sparse activations it produces.
//
// A Vector is immutable once built. Bits past the vector length are always zero,
// so content equality is word equality.
package sdr
