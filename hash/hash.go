// Package hash implements the fast modular hash and the content fingerprints built on it
package hash

// Hash mixes n with salt s and reduces the result to the range 0 to max-1.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mixing stage, mix input with salt using subtraction
	var m = n - s

	// hashing stage, use xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mixing stage 2, mix input with salt using addition
	m += s

	// multiply shift reduction by Daniel Lemire instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Words fingerprints a packed bit vector. Equal word slices of equal length always
// produce equal fingerprints; different ones collide rarely, so callers compare content
// after a fingerprint match.
func Words(length int, words []uint64) uint32 {
	var h = Hash(uint32(length), uint32(len(words)), 0xFFFFFFFF)
	for i, w := range words {
		h = Hash(h^uint32(w), uint32(i), 0xFFFFFFFF)
		h = Hash(h^uint32(w>>32), uint32(i)^0x9E3779B9, 0xFFFFFFFF)
	}
	return h
}

// Salted derives a deterministic value in 0 to max-1 for position n under seed.
func Salted(seed uint32, n uint32, max uint32) uint32 {
	return Hash(Hash(n, seed, 0xFFFFFFFF), seed^0x85EBCA6B, max)
}
