package parallel

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"sync"
)

// blockSize is the number of bytes streamed into the digest at once
const blockSize = 64

// Hasher computes a SHA-256 digest over a fixed number of positional values. Values
// may be written from several goroutines in any order, the digest only depends on
// the value at each position. Complete blocks are streamed as soon as every value
// in them is written, so memory stays bounded for in-order writers.
type Hasher struct {
	mut      sync.Mutex
	sha      hash.Hash
	width    int
	perBlock int
	n        int
	ate      int
	blocks   map[int]*block
}

type block struct {
	data    [blockSize]byte
	written []bool
	filled  int
}

// NewUint16Hasher digests n uint16 values
func NewUint16Hasher(n int) *Hasher {
	return newHasher(n, 2)
}

// NewHashHasher digests n 32-byte hashes
func NewHashHasher(n int) *Hasher {
	return newHasher(n, 32)
}

func newHasher(n, width int) *Hasher {
	h := &Hasher{
		sha:      sha256.New(),
		width:    width,
		perBlock: blockSize / width,
		n:        n,
		blocks:   make(map[int]*block),
	}
	var size [8]byte
	binary.LittleEndian.PutUint32(size[0:4], uint32(n))
	binary.LittleEndian.PutUint32(size[4:8], uint32(width))
	h.sha.Write(size[:])
	return h
}

func (h *Hasher) numBlocks() int {
	return (h.n + h.perBlock - 1) / h.perBlock
}

// put stores value at position n, it panics on a duplicate or out of range write
func (h *Hasher) put(n int, value []byte) {
	if n < 0 || n >= h.n {
		panic("position out of range")
	}
	h.mut.Lock()
	defer h.mut.Unlock()

	index := n / h.perBlock
	if index < h.ate {
		panic("already consumed block")
	}
	b := h.blocks[index]
	if b == nil {
		b = &block{written: make([]bool, h.perBlock)}
		h.blocks[index] = b
	}
	position := n % h.perBlock
	if b.written[position] {
		panic("duplicate write")
	}
	b.written[position] = true
	b.filled++
	copy(b.data[position*h.width:], value)

	for h.ready() {
		h.eat()
	}
}

func (h *Hasher) ready() bool {
	b := h.blocks[h.ate]
	if b == nil {
		return false
	}
	if h.ate == h.numBlocks()-1 {
		return b.filled == h.n-h.ate*h.perBlock
	}
	return b.filled == h.perBlock
}

func (h *Hasher) eat() {
	b := h.blocks[h.ate]
	if b == nil {
		b = &block{}
	}
	h.sha.Write(b.data[:])
	delete(h.blocks, h.ate)
	h.ate++
}

// MustPutUint16 stores a uint16 at position n
func (h *Hasher) MustPutUint16(n int, value uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	h.put(n, buf[:])
}

// MustPutHash stores a 32-byte hash at position n
func (h *Hasher) MustPutHash(n int, value [32]byte) {
	h.put(n, value[:])
}

// Sum finishes the digest. Positions never written count as zero.
func (h *Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	for h.ate < h.numBlocks() {
		h.eat()
	}
	copy(ret[:], h.sha.Sum(nil))
	return
}
