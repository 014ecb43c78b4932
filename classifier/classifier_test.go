package classifier

import (
	"testing"

	"github.com/neurlang/poolbench/registry"
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

var _ Classifier = (*ExactMatch)(nil)
var _ Classifier = (*KNearestNeighbor)(nil)

func TestExactMatchRecall(t *testing.T) {
	reg := registry.New()
	e := NewExactMatch(reg)
	a := sdr.MustFromIndices(32, 1, 2)
	b := sdr.MustFromIndices(32, 3, 4)
	if err := e.Learn(a, 4); err != nil {
		t.Fatal(err)
	}
	if c, err := e.Infer(a); err != nil || c != 4 {
		t.Errorf("infer %d %v", c, err)
	}
	if c, err := e.Infer(b); !errors.Is(err, ErrNoMatch) || c != NoMatch {
		t.Errorf("unseen content: %d %v", c, err)
	}
	if reg.Size() != 1 {
		t.Errorf("infer interned content, registry size %d", reg.Size())
	}
}

func TestExactMatchLastWriteWins(t *testing.T) {
	e := NewExactMatch(registry.New())
	a := sdr.MustFromIndices(8, 0)
	e.Learn(a, 0)
	e.Learn(a, 1)
	e.Learn(a, 1)
	if c, _ := e.Infer(a); c != 1 {
		t.Errorf("infer %d, want 1", c)
	}
	if e.Overwrites() != 1 {
		t.Errorf("overwrites %d", e.Overwrites())
	}
	if e.Len() != 1 {
		t.Errorf("len %d", e.Len())
	}
}

func TestExactMatchClear(t *testing.T) {
	reg := registry.New()
	e := NewExactMatch(reg)
	a := sdr.MustFromIndices(8, 0)
	e.Learn(a, 3)
	e.Clear()
	if _, err := e.Infer(a); !errors.Is(err, ErrNoMatch) {
		t.Errorf("cleared association answered: %v", err)
	}
	if reg.Size() != 1 {
		t.Errorf("clear touched the registry")
	}
}

func TestExactMatchDimension(t *testing.T) {
	e := NewExactMatch(registry.New())
	e.Learn(sdr.New(8), 0)
	if err := e.Learn(sdr.New(9), 0); !errors.Is(err, registry.ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}

func TestExactMatchFilterSize(t *testing.T) {
	e := NewExactMatch(registry.New())
	if e.FilterSize() != 0 {
		t.Errorf("empty classifier has filter size %d", e.FilterSize())
	}
	for i := 0; i < 64; i++ {
		e.Learn(sdr.MustFromIndices(64, i), i%5)
	}
	if e.FilterSize() <= 0 {
		t.Errorf("filter size %d", e.FilterSize())
	}
}

func TestKNNRecall(t *testing.T) {
	k := NewKNearestNeighbor()
	vs := []sdr.Vector{
		sdr.MustFromIndices(16, 0, 1, 2),
		sdr.MustFromIndices(16, 5, 6, 7),
		sdr.MustFromIndices(16, 10, 11, 12),
	}
	for i, v := range vs {
		if err := k.Learn(v, i*10); err != nil {
			t.Fatal(err)
		}
	}
	for i, v := range vs {
		if c, err := k.Infer(v); err != nil || c != i*10 {
			t.Errorf("exemplar %d: %d %v", i, c, err)
		}
	}
	// nearest to exemplar 1
	if c, _ := k.Infer(sdr.MustFromIndices(16, 5, 6, 8)); c != 10 {
		t.Errorf("nearest %d", c)
	}
}

func TestKNNTieBreak(t *testing.T) {
	k := NewKNearestNeighbor()
	k.Learn(sdr.MustFromIndices(8, 0), 1)
	k.Learn(sdr.MustFromIndices(8, 1), 2)
	k.Learn(sdr.MustFromIndices(8, 0), 3)
	// distance 2 to both of the first two exemplars
	if c, _ := k.Infer(sdr.MustFromIndices(8, 4)); c != 1 {
		t.Errorf("tie went to %d, want earliest 1", c)
	}
	// duplicate exemplar kept, earliest wins on zero distance
	if c, _ := k.Infer(sdr.MustFromIndices(8, 0)); c != 1 {
		t.Errorf("duplicate exemplar answered %d", c)
	}
	if k.Len() != 3 {
		t.Errorf("len %d", k.Len())
	}
}

func TestKNNErrors(t *testing.T) {
	k := NewKNearestNeighbor()
	if c, err := k.Infer(sdr.New(4)); !errors.Is(err, ErrNoMatch) || c != NoMatch {
		t.Errorf("empty classifier: %d %v", c, err)
	}
	k.Learn(sdr.New(4), 0)
	if err := k.Learn(sdr.New(5), 0); !errors.Is(err, sdr.ErrLength) {
		t.Errorf("expected ErrLength on learn, got %v", err)
	}
	if _, err := k.Infer(sdr.New(5)); !errors.Is(err, sdr.ErrLength) {
		t.Errorf("expected ErrLength on infer, got %v", err)
	}
	k.Clear()
	if err := k.Learn(sdr.New(5), 0); err != nil {
		t.Errorf("clear kept the old dimension: %v", err)
	}
}

// TestKNNSharded verifies the parallel scan answers like the sequential one
func TestKNNSharded(t *testing.T) {
	const n = 3*shardSize + 17
	const width = 4096
	k := NewKNearestNeighbor()
	for i := 0; i < n; i++ {
		// exemplars i and i+shardSize share content, the earlier must win
		j := i % shardSize
		k.Learn(sdr.MustFromIndices(width, j, (j*7+1)%width), i)
	}
	for _, threads := range []int{0, 1, 3, 64} {
		k.Threads = threads
		for _, q := range []int{0, 1, 100, shardSize - 1} {
			v := sdr.MustFromIndices(width, q, (q*7+1)%width)
			c, err := k.Infer(v)
			if err != nil {
				t.Fatal(err)
			}
			want := k.exemplars[k.scan(v, 0, n).index].category
			if c != want || c != q {
				t.Errorf("threads %d query %d: sharded %d, sequential %d", threads, q, c, want)
			}
		}
	}
}

func TestDefaultThreads(t *testing.T) {
	if DefaultThreads() < 1 {
		t.Errorf("default threads %d", DefaultThreads())
	}
}

func BenchmarkKNNInfer(b *testing.B) {
	k := NewKNearestNeighbor()
	for i := 0; i < 4*shardSize; i++ {
		k.Learn(sdr.MustFromIndices(2048, i%2048, (i*13)%2048), i)
	}
	q := sdr.MustFromIndices(2048, 5, 65)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.Infer(q)
	}
}
