package trainer

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/neurlang/poolbench/classifier"
	"github.com/neurlang/poolbench/datasets"
	"github.com/neurlang/poolbench/pooler"
	"github.com/neurlang/poolbench/registry"
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// driftPooler derives each activation from the pattern and the cycle it is computed in
type driftPooler struct {
	inputs, columns int
	samples         int
	calls           int
	failAt          int // call index that fails, -1 for never
	code            func(pattern sdr.Vector, cycle int) sdr.Vector
}

var errPooler = errors.New("pooler exploded")

func (d *driftPooler) Compute(p sdr.Vector, learn bool) (sdr.Vector, error) {
	if d.calls == d.failAt {
		return sdr.Vector{}, errPooler
	}
	cycle := d.calls / d.samples
	d.calls++
	return d.code(p, cycle), nil
}

func (d *driftPooler) Permanence(column int) ([]float64, error) {
	return make([]float64, d.inputs), nil
}

func (d *driftPooler) SynPermConnected() float64 {
	return 0.5
}

func (d *driftPooler) NumColumns() int {
	return d.columns
}

func (d *driftPooler) NumInputs() int {
	return d.inputs
}

func abc() []sdr.Vector {
	return []sdr.Vector{
		sdr.MustFromIndices(8, 0, 1),
		sdr.MustFromIndices(8, 2, 3),
		sdr.MustFromIndices(8, 4, 5),
	}
}

func TestScenarioSeparable(t *testing.T) {
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	for _, name := range []string{"exact", "knn"} {
		t.Run(name, func(t *testing.T) {
			reg := registry.New()
			var clf classifier.Classifier = classifier.NewKNearestNeighbor()
			if name == "exact" {
				clf = classifier.NewExactMatch(reg)
			}
			s, err := New(pooler.Identity{Inputs: 8}, reg, clf, NewAccuracy(100), WithMaxCycles(5)).Train(ds)
			if err != nil {
				t.Fatal(err)
			}
			if s.Cycles != 1 || s.Accuracy != 100.0 || !s.Converged {
				t.Errorf("cycles %d accuracy %v converged %v", s.Cycles, s.Accuracy, s.Converged)
			}
			if reg.Size() != 3 {
				t.Errorf("registry size %d", reg.Size())
			}
			// two of eight bits per activation
			if last, ok := s.Last(); !ok || last.Sparsity != 0.25 || last.Distinct != 3 {
				t.Errorf("last cycle %+v", last)
			}
		})
	}
}

func TestScenarioCollision(t *testing.T) {
	a := sdr.MustFromIndices(8, 0, 1)
	p := pooler.NewTable(8, 8)
	p.Set(a, sdr.MustFromIndices(8, 7))
	ds := datasets.MustNew([]sdr.Vector{a, a}, []string{"x", "y"})
	reg := registry.New()
	s, err := New(p, reg, classifier.NewExactMatch(reg), NewAccuracy(100), WithMaxCycles(5)).Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cycles != 5 || s.Converged {
		t.Errorf("cycles %d converged %v", s.Cycles, s.Converged)
	}
	for _, c := range s.History {
		if c.Accuracy != 50.0 {
			t.Errorf("cycle %d accuracy %v, want 50", c.Index, c.Accuracy)
		}
		if c.Collisions != 1 {
			t.Errorf("cycle %d collisions %d", c.Index, c.Collisions)
		}
	}
}

func TestTrainAccuracyMode(t *testing.T) {
	ds := datasets.MustNew(abc(), []int{7, 8, 9})
	reg := registry.New()
	cycles, err := TrainAccuracy(pooler.Identity{Inputs: 8}, reg, classifier.NewExactMatch(reg), ds, 5, 100)
	if err != nil || cycles != 1 {
		t.Errorf("cycles %d err %v", cycles, err)
	}
}

func TestRepeatedLabels(t *testing.T) {
	vs := abc()
	ds := datasets.MustNew([]sdr.Vector{vs[0], vs[1], vs[2], vs[0]}, []string{"x", "y", "x", "x"})
	reg := registry.New()
	s, err := New(pooler.Identity{Inputs: 8}, reg, classifier.NewExactMatch(reg), NewAccuracy(100)).Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	if s.Accuracy != 100 || s.Cycles != 1 {
		t.Errorf("accuracy %v cycles %d", s.Accuracy, s.Cycles)
	}
	if s.IDs[3] != s.IDs[0] {
		t.Errorf("repeated pattern got ids %v", s.IDs)
	}
}

func TestAccuracyMargin(t *testing.T) {
	// within the margin before any cycle runs
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	reg := registry.New()
	s, err := New(pooler.Identity{Inputs: 8}, reg, classifier.NewExactMatch(reg), NewAccuracy(0)).Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cycles != 0 || !s.Converged {
		t.Errorf("cycles %d converged %v", s.Cycles, s.Converged)
	}

	// a margin of one whole sample stops at 50% of two samples
	a := sdr.MustFromIndices(8, 0, 1)
	p := pooler.NewTable(8, 8)
	p.Set(a, sdr.MustFromIndices(8, 7))
	two := datasets.MustNew([]sdr.Vector{a, a}, []string{"x", "y"})
	reg = registry.New()
	policy := &Accuracy{MinAccuracy: 100, Slack: 100}
	s, err = New(p, reg, classifier.NewExactMatch(reg), policy, WithMaxCycles(5)).Train(two)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cycles != 1 || !s.Converged {
		t.Errorf("cycles %d converged %v", s.Cycles, s.Converged)
	}
}

func TestBoundedIteration(t *testing.T) {
	d := &driftPooler{inputs: 8, columns: 64, samples: 3, failAt: -1, code: func(p sdr.Vector, cycle int) sdr.Vector {
		// every sample collapses onto one code that changes every cycle
		return sdr.MustFromIndices(64, cycle%64)
	}}
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	for _, budget := range []int{1, 2, 7} {
		d.calls = 0
		reg := registry.New()
		s, err := New(d, reg, classifier.NewKNearestNeighbor(), NewAccuracy(100), WithMaxCycles(budget)).Train(ds)
		if err != nil {
			t.Fatal(err)
		}
		if s.Cycles != budget || len(s.History) != budget {
			t.Errorf("budget %d: ran %d cycles", budget, s.Cycles)
		}
		if d.calls != 3*budget {
			t.Errorf("budget %d: %d pooler calls", budget, d.calls)
		}
	}
}

func TestDeterminism(t *testing.T) {
	ds := datasets.Synthetic(30, 256, 0.1, 42)
	run := func() *Session {
		p, err := pooler.NewProjection(pooler.ProjectionConfig{Inputs: 256, Columns: 512, Active: 10, Connected: 0.5, Seed: 1956})
		if err != nil {
			t.Fatal(err)
		}
		reg := registry.New()
		s, err := New(p, reg, classifier.NewExactMatch(reg), NewAccuracy(100), WithMaxCycles(3)).Train(ds)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	a, b := run(), run()
	if a.Cycles != b.Cycles || a.Accuracy != b.Accuracy {
		t.Errorf("runs differ: %d/%v vs %d/%v", a.Cycles, a.Accuracy, b.Cycles, b.Accuracy)
	}
	for i := range a.IDs {
		if a.IDs[i] != b.IDs[i] {
			t.Errorf("sample %d: id %d vs %d", i, a.IDs[i], b.IDs[i])
		}
	}
	for i := range a.History {
		if a.History[i].Digest != b.History[i].Digest {
			t.Errorf("cycle %d digests differ", i+1)
		}
	}
	if a.ID == b.ID {
		t.Errorf("sessions share an id")
	}
}

func markerPooler(stableAfter int) *driftPooler {
	return &driftPooler{inputs: 8, columns: 64, samples: 3, failAt: -1, code: func(p sdr.Vector, cycle int) sdr.Vector {
		if cycle > stableAfter {
			cycle = stableAfter
		}
		return sdr.MustFromIndices(64, append(p.Active(), 32+cycle)...)
	}}
}

func TestStability(t *testing.T) {
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	for _, mode := range []StabilityMode{Exact, PPM} {
		t.Run(mode.String(), func(t *testing.T) {
			ids, cycles, err := TrainStability(markerPooler(2), registry.New(), ds, 10, mode)
			if err != nil {
				t.Fatal(err)
			}
			// codes change in cycles 1 to 3, cycle 4 repeats cycle 3
			if cycles != 4 {
				t.Errorf("cycles %d, want 4", cycles)
			}
			if len(ids) != 3 || ids[0] != 6 || ids[2] != 8 {
				t.Errorf("ids %v", ids)
			}
		})
	}
}

func TestStabilityPPM(t *testing.T) {
	const width = 2000000
	d := &driftPooler{inputs: 8, columns: width, samples: 1, failAt: -1, code: func(p sdr.Vector, cycle int) sdr.Vector {
		// one bit moves every cycle, forever
		return sdr.MustFromIndices(width, 0, 1+cycle%2)
	}}
	ds := datasets.MustNew(abc()[:1], []string{"x"})
	_, cycles, err := TrainStability(d, registry.New(), ds, 6, Exact)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 6 {
		t.Errorf("exact mode converged at cycle %d", cycles)
	}
	d.calls = 0
	// two flipped bits of two million is one per million
	_, cycles, err = TrainStability(d, registry.New(), ds, 6, PPM)
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 2 {
		t.Errorf("ppm mode ran %d cycles, want 2", cycles)
	}
}

func TestStabilityCollision(t *testing.T) {
	a := sdr.MustFromIndices(8, 0)
	b := sdr.MustFromIndices(8, 1)
	p := pooler.NewTable(8, 8)
	p.Set(a, sdr.MustFromIndices(8, 3))
	p.Set(b, sdr.MustFromIndices(8, 3))
	ds := datasets.MustNew([]sdr.Vector{a, b}, []string{"x", "y"})
	s, err := New(p, registry.New(), nil, &Stability{Mode: Exact}, WithMaxCycles(4)).Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	if s.Converged || s.Cycles != 4 {
		t.Errorf("collision converged: cycles %d", s.Cycles)
	}
	// same label, same code is not a collision
	same := datasets.MustNew([]sdr.Vector{a, b}, []string{"x", "x"})
	s, _ = New(p, registry.New(), nil, &Stability{Mode: Exact}, WithMaxCycles(4)).Train(same)
	if !s.Converged || s.Cycles != 2 {
		t.Errorf("cycles %d converged %v", s.Cycles, s.Converged)
	}
}

func TestOscillation(t *testing.T) {
	d := &driftPooler{inputs: 8, columns: 16, samples: 1, failAt: -1, code: func(p sdr.Vector, cycle int) sdr.Vector {
		return sdr.MustFromIndices(16, cycle%2)
	}}
	ds := datasets.MustNew(abc()[:1], []string{"x"})
	s, err := New(d, registry.New(), nil, &Stability{}, WithMaxCycles(4)).Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Oscillations) != 2 || s.Oscillations[0] != [2]int{1, 3} || s.Oscillations[1] != [2]int{2, 4} {
		t.Errorf("oscillations %v", s.Oscillations)
	}
}

func TestPoolerFailure(t *testing.T) {
	d := markerPooler(0)
	d.failAt = 2
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	knn := classifier.NewKNearestNeighbor()
	s, err := New(d, registry.New(), knn, NewAccuracy(100)).Train(ds)
	if !errors.Is(err, errPooler) {
		t.Fatalf("expected the pooler error, got %v", err)
	}
	if !strings.Contains(err.Error(), "cycle 1 sample 2") {
		t.Errorf("error lacks position: %v", err)
	}
	// associations learned before the failure stay
	if knn.Len() != 2 {
		t.Errorf("classifier holds %d exemplars, want 2", knn.Len())
	}
	if s.Cycles != 0 {
		t.Errorf("failed cycle counted: %d", s.Cycles)
	}
}

func TestDimensionFailure(t *testing.T) {
	d := &driftPooler{inputs: 8, columns: 8, samples: 3, failAt: -1, code: func(p sdr.Vector, cycle int) sdr.Vector {
		return sdr.New(p.Active()[0] + 1)
	}}
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	reg := registry.New()
	_, err := New(d, reg, classifier.NewExactMatch(reg), NewAccuracy(100)).Train(ds)
	if !errors.Is(err, registry.ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}

func TestTrainErrors(t *testing.T) {
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	p := pooler.Identity{Inputs: 8}
	if _, err := New(p, registry.New(), nil, NewAccuracy(100)).Train(ds); !errors.Is(err, ErrNoClassifier) {
		t.Errorf("expected ErrNoClassifier, got %v", err)
	}
	if _, err := New(p, registry.New(), nil, nil).Train(ds); !errors.Is(err, ErrNoPolicy) {
		t.Errorf("expected ErrNoPolicy, got %v", err)
	}
	reg := registry.New()
	if _, err := TrainAccuracy(p, reg, classifier.NewExactMatch(reg), ds, 0, 100); !errors.Is(err, ErrMaxCycles) {
		t.Errorf("expected ErrMaxCycles, got %v", err)
	}
	if _, err := New(p, reg, classifier.NewExactMatch(reg), NewAccuracy(100)).Train(&datasets.Dataset{}); !errors.Is(err, datasets.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestLogging(t *testing.T) {
	var logs, stats bytes.Buffer
	ds := datasets.MustNew(abc(), []string{"x", "y", "z"})
	reg := registry.New()
	_, err := New(pooler.Identity{Inputs: 8}, reg, classifier.NewExactMatch(reg), NewAccuracy(100),
		WithLogger(log.New(&logs, "", 0)), WithStats(&stats)).Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "cycle 1 accuracy 100.00000%") || !strings.Contains(logs.String(), "sparsity 0.2500") {
		t.Errorf("log: %q", logs.String())
	}
	if !strings.Contains(logs.String(), "1 distinct code sequences") {
		t.Errorf("log: %q", logs.String())
	}
	// header plus rows for cycle 0 and cycle 1
	if strings.Count(stats.String(), "\n") != 5 {
		t.Errorf("stats: %q", stats.String())
	}
}
