package trainer

import (
	"fmt"
	"io"
	"log"

	"github.com/neurlang/poolbench/classifier"
	"github.com/neurlang/poolbench/datasets"
	"github.com/neurlang/poolbench/diagnostics"
	"github.com/neurlang/poolbench/parallel"
	"github.com/neurlang/poolbench/pooler"
	"github.com/neurlang/poolbench/registry"
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// DefaultMaxCycles is the cycle budget when none is given
const DefaultMaxCycles = 10

// ErrMaxCycles is returned for a cycle budget below one
var ErrMaxCycles = errors.New("trainer: max cycles must be positive")

// ErrNoPolicy is returned when a trainer has no termination policy
var ErrNoPolicy = errors.New("trainer: no policy")

// ErrNoClassifier is returned when a learning policy runs without a classifier
var ErrNoClassifier = errors.New("trainer: policy needs a classifier")

// Trainer runs learning cycles under one termination policy
type Trainer struct {
	pooler     pooler.Pooler
	registry   *registry.Registry
	classifier classifier.Classifier
	policy     Policy
	maxCycles  int
	logger     *log.Logger
	stats      *diagnostics.StatsTable
}

// Option configures a Trainer
type Option func(*Trainer)

// WithMaxCycles sets the cycle budget
func WithMaxCycles(n int) Option {
	return func(t *Trainer) {
		t.maxCycles = n
	}
}

// WithLogger logs one line per cycle
func WithLogger(l *log.Logger) Option {
	return func(t *Trainer) {
		t.logger = l
	}
}

// WithStats prints the pooler's permanence statistics to w before training and
// after every cycle
func WithStats(w io.Writer) Option {
	return func(t *Trainer) {
		t.stats = diagnostics.NewStatsTable(w)
	}
}

// New creates a trainer. The registry and classifier should be shared with the
// evaluator that tests the result, so ids and associations stay consistent.
// The classifier may be nil for policies that do not learn.
func New(p pooler.Pooler, reg *registry.Registry, clf classifier.Classifier, policy Policy, opts ...Option) *Trainer {
	t := &Trainer{
		pooler:     p,
		registry:   reg,
		classifier: clf,
		policy:     policy,
		maxCycles:  DefaultMaxCycles,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Trainer) logf(s *Session, format string, args ...interface{}) {
	if t.logger == nil {
		return
	}
	t.logger.Printf("[%s] %s", s.ID.String()[:8], fmt.Sprintf(format, args...))
}

func (t *Trainer) printStats(cycle int, accuracy float64) error {
	if t.stats == nil {
		return nil
	}
	s, err := diagnostics.Report(t.pooler)
	if err != nil {
		return errors.Wrapf(err, "cycle %d stats", cycle)
	}
	t.stats.Row(cycle, s, accuracy)
	return nil
}

// Train runs cycles until the policy converges or the cycle budget is spent. On error
// the session describes the cycles completed before the failing one.
func (t *Trainer) Train(ds *datasets.Dataset) (*Session, error) {
	if t.policy == nil {
		return &Session{}, ErrNoPolicy
	}
	s := newSession(t.policy)
	if t.maxCycles < 1 {
		return s, errors.Wrapf(ErrMaxCycles, "got %d", t.maxCycles)
	}
	if ds == nil || ds.Len() == 0 {
		return s, datasets.ErrEmpty
	}
	if len(ds.Categories) != ds.Len() {
		return s, errors.Wrapf(datasets.ErrMismatch, "%d patterns, %d categories", ds.Len(), len(ds.Categories))
	}
	learns := t.policy.Learns()
	if learns && t.classifier == nil {
		return s, ErrNoClassifier
	}
	n := ds.Len()
	t.logf(s, "training %d samples with %s policy, at most %d cycles", n, s.Policy, t.maxCycles)
	if err := t.printStats(0, 0); err != nil {
		return s, err
	}

	var prev, cur *Cycle
	var seen = parallel.NewDigestSet()
	for !t.policy.Converged(n, prev, cur) && s.Cycles < t.maxCycles {
		next, err := t.cycle(ds, s.Cycles+1, learns, cur)
		if err != nil {
			return s, err
		}
		prev, cur = cur, next
		s.Cycles = cur.Index
		s.Accuracy = cur.Accuracy
		s.IDs = cur.IDs
		s.History = append(s.History, cur.summary())

		if first, repeated := seen.Insert(cur.Digest, cur.Index); repeated && first < cur.Index-1 {
			s.Oscillations = append(s.Oscillations, [2]int{first, cur.Index})
			t.logf(s, "cycle %d repeats the codes of cycle %d", cur.Index, first)
		}
		last, _ := s.Last()
		t.logf(s, "cycle %d accuracy %.5f%% collisions %d flipped %.1fppm codes %d sparsity %.4f registry %s digest %x",
			cur.Index, cur.Accuracy, cur.Collisions, cur.FlippedPPM, last.Distinct, last.Sparsity,
			t.registry.Footprint().HumanReadable(), cur.Digest[:4])
		if err := t.printStats(cur.Index, cur.Accuracy); err != nil {
			return s, err
		}
	}
	s.Converged = t.policy.Converged(n, prev, cur)
	t.logf(s, "finished after %d cycles, converged %v, %d distinct code sequences", s.Cycles, s.Converged, seen.Len())
	return s, nil
}

// cycle runs one pass over the samples
func (t *Trainer) cycle(ds *datasets.Dataset, index int, learns bool, prev *Cycle) (*Cycle, error) {
	n := ds.Len()
	c := &Cycle{
		Index:       index,
		IDs:         make([]int, n),
		Activations: make([]sdr.Vector, n),
	}
	if learns {
		t.classifier.Clear()
	}
	for i, pattern := range ds.Patterns {
		activation, err := t.pooler.Compute(pattern, true)
		if err != nil {
			return nil, errors.Wrapf(err, "cycle %d sample %d: compute", index, i)
		}
		id, err := t.registry.Intern(activation)
		if err != nil {
			return nil, errors.Wrapf(err, "cycle %d sample %d: intern", index, i)
		}
		c.IDs[i] = id
		c.Activations[i] = activation
		if learns {
			if err := t.classifier.Learn(activation, ds.Categories[i]); err != nil {
				return nil, errors.Wrapf(err, "cycle %d sample %d: learn", index, i)
			}
		}
	}
	if learns {
		c.Predictions = make([]int, n)
		var correct int
		for i, id := range c.IDs {
			predicted, err := t.classifier.Infer(t.registry.MustResolve(id))
			if err != nil && !errors.Is(err, classifier.ErrNoMatch) {
				return nil, errors.Wrapf(err, "cycle %d sample %d: infer", index, i)
			}
			c.Predictions[i] = predicted
			if err == nil && predicted == ds.Categories[i] {
				correct++
			}
		}
		c.Accuracy = 100.0 * float64(correct) / float64(n)
	}
	c.Collisions = collisions(c.IDs, ds.Categories)
	var prevActivations []sdr.Vector
	if prev != nil {
		prevActivations = prev.Activations
	}
	ppm, err := flippedPPM(prevActivations, c.Activations)
	if err != nil {
		return nil, errors.Wrapf(err, "cycle %d: compare with previous cycle", index)
	}
	c.FlippedPPM = ppm
	c.Digest = digest(c.Activations)
	return c, nil
}

// TrainAccuracy trains under the accuracy policy and returns the cycles completed
func TrainAccuracy(p pooler.Pooler, reg *registry.Registry, clf classifier.Classifier, ds *datasets.Dataset,
	maxCycles int, minAccuracy float64, opts ...Option) (int, error) {
	opts = append([]Option{WithMaxCycles(maxCycles)}, opts...)
	s, err := New(p, reg, clf, NewAccuracy(minAccuracy), opts...).Train(ds)
	return s.Cycles, err
}

// TrainStability trains under the stability policy and returns the per-sample ids of
// the last cycle together with the cycles completed
func TrainStability(p pooler.Pooler, reg *registry.Registry, ds *datasets.Dataset,
	maxCycles int, mode StabilityMode, opts ...Option) ([]int, int, error) {
	opts = append([]Option{WithMaxCycles(maxCycles)}, opts...)
	s, err := New(p, reg, nil, &Stability{Mode: mode}, opts...).Train(ds)
	return s.IDs, s.Cycles, err
}
