// Package evaluator runs test passes over a trained pooler and classifier.
//
// The registry and classifier given to an Evaluator should be the ones the trainer
// used, so ids issued during training are reused and the learned associations answer
// the test queries.
package evaluator

import (
	"fmt"
	"log"

	"github.com/neurlang/poolbench/classifier"
	"github.com/neurlang/poolbench/datasets"
	"github.com/neurlang/poolbench/pooler"
	"github.com/neurlang/poolbench/registry"
	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// ErrNoClassifier is returned when accuracy or learning is asked of an evaluator
// without a classifier
var ErrNoClassifier = errors.New("evaluator: no classifier")

// Evaluator computes accuracy and mismatches for one pass over a dataset
type Evaluator struct {
	pooler     pooler.Pooler
	registry   *registry.Registry
	classifier classifier.Classifier
	logger     *log.Logger
	verbose    bool
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithLogger logs a summary line per test pass
func WithLogger(l *log.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// WithVerbose additionally logs every mismatch
func WithVerbose(v bool) Option {
	return func(e *Evaluator) {
		e.verbose = v
	}
}

// New creates an evaluator over a pooler and the registry and classifier it was trained with
func New(p pooler.Pooler, reg *registry.Registry, clf classifier.Classifier, opts ...Option) *Evaluator {
	e := &Evaluator{
		pooler:     p,
		registry:   reg,
		classifier: clf,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Output(2, fmt.Sprintf(format, args...))
	}
}

// Test computes an activation per sample, interning each and teaching the classifier
// when learn is set, then infers every activation. Inference runs after the whole pass,
// so with learn set a later sample can override what an earlier one taught.
// A failure aborts the pass; associations learned before it stay in the classifier.
// Without a classifier only the ids are reported, learning then needs one.
func (e *Evaluator) Test(ds *datasets.Dataset, learn bool) (*Report, error) {
	if e.classifier == nil && learn {
		return nil, errors.Wrap(ErrNoClassifier, "learn during test")
	}
	if ds == nil || ds.Len() == 0 {
		return nil, datasets.ErrEmpty
	}
	if len(ds.Categories) != ds.Len() || len(ds.Labels) != ds.Len() {
		return nil, errors.Wrapf(datasets.ErrMismatch, "%d patterns, %d labels, %d categories",
			ds.Len(), len(ds.Labels), len(ds.Categories))
	}
	n := ds.Len()
	activations := make([]sdr.Vector, n)
	r := &Report{IDs: make([]int, n)}
	for i, pattern := range ds.Patterns {
		activation, err := e.pooler.Compute(pattern, learn)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d: compute", i)
		}
		id, err := e.registry.Intern(activation)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d: intern", i)
		}
		r.IDs[i] = id
		activations[i] = activation
		if learn {
			if err := e.classifier.Learn(activation, ds.Categories[i]); err != nil {
				return nil, errors.Wrapf(err, "sample %d: learn", i)
			}
		}
	}

	if e.classifier == nil {
		e.logf("tested %d samples without classifier, registry %d codes", n, e.registry.Size())
		return r, nil
	}

	var correct int
	for i, activation := range activations {
		predicted, err := e.classifier.Infer(activation)
		if err != nil && !errors.Is(err, classifier.ErrNoMatch) {
			return nil, errors.Wrapf(err, "sample %d: infer", i)
		}
		if err == nil && predicted == ds.Categories[i] {
			correct++
			continue
		}
		m := Mismatch{
			Index:          i,
			Label:          ds.Labels[i],
			Expected:       ds.Categories[i],
			Predicted:      predicted,
			PredictedLabel: ds.Label(predicted),
		}
		r.Mismatches = append(r.Mismatches, m)
		if e.verbose {
			e.logf("sample %d: %q recognized as %q", m.Index, m.Label, m.PredictedLabel)
		}
	}
	r.Accuracy = 100.0 * float64(correct) / float64(n)
	e.logf("tested %d samples, learn %v, accuracy %.5f%%, %d mismatches, registry %d codes",
		n, learn, r.Accuracy, len(r.Mismatches), e.registry.Size())
	return r, nil
}

// Accuracy runs Test and returns only the accuracy, it needs a classifier
func (e *Evaluator) Accuracy(ds *datasets.Dataset, learn bool) (float64, error) {
	if e.classifier == nil {
		return 0, ErrNoClassifier
	}
	r, err := e.Test(ds, learn)
	if err != nil {
		return 0, err
	}
	return r.Accuracy, nil
}

// IDs runs Test and returns only the per-sample registry ids. It works without a
// classifier, the way stability trained poolers are tested.
func (e *Evaluator) IDs(ds *datasets.Dataset, learn bool) ([]int, error) {
	r, err := e.Test(ds, learn)
	if err != nil {
		return nil, err
	}
	return r.IDs, nil
}
