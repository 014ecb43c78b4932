package trainer

// Policy decides when training has converged
type Policy interface {

	// Name identifies the policy in logs
	Name() string

	// Learns reports whether the classifier is cleared and taught every cycle
	Learns() bool

	// Converged is asked before the first cycle with cur nil, then after every cycle
	// with the cycle just finished and the one before it (nil after the first).
	// n is the number of samples per cycle.
	Converged(n int, prev, cur *Cycle) bool
}

// Accuracy stops once classifier accuracy over the training samples is within the
// stop margin of MinAccuracy. The margin is Slack/len(samples) percentage points.
type Accuracy struct {
	MinAccuracy float64
	Slack       float64
}

// NewAccuracy returns the accuracy policy with a margin of one hundredth of a
// sample's share of the percentage.
func NewAccuracy(minAccuracy float64) *Accuracy {
	return &Accuracy{MinAccuracy: minAccuracy, Slack: 1.0}
}

func (a *Accuracy) Name() string {
	return "accuracy"
}

func (a *Accuracy) Learns() bool {
	return true
}

func (a *Accuracy) Converged(n int, prev, cur *Cycle) bool {
	var accuracy float64
	if cur != nil {
		accuracy = cur.Accuracy
	}
	return !(a.MinAccuracy-accuracy > a.Slack/float64(n))
}

// StabilityMode selects how Stability compares consecutive cycles
type StabilityMode byte

const (
	// Exact requires the per-sample id list to repeat exactly
	Exact StabilityMode = iota

	// PPM allows at most one flipped bit per million across all activations
	PPM
)

func (m StabilityMode) String() string {
	switch m {
	case Exact:
		return "exact"
	case PPM:
		return "ppm"
	default:
		return "unknown"
	}
}

// Stability stops once a cycle has no collisions, two samples with different
// categories sharing an id, and its codes match the previous cycle's under Mode.
// It never involves a classifier.
type Stability struct {
	Mode StabilityMode
}

func (s *Stability) Name() string {
	return "stability/" + s.Mode.String()
}

func (s *Stability) Learns() bool {
	return false
}

func (s *Stability) Converged(n int, prev, cur *Cycle) bool {
	if cur == nil || prev == nil || cur.Collisions != 0 {
		return false
	}
	switch s.Mode {
	case PPM:
		return cur.FlippedPPM <= 1
	default:
		return sameIDs(prev.IDs, cur.IDs)
	}
}

func sameIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
