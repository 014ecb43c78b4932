package trainer

import "github.com/google/uuid"

// Session is the record of one Train call
type Session struct {
	ID           uuid.UUID
	Policy       string
	Cycles       int       // cycles completed
	Accuracy     float64   // accuracy of the last cycle
	IDs          []int     // per-sample ids of the last cycle
	Converged    bool      // false when the cycle budget ran out first
	History      []Summary // one entry per completed cycle
	Oscillations [][2]int  // pairs of (earlier, later) cycles with identical codes
}

func newSession(policy Policy) *Session {
	return &Session{ID: uuid.New(), Policy: policy.Name()}
}

// Last returns the summary of the last completed cycle
func (s *Session) Last() (Summary, bool) {
	if len(s.History) == 0 {
		return Summary{}, false
	}
	return s.History[len(s.History)-1], true
}
