package change

import "sync"

// Outcome pairs a result with its derived summary, the unit a renderer
// consumes.
type Outcome struct {
	Result  Result  `json:"result"`
	Summary Summary `json:"summary"`
}

// Tracker keeps the current outcome consistent across overlapping runs.
// Each run takes a generation from Begin; Complete and Fail are discarded
// for any generation but the newest, so a superseded request that resolves
// late cannot clobber a newer result.
type Tracker struct {
	mu     sync.Mutex
	gen    uint64
	latest *Outcome
}

// Begin registers a new run and returns its generation.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	return t.gen
}

// Complete installs the outcome if gen is still the newest generation.
// Returns false when the run was superseded.
func (t *Tracker) Complete(gen uint64, o *Outcome) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return false
	}
	t.latest = o
	return true
}

// Fail clears the current outcome if gen is still the newest generation, so
// the caller observes either a complete new result or none.
func (t *Tracker) Fail(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return false
	}
	t.latest = nil
	return true
}

// Latest returns a copy of the current outcome, if any.
func (t *Tracker) Latest() (*Outcome, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == nil {
		return nil, false
	}
	o := *t.latest
	return &o, true
}
