package run

import (
	"sort"
	"sync"
	"sync/atomic"
)

// state tracks one run's mutable progress. The completed counter is atomic
// because every worker bumps it; the pending set and failure list share one
// mutex since they only change once per job resolution.
type state struct {
	total     int
	completed atomic.Int64

	mu       sync.Mutex
	pending  map[string]Job
	failures []Failure
}

// newState builds progress tracking for the job set. prior counts jobs an
// earlier interrupted run already retired; they join the total and seed the
// completed counter so a resumed run reports against the original set.
func newState(jobs []Job, prior int) *state {
	pending := make(map[string]Job, len(jobs))
	for _, job := range jobs {
		pending[job.Source] = job
	}
	st := &state{total: len(pending) + prior, pending: pending}
	st.completed.Store(int64(prior))
	return st
}

// markDone removes the job from the pending set and bumps the completed
// counter. Used for successes and for failures alike: "completed" means no
// longer pending, not necessarily converted.
func (s *state) markDone(job Job) int {
	s.mu.Lock()
	delete(s.pending, job.Source)
	s.mu.Unlock()
	return int(s.completed.Add(1))
}

func (s *state) markFailed(job Job, message string) int {
	s.mu.Lock()
	delete(s.pending, job.Source)
	s.failures = append(s.failures, Failure{Path: job.Source, Message: message})
	s.mu.Unlock()
	return int(s.completed.Add(1))
}

func (s *state) completedCount() int {
	return int(s.completed.Load())
}

// remaining returns the pending jobs sorted by relative path.
func (s *state) remaining() []Job {
	s.mu.Lock()
	jobs := make([]Job, 0, len(s.pending))
	for _, job := range s.pending {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Rel < jobs[j].Rel })
	return jobs
}

func (s *state) failureList() []Failure {
	s.mu.Lock()
	out := make([]Failure, len(s.failures))
	copy(out, s.failures)
	s.mu.Unlock()
	return out
}
