// Package jobqueue provides ambient bookkeeping for in-flight print jobs,
// keyed by a generated UUID, used by the control surface and API layer to
// report status without the core owning any persistent storage.
package jobqueue

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of job lifecycle states.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Job is an in-memory record of one print request's progress.
type Job struct {
	ID        string
	Status    Status
	Error     string
	CreatedAt time.Time
}

// Queue is an in-memory, process-lifetime job registry. It holds no
// documents (spec.md's "no persistent storage" non-goal), only status.
type Queue struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// New constructs an empty Queue.
func New() *Queue {
	return &Queue{jobs: map[string]*Job{}}
}

// Create registers a new queued job and returns it.
func (q *Queue) Create() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := &Job{ID: uuid.NewString(), Status: StatusQueued, CreatedAt: time.Now()}
	q.jobs[j.ID] = j
	return j
}

// SetStatus updates a job's terminal or transient state.
func (q *Queue) SetStatus(id string, status Status, errMsg string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if j, ok := q.jobs[id]; ok {
		j.Status = status
		j.Error = errMsg
	}
}

// Get returns a snapshot of one job's state.
func (q *Queue) Get(id string) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}
