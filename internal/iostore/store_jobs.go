package iostore

import (
	"context"
	"fmt"
	"sync"

	"github.com/sitepulse/sitepulse/internal/contract"
	"github.com/sitepulse/sitepulse/schema"
)

// MemoryJobStore tracks report jobs in memory. Jobs are scoped to one
// process run; a restart forgets them, which is fine because any job
// that completed left its report in the SQL store.
type MemoryJobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*schema.Job
	order []string // job IDs in creation order
}

var _ contract.JobStore = &MemoryJobStore{} // Compile-time check

// NewMemoryJobStore creates an empty job store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{
		jobs: make(map[string]*schema.Job),
	}
}

// CreateJob stores a new job.
func (s *MemoryJobStore) CreateJob(_ context.Context, job *schema.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists: %w", job.ID, contract.ErrValidation)
	}

	stored := *job
	s.jobs[job.ID] = &stored
	s.order = append(s.order, job.ID)
	return nil
}

// GetJob returns a snapshot of the job.
func (s *MemoryJobStore) GetJob(_ context.Context, id string) (*schema.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, contract.ErrNotFound)
	}

	snapshot := *job
	return &snapshot, nil
}

// UpdateJob applies a mutation to the stored job under the store lock.
// A status change that schema.CanTransition rejects rolls the whole
// mutation back, so terminal jobs can never be revived.
func (s *MemoryJobStore) UpdateJob(_ context.Context, id string, mutate func(*schema.Job) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: %w", id, contract.ErrNotFound)
	}

	next := *job
	if err := mutate(&next); err != nil {
		return err
	}
	if next.Status != job.Status && !schema.CanTransition(job.Status, next.Status) {
		return fmt.Errorf("job %s cannot move from %s to %s: %w", id, job.Status, next.Status, contract.ErrValidation)
	}

	// Identity fields never change after creation
	next.ID, next.URL, next.Period, next.CreatedAt = job.ID, job.URL, job.Period, job.CreatedAt
	*job = next
	return nil
}

// FindActiveJob returns the pending or processing job for a
// (url, period) key.
func (s *MemoryJobStore) FindActiveJob(_ context.Context, url, period string) (*schema.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.order) - 1; i >= 0; i-- {
		job := s.jobs[s.order[i]]
		if job.URL == url && job.Period == period && !job.Status.IsTerminal() {
			snapshot := *job
			return &snapshot, nil
		}
	}

	return nil, fmt.Errorf("no active job for %s in %s: %w", url, period, contract.ErrNotFound)
}

// ListJobs returns snapshots of all known jobs, newest first.
func (s *MemoryJobStore) ListJobs(_ context.Context) ([]schema.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]schema.Job, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		jobs = append(jobs, *s.jobs[s.order[i]])
	}
	return jobs, nil
}

// CountActive returns how many jobs are pending or processing.
func (s *MemoryJobStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, job := range s.jobs {
		if !job.Status.IsTerminal() {
			count++
		}
	}
	return count, nil
}
