package schema

import "time"

// Job tracks one report-generation request through its lifecycle.
// Only the scheduler mutates a Job, and only through monotonic status
// transitions; see CanTransition.
type Job struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Period      string     `json:"period"` // YYYY-MM key
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"` // 0-100
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
	ReportID    string     `json:"reportId,omitempty"`
}

// Key returns the de-duplication key for the job. At most one
// non-terminal job exists per key at any time.
func (j *Job) Key() string {
	return j.URL + "|" + j.Period
}

// jobTransitions enumerates every legal status transition. Anything
// absent here is rejected, which makes terminal states final.
var jobTransitions = map[JobStatus][]JobStatus{
	PendingStatus:    {ProcessingStatus, FailedStatus, CancelledStatus},
	ProcessingStatus: {CompletedStatus, FailedStatus, CancelledStatus},
}

// CanTransition reports whether a job may move from one status to
// another. Transitions never revisit an earlier status.
func CanTransition(from, to JobStatus) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ScheduleEntry records a recurring report registration. Execution of
// the schedule is outside this system; the entry only persists the
// request.
type ScheduleEntry struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Cadence    string    `json:"cadence"` // daily, weekly or monthly
	Recipients []string  `json:"recipients"`
	CreatedAt  time.Time `json:"createdAt"`
}
