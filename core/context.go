package core

import "context"

// Context keys for pipeline options
type contextKey string

const jobIDKey contextKey = "jobID"

// WithJobID tags a pipeline run with the scheduler job that owns it.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey, jobID)
}

// JobIDFromContext returns the owning job id, or empty for direct runs.
func JobIDFromContext(ctx context.Context) string {
	val := ctx.Value(jobIDKey)
	if val == nil {
		return "" // default: not running under a job
	}
	jobID, ok := val.(string)
	if !ok {
		return ""
	}
	return jobID
}
