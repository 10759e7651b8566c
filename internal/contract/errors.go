package contract

import "errors"

// Failure taxonomy for the report pipeline. Callers classify errors
// with errors.Is; stages attach detail with fmt.Errorf and %w.
var (
	// ErrDataUnavailable means a provider returned nothing. Scoring
	// downgrades to a documented default and the run continues.
	ErrDataUnavailable = errors.New("provider data unavailable")

	// ErrProviderTimeout means a collector call exceeded its time
	// bound. It fails the current job and nothing else.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrValidation means a measurement was malformed. The job fails
	// and the message is reported verbatim to the caller.
	ErrValidation = errors.New("invalid measurement")

	// ErrSchedulerOverload means the pending queue is at capacity.
	// Callers should back off and retry later.
	ErrSchedulerOverload = errors.New("scheduler overloaded")

	// ErrUnsupportedFormat means an export was requested in a format
	// this build does not produce. Surfaced immediately; no job is
	// involved.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrNotFound means a report, job or history series does not exist.
	ErrNotFound = errors.New("not found")
)
