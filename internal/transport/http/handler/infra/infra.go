package infra

import "time"

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	StartTime time.Time

	// Configured reports whether the upstream credential is present.
	Configured func() bool
}

// New creates a new instance of infrastructure handlers.
func New(startTime time.Time, configured func() bool) *Handlers {
	return &Handlers{
		StartTime:  startTime,
		Configured: configured,
	}
}
