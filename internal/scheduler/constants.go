package scheduler

const (
	LogMsgJobScheduled = "Scheduled recurring job"
	LogMsgTickSkipped  = "Worker queue full, scheduled tick skipped"

	ErrMsgInvalidSpec = "schedule %s with spec %q: %w"
)
