package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	// LogMsgWorkerJobFailed is logged when a worker fails to process a job
	LogMsgWorkerJobFailed = "Worker job failed"
	// LogMsgQueueFull is logged when TryEnqueue drops a job
	LogMsgQueueFull = "Worker queue full, job dropped"
)

// Log messages for batch jobs
const (
	LogMsgBatchJobCompleted = "Batch job completed"
	LogMsgBatchJobFailed    = "Batch job failed"
)

// ============================================================================
// Log Messages - Release Worker
// ============================================================================

const (
	LogMsgFailedToResumeReleases = "Failed to load held characters on startup"
	LogMsgSchedulingRelease      = "Scheduling character release"
	LogMsgReleasingCharacter     = "Releasing character"
	LogMsgFailedToRelease        = "Failed to release character"
	LogMsgInvalidCharacterID     = "Event carries an invalid character id"
)

// releaseWorkerName labels release worker shutdown logs
const releaseWorkerName = "release worker"
