package eventlog

// Payload keys that identify the acting character, in lookup order
var characterKeys = []string{"character_id", "attacker_id", "placer_id"}

// DefaultLimit caps journal queries that do not set a limit
const DefaultLimit = 100

// Log messages - service events
const (
	LogMsgFailedToDecodePayload = "Event payload could not be journaled"
	LogMsgFailedToLogEvent      = "Failed to append event to journal"
	LogMsgEventLogged           = "Event appended to journal"
	LogMsgJournalOpened         = "Activity journal opened"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting journal cleanup job"
	LogMsgCleanupJobFailed    = "Journal cleanup failed"
	LogMsgCleanupJobCompleted = "Journal cleanup completed"
)

// Error messages
const (
	ErrMsgOpenJournal    = "open journal: %w"
	ErrMsgMigrateJournal = "migrate journal: %w"
	ErrMsgAppendEntry    = "append journal entry: %w"
	ErrMsgQueryEntries   = "query journal: %w"
	ErrMsgDeleteEntries  = "delete journal entries: %w"
)

// Log field keys - structured logging fields
const (
	LogFieldType         = "type"
	LogFieldCharacterID  = "character_id"
	LogFieldError        = "error"
	LogFieldRetention    = "retention"
	LogFieldDuration     = "duration"
	LogFieldDeletedCount = "deleted_count"
)
