package bootstrap

import "time"

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// Logger file rotation
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"

	// LogFileRetentionCount is how many session logs survive startup cleanup, the new one included
	LogFileRetentionCount = 10
)

// Event system fallbacks when the config leaves a field zero
const (
	EventDefaultMaxRetries     = 5
	EventDefaultRetryDelay     = 2 * time.Second
	EventDefaultDeadLetterPath = "data/deadletter.jsonl"
)

// Names of the scheduled jobs. The admin job route accepts the same names.
const (
	JobPropertyIncome = "property_income"
	JobDividends      = "dividends"
	JobRegeneration   = "regeneration"
	JobJournalCleanup = "journal_cleanup"
)

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting Underworld"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"

	LogMsgStoreOpened       = "Store opened"
	LogMsgCatalogLoaded     = "Catalog loaded"
	LogMsgInstrumentsSeeded = "Stock instruments seeded"
	LogMsgJournalOpened     = "Event journal opened"

	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event journal subscribed"
	LogMsgReleaseWorkerSubscribed    = "Release worker subscribed"
)

const (
	ErrMsgFailedCreateLogsDir            = "failed to create logs directory"
	ErrMsgFailedOpenLogFile              = "failed to open log file"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
	ErrMsgFailedSubscribeEventLogger     = "failed to subscribe event journal"
	ErrMsgFailedConnectDatabase          = "failed to connect to database"
	ErrMsgFailedMigrate                  = "failed to apply migrations"
	ErrMsgFailedLoadCatalog              = "failed to load catalog"
	ErrMsgFailedSeedInstruments          = "failed to seed stock instruments"
	ErrMsgFailedCreateJournalDir         = "failed to create journal directory"
	ErrMsgFailedOpenJournal              = "failed to open event journal"
	ErrMsgFailedScheduleJob              = "failed to schedule job"
)

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgComponentShutdownFailed    = "Component shutdown failed"
)
