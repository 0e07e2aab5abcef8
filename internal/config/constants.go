package config

// Configuration file paths
const (
	ConfigPathCatalog = "configs/catalog.yaml"
	DataPathJournal   = "data/journal.db"
)

// Storage engine names
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Error message constants
const (
	ErrMsgParseEnv         = "failed to parse environment"
	ErrMsgAPIKeyRequired   = "API_KEY environment variable must be set for security"
	ErrMsgUnknownStorage   = "unknown STORAGE_ENGINE %q (expected memory or postgres)"
	ErrMsgRetryAttempts    = "RETRY_ATTEMPTS must be at least 1"
	ErrMsgStealFraction    = "BATTLE_STEAL_FRACTION must be within [0,1]"
	ErrMsgWorkerPoolConfig = "WORKER_COUNT and WORKER_QUEUE_SIZE must be positive"
)

// Startup warnings
const (
	WarnExampleAPIKey     = "API_KEY is the example value; generate one with: openssl rand -hex 32"
	WarnExampleDBPassword = "DB_PASSWORD is the example value"
	WarnDevModeInProd     = "COOLDOWN_DEV_MODE is enabled in prod; cooldowns are not enforced"
	WarnMemoryInProd      = "STORAGE_ENGINE=memory in prod; state is lost on restart"
	WarnJournalDisabled   = "JOURNAL_PATH is empty; character activity will not be recorded"
)
