package database

// DefaultMinConnections is the number of idle connections kept warm
const DefaultMinConnections int32 = 2

// ApplicationName tags sessions in pg_stat_activity unless the DSN sets its own
const ApplicationName = "underworld"

const paramApplicationName = "application_name"

const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
)

const (
	LogMsgConnectedToDatabase = "Connected to database"
	LogMsgMigrationApplied    = "Applied migration"
)
