package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeSerializationFailure is raised when concurrent transactions cannot be serialized
	PgErrorCodeSerializationFailure = "40001"
	// PgErrorCodeDeadlockDetected is raised when PostgreSQL aborts one side of a deadlock
	PgErrorCodeDeadlockDetected = "40P01"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Character Operations
const (
	ErrMsgFailedToGetCharacter    = "failed to get character"
	ErrMsgFailedToInsertCharacter = "failed to insert character"
	ErrMsgFailedToSaveCharacter   = "failed to save character"
	ErrMsgFailedToDeleteCharacter = "failed to delete character"
	ErrMsgFailedToListCharacters  = "failed to list characters"
	ErrMsgNameTaken               = "name %q is taken"
	ErrMsgVersionMismatch         = "%s %s at version %d, expected %d"
)

// Error Messages - Record Operations
const (
	ErrMsgFailedToGetCooldown     = "failed to get cooldown"
	ErrMsgFailedToSetCooldown     = "failed to set cooldown"
	ErrMsgFailedToInsertHistory   = "failed to insert history row"
	ErrMsgFailedToGetHistory      = "failed to get history"
	ErrMsgFailedToCountActivity   = "failed to count activity"
	ErrMsgFailedToInsertBounty    = "failed to insert bounty"
	ErrMsgFailedToGetBounty       = "failed to get bounty"
	ErrMsgFailedToUpdateBounty    = "failed to update bounty"
	ErrMsgFailedToListBounties    = "failed to list bounties"
	ErrMsgFailedToGetInstrument   = "failed to get instrument"
	ErrMsgFailedToSaveInstrument  = "failed to save instrument"
	ErrMsgFailedToListInstruments = "failed to list instruments"
	ErrMsgFailedToGetPosition     = "failed to get position"
	ErrMsgFailedToSavePosition    = "failed to save position"
	ErrMsgFailedToListPositions   = "failed to list positions"
	ErrMsgFailedToGetInventory    = "failed to get inventory"
	ErrMsgFailedToSaveInventory   = "failed to save inventory item"
	ErrMsgFailedToInsertProperty  = "failed to insert owned property"
	ErrMsgFailedToListProperties  = "failed to list owned properties"
	ErrMsgFailedToMarkIncome      = "failed to mark property income"
	ErrMsgFailedToSaveAchievement = "failed to save earned achievement"
	ErrMsgFailedToListAchievement = "failed to list earned achievements"
)

// Log Messages
const (
	LogMsgRollbackFailed = "Failed to rollback transaction"
)
