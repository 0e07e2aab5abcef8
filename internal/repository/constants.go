package repository

import "errors"

// ErrTxClosed is returned by engines when a finished transaction is reused
var ErrTxClosed = errors.New("tx is closed")

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgBeginTx       = "failed to begin transaction"
	ErrMsgCommitTx      = "failed to commit transaction"
	ErrMsgCountActivity = "failed to count activity"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgRollbackFailed = "Failed to rollback transaction"
)

// DefaultHistoryLimit caps history queries when the caller passes no limit
const DefaultHistoryLimit = 10
