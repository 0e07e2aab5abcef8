package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidCharacterID    = "Invalid character id"
	ErrMsgInvalidBountyID       = "Invalid bounty id"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgInvalidAmount         = "Invalid amount"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
)

// User-facing messages derived from the domain error taxonomy
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgNotFoundError       = "Not found"
	ErrMsgCharacterNotFound   = "Character not found"
	ErrMsgIneligibleError     = "Requirements not met"
	ErrMsgUnavailableError    = "Character is jailed or hospitalized"
	ErrMsgOnCooldownError     = "Action is on cooldown. Try again later"
	ErrMsgInsufficientError   = "Not enough resources"
	ErrMsgConflictError       = "Record changed, reload and try again"
	ErrMsgTransientError      = "Temporarily unavailable. Please try again later"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
	ErrMsgDependencyDownError = "database connection failed"
)

// Log messages
const (
	LogMsgDecodeFailed    = "Failed to decode request"
	LogMsgRequestDecoded  = "Request decoded"
	LogMsgServiceFailed   = "Service call failed"
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
)
