package cooldown

import "time"

// =============================================================================
// Duration Constants
// =============================================================================

const (
	// DefaultTravelCooldown applies when a location has no travel time configured
	DefaultTravelCooldown = 5 * time.Minute
)

// =============================================================================
// Error Message Constants
// =============================================================================

const (
	// ErrMsgCheckAvailableFailed is returned when reading availability fails
	ErrMsgCheckAvailableFailed = "failed to check availability: %w"

	// ErrMsgSetUnavailableFailed is returned when placing a status window fails
	ErrMsgSetUnavailableFailed = "failed to set unavailable: %w"

	// ErrMsgCheckCooldownFailed is returned when checking cooldown state fails
	ErrMsgCheckCooldownFailed = "failed to check cooldown: %w"

	// ErrMsgUpdateCooldownFailed is returned when updating cooldown timestamp fails
	ErrMsgUpdateCooldownFailed = "failed to update cooldown: %w"

	// ErrMsgResetCooldownFailed is returned when manual cooldown reset fails
	ErrMsgResetCooldownFailed = "failed to reset cooldown: %w"

	// ErrMsgInvalidStatus is returned for a status that is not an unavailable state
	ErrMsgInvalidStatus = "%w: %q is not an unavailable status"

	// ErrMsgInvalidDuration is returned for non-positive windows
	ErrMsgInvalidDuration = "%w: duration must be positive"
)

// =============================================================================
// Log Message Constants
// =============================================================================

const (
	// LogMsgDevModeBypass is logged when dev mode bypasses cooldown enforcement
	LogMsgDevModeBypass = "DEV_MODE: Bypassing cooldown enforcement"

	// LogMsgCharacterReleased is logged when lazy expiry clears a status window
	LogMsgCharacterReleased = "Status window expired, character released"

	// LogMsgStatusApplied is logged when a character becomes unavailable
	LogMsgStatusApplied = "Character became unavailable"

	// LogMsgCooldownSet is logged when a cooldown is stored
	LogMsgCooldownSet = "Cooldown set"
)

// =============================================================================
// Error Message Format Strings (for ErrOnCooldown.Error())
// =============================================================================

const (
	// ErrFmtCooldownWithMinutes formats cooldown error with minutes and seconds
	ErrFmtCooldownWithMinutes = "You can %s again in %dm %ds"

	// ErrFmtCooldownSecondsOnly formats cooldown error with seconds only
	ErrFmtCooldownSecondsOnly = "You can %s again in %ds"
)

// =============================================================================
// Time Conversion Constants
// =============================================================================

const (
	// SecondsPerMinute is used for time duration calculations
	SecondsPerMinute = 60
)
