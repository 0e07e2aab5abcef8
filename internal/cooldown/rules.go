package cooldown

import (
	"fmt"
	"time"

	"github.com/osse101/Underworld_Go/internal/domain"
)

// Availability is the effective status of a character at a point in time
type Availability struct {
	Available bool          `json:"available"`
	Status    domain.Status `json:"status"`
	ReleaseAt *time.Time    `json:"release_at,omitempty"`
}

// Err returns a domain.UnavailableError when the character cannot act
func (a Availability) Err() error {
	if a.Available {
		return nil
	}
	var release time.Time
	if a.ReleaseAt != nil {
		release = *a.ReleaseAt
	}
	return domain.UnavailableError{Status: a.Status, ReleaseAt: release}
}

// Readiness reports whether a gated action may run
type Readiness struct {
	Ready       bool          `json:"ready"`
	AvailableAt *time.Time    `json:"available_at,omitempty"`
	Remaining   time.Duration `json:"remaining"`
}

// ErrOnCooldown is returned when action is still on cooldown
type ErrOnCooldown struct {
	Action      string
	AvailableAt time.Time
	Remaining   time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % SecondsPerMinute

	if minutes > 0 {
		return fmt.Sprintf(ErrFmtCooldownWithMinutes, e.Action, minutes, seconds)
	}
	return fmt.Sprintf(ErrFmtCooldownSecondsOnly, e.Action, seconds)
}

// Is allows errors.Is() to match both ErrOnCooldown and domain.ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	if target == domain.ErrOnCooldown {
		return true
	}
	_, ok := target.(ErrOnCooldown)
	return ok
}

// Evaluate returns the availability at now. An expired window counts as free
// even before it has been cleared from the record.
func Evaluate(c *domain.Character, now time.Time) Availability {
	status := c.AvailabilityAt(now)
	if status == domain.StatusFree {
		return Availability{Available: true, Status: domain.StatusFree}
	}
	release := c.Status.ReleaseAt
	return Availability{Status: status, ReleaseAt: &release}
}

// NeedsRelease reports whether the stored window has expired but not been cleared
func NeedsRelease(c *domain.Character, now time.Time) bool {
	return c.Status.Expired(now)
}

// Remaining returns how long until the cooldown elapses (zero when ready)
func Remaining(cd *domain.Cooldown, now time.Time) time.Duration {
	if cd == nil || !now.Before(cd.NextAvailableAt) {
		return 0
	}
	return cd.NextAvailableAt.Sub(now)
}

// Ready converts a stored cooldown into a Readiness at now
func Ready(cd *domain.Cooldown, now time.Time) Readiness {
	remaining := Remaining(cd, now)
	if remaining == 0 {
		return Readiness{Ready: true}
	}
	at := cd.NextAvailableAt
	return Readiness{AvailableAt: &at, Remaining: remaining}
}

// Check returns ErrOnCooldown unless the action is ready or devMode is set
func Check(cd *domain.Cooldown, action string, now time.Time, devMode bool) error {
	if devMode {
		return nil
	}
	r := Ready(cd, now)
	if r.Ready {
		return nil
	}
	return ErrOnCooldown{Action: action, AvailableAt: *r.AvailableAt, Remaining: r.Remaining}
}

// Window builds a status window of length d starting at now
func Window(status domain.Status, now time.Time, d time.Duration) *domain.StatusWindow {
	return &domain.StatusWindow{Status: status, ReleaseAt: now.Add(d)}
}
