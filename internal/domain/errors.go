package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgNotFound             = "not found"
	ErrMsgIneligible           = "ineligible"
	ErrMsgUnavailable          = "character unavailable"
	ErrMsgOnCooldown           = "action on cooldown"
	ErrMsgInsufficientResource = "insufficient resource"
	ErrMsgConflict             = "version conflict"
	ErrMsgTransient            = "transient failure, retry later"
	ErrMsgInvariantViolation   = "invariant violation"
	ErrMsgInvalidInput         = "invalid input"

	ErrMsgCharacterNotFound  = "character not found"
	ErrMsgInstrumentNotFound = "instrument not found"
	ErrMsgBountyNotFound     = "bounty not found"
	ErrMsgTxClosed           = "tx is closed"
)

// Error taxonomy shared by every component.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNotFound             = errors.New(ErrMsgNotFound)
	ErrIneligible           = errors.New(ErrMsgIneligible)
	ErrUnavailable          = errors.New(ErrMsgUnavailable)
	ErrOnCooldown           = errors.New(ErrMsgOnCooldown)
	ErrInsufficientResource = errors.New(ErrMsgInsufficientResource)
	ErrConflict             = errors.New(ErrMsgConflict)
	ErrTransient            = errors.New(ErrMsgTransient)
	ErrInvariantViolation   = errors.New(ErrMsgInvariantViolation)
	ErrInvalidInput         = errors.New(ErrMsgInvalidInput)

	ErrCharacterNotFound  = fmt.Errorf("%w: character", ErrNotFound)
	ErrInstrumentNotFound = fmt.Errorf("%w: instrument", ErrNotFound)
	ErrBountyNotFound     = fmt.Errorf("%w: bounty", ErrNotFound)
	ErrCatalogNotFound    = fmt.Errorf("%w: catalog entry", ErrNotFound)
)

// Resource names used by InsufficientError.
const (
	ResourceEnergy    = "energy"
	ResourceEndurance = "endurance"
	ResourceMoney     = "money"
	ResourceBank      = "bank_money"
	ResourceShares    = "shares"
	ResourceItem      = "item"
)

// UnavailableError reports why a character cannot act and until when.
type UnavailableError struct {
	Status    Status
	ReleaseAt time.Time
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s until %s", ErrMsgUnavailable, e.Status, e.ReleaseAt.UTC().Format(time.RFC3339))
}

// Is allows errors.Is(err, ErrUnavailable)
func (e UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// InsufficientError reports a missing quantity of a resource.
type InsufficientError struct {
	Resource string
	Need     decimal.Decimal
	Have     decimal.Decimal
}

func (e InsufficientError) Error() string {
	if e.Resource == ResourceMoney || e.Resource == ResourceBank {
		return fmt.Sprintf("%s: %s (need %s, have %s)", ErrMsgInsufficientResource, e.Resource, FormatMoney(e.Need), FormatMoney(e.Have))
	}
	return fmt.Sprintf("%s: %s (need %s, have %s)", ErrMsgInsufficientResource, e.Resource, e.Need.String(), e.Have.String())
}

// Is allows errors.Is(err, ErrInsufficientResource)
func (e InsufficientError) Is(target error) bool {
	return target == ErrInsufficientResource
}

// InsufficientInt builds an InsufficientError for integral resources.
func InsufficientInt(resource string, need, have int) InsufficientError {
	return InsufficientError{Resource: resource, Need: decimal.NewFromInt(int64(need)), Have: decimal.NewFromInt(int64(have))}
}

// IneligibleError names the gate that failed.
type IneligibleError struct {
	Gate   string
	Detail string
}

func (e IneligibleError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrMsgIneligible, e.Gate)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrMsgIneligible, e.Gate, e.Detail)
}

// Is allows errors.Is(err, ErrIneligible)
func (e IneligibleError) Is(target error) bool {
	return target == ErrIneligible
}
