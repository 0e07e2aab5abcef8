package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delta describes one atomic change to a character record.
// Pool and money fields are signed adjustments; pointer fields are explicit sets.
type Delta struct {
	Life      int `json:"life,omitempty"`
	Energy    int `json:"energy,omitempty"`
	Endurance int `json:"endurance,omitempty"`
	Mood      int `json:"mood,omitempty"`
	MaxMood   int `json:"max_mood,omitempty"`

	Stats Stats `json:"stats,omitempty"`

	Experience      int64 `json:"experience,omitempty"`
	KnowledgePoints int   `json:"knowledge_points,omitempty"`

	Money     decimal.Decimal `json:"money,omitempty"`
	BankMoney decimal.Decimal `json:"bank_money,omitempty"`
	// Earned is added to the lifetime earnings counter
	Earned decimal.Decimal `json:"earned,omitempty"`

	// SetStatus places the character into a status window
	SetStatus *StatusWindow `json:"set_status,omitempty"`
	// ClearExpiredStatus resets an expired window to free
	ClearExpiredStatus bool    `json:"clear_expired_status,omitempty"`
	SetLocation        *string `json:"set_location,omitempty"`
}

// IsZero reports whether the delta changes nothing
func (d Delta) IsZero() bool {
	return d.Life == 0 && d.Energy == 0 && d.Endurance == 0 && d.Mood == 0 && d.MaxMood == 0 &&
		d.Stats == (Stats{}) && d.Experience == 0 && d.KnowledgePoints == 0 &&
		d.Money.IsZero() && d.BankMoney.IsZero() && d.Earned.IsZero() &&
		d.SetStatus == nil && !d.ClearExpiredStatus && d.SetLocation == nil
}

// Merge combines two deltas into one. Explicit sets in other win.
func (d Delta) Merge(other Delta) Delta {
	out := d
	out.Life += other.Life
	out.Energy += other.Energy
	out.Endurance += other.Endurance
	out.Mood += other.Mood
	out.MaxMood += other.MaxMood
	out.Stats.Strength += other.Stats.Strength
	out.Stats.Speed += other.Stats.Speed
	out.Stats.Dexterity += other.Stats.Dexterity
	out.Stats.Defense += other.Stats.Defense
	out.Experience += other.Experience
	out.KnowledgePoints += other.KnowledgePoints
	out.Money = out.Money.Add(other.Money)
	out.BankMoney = out.BankMoney.Add(other.BankMoney)
	out.Earned = out.Earned.Add(other.Earned)
	if other.SetStatus != nil {
		out.SetStatus = other.SetStatus
	}
	out.ClearExpiredStatus = out.ClearExpiredStatus || other.ClearExpiredStatus
	if other.SetLocation != nil {
		out.SetLocation = other.SetLocation
	}
	return out
}

// Apply returns a new character with the delta applied, leaving c untouched.
// The version and timestamps are left for the store to advance.
//
// Life decreases clamp at zero (damage); energy, endurance, money and bank
// decreases must be covered. Increases clamp at the pool maximum.
func (c *Character) Apply(d Delta, now time.Time) (*Character, error) {
	next := c.Clone()

	if d.Energy < 0 && next.Energy.Current+d.Energy < 0 {
		return nil, InsufficientInt(ResourceEnergy, -d.Energy, next.Energy.Current)
	}
	if d.Endurance < 0 && next.Endurance.Current+d.Endurance < 0 {
		return nil, InsufficientInt(ResourceEndurance, -d.Endurance, next.Endurance.Current)
	}
	if d.Money.IsNegative() && next.Money.Add(d.Money).IsNegative() {
		return nil, InsufficientError{Resource: ResourceMoney, Need: d.Money.Neg(), Have: next.Money}
	}
	if d.BankMoney.IsNegative() && next.BankMoney.Add(d.BankMoney).IsNegative() {
		return nil, InsufficientError{Resource: ResourceBank, Need: d.BankMoney.Neg(), Have: next.BankMoney}
	}

	next.Mood.Max += d.MaxMood
	next.Life.Current = clamp(next.Life.Current+d.Life, next.Life.Max)
	next.Energy.Current = clamp(next.Energy.Current+d.Energy, next.Energy.Max)
	next.Endurance.Current = clamp(next.Endurance.Current+d.Endurance, next.Endurance.Max)
	next.Mood.Current = clamp(next.Mood.Current+d.Mood, next.Mood.Max)

	next.Stats.Strength += d.Stats.Strength
	next.Stats.Speed += d.Stats.Speed
	next.Stats.Dexterity += d.Stats.Dexterity
	next.Stats.Defense += d.Stats.Defense

	if d.Experience != 0 {
		next.Experience += d.Experience
		if lvl := LevelForExperience(next.Experience); lvl > next.Level {
			next.Level = lvl
		}
	}
	next.KnowledgePoints += d.KnowledgePoints

	next.Money = next.Money.Add(d.Money)
	next.BankMoney = next.BankMoney.Add(d.BankMoney)
	next.LifetimeEarned = next.LifetimeEarned.Add(d.Earned)

	if d.ClearExpiredStatus && next.Status.Expired(now) {
		next.Status = StatusWindow{Status: StatusFree}
	}
	if d.SetStatus != nil {
		if err := next.placeStatus(*d.SetStatus, now); err != nil {
			return nil, err
		}
	}
	if d.SetLocation != nil {
		next.Location = *d.SetLocation
	}

	if err := next.CheckInvariants(); err != nil {
		return nil, err
	}
	return next, nil
}

// placeStatus enforces the one-active-window rule.
// A different unavailable state cannot replace an active one; the same state extends.
func (c *Character) placeStatus(w StatusWindow, now time.Time) error {
	current := c.Status.ActiveAt(now)
	if w.Status == StatusFree {
		c.Status = StatusWindow{Status: StatusFree}
		return nil
	}
	switch current {
	case StatusFree:
		c.Status = w
	case w.Status:
		if w.ReleaseAt.After(c.Status.ReleaseAt) {
			c.Status.ReleaseAt = w.ReleaseAt
		}
	default:
		return UnavailableError{Status: current, ReleaseAt: c.Status.ReleaseAt}
	}
	return nil
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
