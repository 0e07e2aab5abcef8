package character

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// MutateFunc inspects the current record and returns the change to apply
type MutateFunc func(c *domain.Character) (domain.Delta, error)

// Service is the character record store
type Service interface {
	Create(ctx context.Context, name string, charType domain.CharacterType) (*domain.Character, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Character, error)
	// ApplyDelta writes d when the record is still at expectedVersion,
	// otherwise it returns domain.ErrConflict.
	ApplyDelta(ctx context.Context, id uuid.UUID, d domain.Delta, expectedVersion int64) (*domain.Character, error)
	// Mutate re-reads the record and re-runs fn on every conflict, up to the
	// configured attempts, then fails with domain.ErrTransient.
	Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (*domain.Character, error)
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, id uuid.UUID, limit int) (*domain.History, error)
	// Regenerate restores pools for every character and returns how many changed
	Regenerate(ctx context.Context) (int, error)
}

// Regen is the amount each pool recovers per tick
type Regen struct {
	Life      int
	Energy    int
	Endurance int
	Mood      int
}

// Config holds character service settings
type Config struct {
	RetryAttempts int
	Regen         Regen
}

type service struct {
	store    repository.Store
	locks    *concurrency.LockManager
	clock    clock.Clock
	bus      event.Bus
	validate *validator.Validate
	config   Config
}

// NewService creates a new character service
func NewService(store repository.Store, locks *concurrency.LockManager, clk clock.Clock, bus event.Bus, config Config) Service {
	if bus == nil {
		bus = event.Discard{}
	}
	return &service{
		store:    store,
		locks:    locks,
		clock:    clk,
		bus:      bus,
		validate: validator.New(),
		config:   config,
	}
}

func (s *service) Create(ctx context.Context, name string, charType domain.CharacterType) (*domain.Character, error) {
	name = strings.TrimSpace(name)
	if err := s.validate.Var(name, nameRules); err != nil {
		return nil, fmt.Errorf(ErrMsgInvalidName, domain.ErrInvalidInput, NameMinLength, NameMaxLength)
	}
	switch charType {
	case "":
		charType = domain.CharacterCriminal
	case domain.CharacterCriminal, domain.CharacterPolice:
	default:
		return nil, fmt.Errorf(ErrMsgInvalidType, domain.ErrInvalidInput, charType)
	}

	now := s.clock.Now()
	c := domain.NewCharacter(name, charType, now)
	err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
		return tx.InsertCharacter(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreateFailed, err)
	}

	logger.ForCharacter(ctx, c.ID).Info(LogMsgCharacterCreated, "name", c.Name, "type", c.Type)
	_ = s.bus.Publish(ctx, event.New(event.CharacterCreated, event.CharacterPayloadV1{
		CharacterID: c.ID.String(),
		Name:        c.Name,
		Location:    c.Location,
	}, now))
	return c, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	var c *domain.Character
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		var err error
		c, err = tx.GetCharacter(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetFailed, err)
	}
	return c, nil
}

func (s *service) ApplyDelta(ctx context.Context, id uuid.UUID, d domain.Delta, expectedVersion int64) (*domain.Character, error) {
	var next *domain.Character
	err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
		var err error
		next, err = repository.ApplyDelta(ctx, tx, id, d, expectedVersion, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgMutateFailed, err)
	}
	return next, nil
}

func (s *service) Mutate(ctx context.Context, id uuid.UUID, fn MutateFunc) (*domain.Character, error) {
	unlock := s.locks.LockCharacters(id)
	defer unlock()

	next, err := concurrency.RetryOnConflict(ctx, s.config.RetryAttempts, func(ctx context.Context) (*domain.Character, error) {
		var out *domain.Character
		err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
			current, err := tx.GetCharacter(ctx, id)
			if err != nil {
				return err
			}
			d, err := fn(current.Clone())
			if err != nil {
				return err
			}
			if d.IsZero() {
				out = current
				return nil
			}
			out, err = repository.ApplyDelta(ctx, tx, id, d, current.Version, s.clock.Now())
			return err
		})
		return out, err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgMutateFailed, err)
	}
	return next, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var refunds []domain.Bounty
	var released []domain.StockPosition
	_, err := concurrency.RetryOnConflict(ctx, s.config.RetryAttempts, func(ctx context.Context) (struct{}, error) {
		var err error
		refunds, released, err = s.deleteOnce(ctx, id)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf(ErrMsgDeleteFailed, err)
	}

	log := logger.ForCharacter(ctx, id)
	now := s.clock.Now()
	for _, b := range refunds {
		log.Info(LogMsgBountyRefunded, "bounty_id", b.ID, "placer_id", b.PlacerID, "refund", b.Amount.StringFixed(domain.MoneyScale))
		_ = s.bus.Publish(ctx, event.New(event.BountyCancelled, event.BountyPayloadV1{
			BountyID: b.ID.String(),
			PlacerID: b.PlacerID.String(),
			TargetID: b.TargetID.String(),
			Amount:   b.Amount,
		}, now))
	}
	for _, p := range released {
		log.Info(LogMsgSharesReleased, "symbol", p.Symbol, "shares", p.Shares)
	}
	log.Info(LogMsgCharacterDeleted)
	return nil
}

// removal is what a delete has to settle before the cascade runs
type removal struct {
	bounties  []domain.Bounty
	positions []domain.StockPosition
}

func loadRemoval(ctx context.Context, tx repository.Tx, id uuid.UUID) (removal, error) {
	var r removal
	var err error
	if r.bounties, err = tx.ListActiveBounties(ctx, id); err != nil {
		return r, err
	}
	instruments, err := tx.ListInstruments(ctx)
	if err != nil {
		return r, err
	}
	for _, inst := range instruments {
		pos, err := tx.GetPosition(ctx, id, inst.Symbol)
		if err != nil {
			return r, err
		}
		if pos != nil && pos.Shares > 0 {
			r.positions = append(r.positions, *pos)
		}
	}
	slices.SortFunc(r.positions, func(a, b domain.StockPosition) int { return strings.Compare(a.Symbol, b.Symbol) })
	return r, nil
}

func (r removal) placers() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.bounties))
	for _, b := range r.bounties {
		ids = append(ids, b.PlacerID)
	}
	return ids
}

func (r removal) symbols() []string {
	out := make([]string, 0, len(r.positions))
	for _, p := range r.positions {
		out = append(out, p.Symbol)
	}
	return out
}

// within reports whether every placer and symbol of r is also in locked
func (r removal) within(locked removal) bool {
	placers, symbols := locked.placers(), locked.symbols()
	for _, id := range r.placers() {
		if !slices.Contains(placers, id) {
			return false
		}
	}
	for _, sym := range r.symbols() {
		if !slices.Contains(symbols, sym) {
			return false
		}
	}
	return true
}

// deleteOnce refunds the escrow of every active bounty on the character to
// its placer and returns held shares to their instruments, then cascades.
// The placers and symbols are locked up front; one that appears after the
// locks were taken turns into ErrConflict and a fresh attempt.
func (s *service) deleteOnce(ctx context.Context, id uuid.UUID) ([]domain.Bounty, []domain.StockPosition, error) {
	var planned removal
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		var err error
		planned, err = loadRemoval(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.LockCharacters(append(planned.placers(), id)...)
	defer unlock()
	unlockInstruments := s.locks.LockInstruments(planned.symbols()...)
	defer unlockInstruments()

	var settled removal
	err = repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
		// the target row is locked before its bounties are re-read, so a
		// concurrent claim either lands first or waits for the cascade
		chars, err := repository.GetCharacters(ctx, tx, append(planned.placers(), id)...)
		if err != nil {
			return err
		}
		current, err := loadRemoval(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.within(planned) {
			return fmt.Errorf("%w: %s", domain.ErrConflict, ErrMsgRemovalChanged)
		}

		now := s.clock.Now()
		refund := make(map[uuid.UUID]decimal.Decimal)
		for _, b := range current.bounties {
			refund[b.PlacerID] = refund[b.PlacerID].Add(b.Amount)
		}
		for _, placerID := range repository.SortedIDs(current.placers()...) {
			d := domain.Delta{Money: refund[placerID]}
			if _, err := repository.ApplyDelta(ctx, tx, placerID, d, chars[placerID].Version, now); err != nil {
				return err
			}
		}
		for _, b := range current.bounties {
			cancelledAt := now
			b.Active = false
			b.CancelledAt = &cancelledAt
			if err := tx.UpdateBounty(ctx, &b); err != nil {
				return err
			}
		}

		for _, p := range current.positions {
			inst, err := tx.GetInstrument(ctx, p.Symbol)
			if err != nil {
				return err
			}
			expected := inst.Version
			inst.AvailableShares += p.Shares
			inst.Version = expected + 1
			if err := tx.SaveInstrument(ctx, inst, expected); err != nil {
				return err
			}
		}

		settled = current
		return tx.DeleteCharacter(ctx, id)
	})
	if err != nil {
		return nil, nil, err
	}
	return settled.bounties, settled.positions, nil
}

func (s *service) History(ctx context.Context, id uuid.UUID, limit int) (*domain.History, error) {
	if limit <= 0 {
		limit = repository.DefaultHistoryLimit
	}
	var h *domain.History
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, id); err != nil {
			return err
		}
		var err error
		h, err = tx.GetHistory(ctx, id, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgHistoryFailed, err)
	}
	return h, nil
}

func (s *service) Regenerate(ctx context.Context) (int, error) {
	var ids []uuid.UUID
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		var err error
		ids, err = tx.ListCharacterIDs(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf(ErrMsgListFailed, err)
	}

	log := logger.FromContext(ctx)
	changed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		updated := false
		_, err := s.Mutate(ctx, id, func(c *domain.Character) (domain.Delta, error) {
			d := s.regenDelta(c)
			updated = !d.IsZero()
			return d, nil
		})
		if err != nil {
			// deleted mid-tick
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			logger.ForCharacter(ctx, id).Warn(LogMsgRegenerateFailed, "error", err)
			continue
		}
		if updated {
			changed++
		}
	}

	log.Debug(LogMsgRegenerated, "characters", len(ids), "changed", changed)
	return changed, nil
}

// regenDelta restores each pool that is below its maximum
func (s *service) regenDelta(c *domain.Character) domain.Delta {
	gain := func(p domain.Pool, amount int) int {
		if amount <= 0 || p.Current >= p.Max {
			return 0
		}
		return min(amount, p.Max-p.Current)
	}
	return domain.Delta{
		Life:      gain(c.Life, s.config.Regen.Life),
		Energy:    gain(c.Energy, s.config.Regen.Energy),
		Endurance: gain(c.Endurance, s.config.Regen.Endurance),
		Mood:      gain(c.Mood, s.config.Regen.Mood),
	}
}
