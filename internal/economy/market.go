package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// TradeResult describes an executed trade
type TradeResult struct {
	Symbol string          `json:"symbol"`
	Side   Side            `json:"side"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Total  decimal.Decimal `json:"total"`
	// NewPrice is the instrument price after this trade's impact
	NewPrice decimal.Decimal `json:"new_price"`
	// Position is nil once every share has been sold
	Position *domain.StockPosition `json:"position,omitempty"`
	Money    decimal.Decimal       `json:"money"`
}

// SeedInstruments creates an instrument for every listed stock that has none yet
func (s *service) SeedInstruments(ctx context.Context) error {
	listings := s.catalog.Stocks()
	now := s.clock.Now()
	err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
		for _, l := range listings {
			inst := &domain.StockInstrument{
				Symbol:           l.Symbol,
				Name:             l.Name,
				CurrentPrice:     l.InitialPrice,
				PreviousPrice:    l.InitialPrice,
				TotalShares:      l.TotalShares,
				AvailableShares:  l.TotalShares,
				DividendPercent:  l.DividendPercent,
				DividendInterval: time.Duration(l.DividendInterval) * time.Hour,
				NextDividendAt:   now.Add(time.Duration(l.DividendInterval) * time.Hour),
				Version:          1,
			}
			if err := tx.InsertInstrument(ctx, inst); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf(ErrMsgSeedFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgInstrumentSeeded, "count", len(listings))
	return nil
}

func (s *service) Instruments(ctx context.Context) ([]domain.StockInstrument, error) {
	var out []domain.StockInstrument
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		var err error
		out, err = tx.ListInstruments(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListInstrumentsFail, err)
	}
	return out, nil
}

func (s *service) Portfolio(ctx context.Context, characterID uuid.UUID) ([]domain.StockPosition, error) {
	var out []domain.StockPosition
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, characterID); err != nil {
			return err
		}
		instruments, err := tx.ListInstruments(ctx)
		if err != nil {
			return err
		}
		for _, inst := range instruments {
			pos, err := tx.GetPosition(ctx, characterID, inst.Symbol)
			if err != nil {
				return err
			}
			if pos != nil {
				out = append(out, *pos)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgPortfolioFailed, err)
	}
	return out, nil
}

// TradeStock buys or sells shares at the current price, then moves the
// price by the trade's impact. The instrument lock is held from reading the
// price to writing the new one.
func (s *service) TradeStock(ctx context.Context, characterID uuid.UUID, symbol string, shares int64, side Side) (result *TradeResult, err error) {
	if err := validateShares(shares); err != nil {
		return nil, err
	}
	if err := validateSide(side); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "economy.TradeStock", trace.WithAttributes(
		attribute.String("character.id", characterID.String()),
		attribute.String("stock.symbol", symbol),
		attribute.String("stock.side", string(side)),
		attribute.Int64("stock.shares", shares),
	))
	defer func() { endSpan(span, err) }()

	unlockCharacter := s.locks.LockCharacters(characterID)
	defer unlockCharacter()
	unlockInstrument := s.locks.LockInstrument(symbol)
	defer unlockInstrument()

	err = s.retryTx(ctx, func(tx repository.Tx, now time.Time) error {
		var err error
		result, err = executeTrade(ctx, tx, characterID, symbol, shares, side, s.config.PriceImpact, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTradeFailed, symbol, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgStockTraded,
		"symbol", symbol, "side", side, "shares", shares,
		"price", result.Price.StringFixed(domain.MoneyScale), "new_price", result.NewPrice.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.StockTraded, event.TradePayloadV1{
		CharacterID: characterID.String(),
		Symbol:      symbol,
		Side:        string(side),
		Shares:      shares,
		Price:       result.Price,
		NewPrice:    result.NewPrice,
		Amount:      result.Total,
	})
	return result, nil
}

func executeTrade(ctx context.Context, tx repository.Tx, characterID uuid.UUID, symbol string, shares int64, side Side, impact float64, now time.Time) (*TradeResult, error) {
	c, err := tx.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	inst, err := tx.GetInstrument(ctx, symbol)
	if err != nil {
		return nil, err
	}
	pos, err := tx.GetPosition(ctx, characterID, symbol)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		pos = &domain.StockPosition{CharacterID: characterID, Symbol: symbol, PurchasedAt: now}
	}

	price := inst.CurrentPrice
	total := TradeValue(price, shares)
	next := *pos

	var d domain.Delta
	switch side {
	case SideBuy:
		if inst.AvailableShares < shares {
			return nil, domain.InsufficientError{
				Resource: domain.ResourceShares,
				Need:     decimal.NewFromInt(shares),
				Have:     decimal.NewFromInt(inst.AvailableShares),
			}
		}
		d.Money = total.Neg()
		next.AveragePrice = AveragePrice(pos.Shares, pos.AveragePrice, shares, price)
		next.Shares = pos.Shares + shares
		inst.AvailableShares -= shares
	case SideSell:
		if pos.Shares < shares {
			return nil, domain.InsufficientError{
				Resource: domain.ResourceShares,
				Need:     decimal.NewFromInt(shares),
				Have:     decimal.NewFromInt(pos.Shares),
			}
		}
		d.Money = total
		next.Shares = pos.Shares - shares
		inst.AvailableShares += shares
	}

	updated, err := repository.ApplyDelta(ctx, tx, characterID, d, c.Version, now)
	if err != nil {
		return nil, err
	}

	expected := inst.Version
	inst.PreviousPrice = price
	inst.CurrentPrice = ImpactPrice(price, shares, inst.TotalShares, impact, side)
	inst.Version = expected + 1
	if err := tx.SaveInstrument(ctx, inst, expected); err != nil {
		return nil, err
	}
	if err := tx.SavePosition(ctx, next); err != nil {
		return nil, err
	}

	result := &TradeResult{
		Symbol:   symbol,
		Side:     side,
		Shares:   shares,
		Price:    price,
		Total:    total,
		NewPrice: inst.CurrentPrice,
		Money:    updated.Money,
	}
	if next.Shares > 0 {
		result.Position = &next
	}
	return result, nil
}

// PayDividends pays every instrument whose dividend date has passed and
// schedules its next one. It returns the number of payments made.
func (s *service) PayDividends(ctx context.Context) (int, error) {
	instruments, err := s.Instruments(ctx)
	if err != nil {
		return 0, err
	}

	paid := 0
	for _, inst := range instruments {
		if inst.DividendInterval <= 0 || inst.DividendPercent <= 0 {
			continue
		}
		if s.clock.Now().Before(inst.NextDividendAt) {
			continue
		}
		n, holders, err := s.payInstrumentDividend(ctx, inst.Symbol)
		if err != nil {
			return paid, fmt.Errorf(ErrMsgDividendFailed, inst.Symbol, err)
		}
		paid += n
		s.reevaluate(ctx, holders...)
	}
	return paid, nil
}

func (s *service) payInstrumentDividend(ctx context.Context, symbol string) (int, []uuid.UUID, error) {
	var holders []uuid.UUID
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		positions, err := tx.ListPositions(ctx, symbol)
		for _, p := range positions {
			holders = append(holders, p.CharacterID)
		}
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	unlockCharacters := s.locks.LockCharacters(holders...)
	defer unlockCharacters()
	unlockInstrument := s.locks.LockInstrument(symbol)
	defer unlockInstrument()

	type payment struct {
		characterID uuid.UUID
		amount      decimal.Decimal
		shares      int64
		price       decimal.Decimal
	}
	var payments []payment
	err = s.retryTx(ctx, func(tx repository.Tx, now time.Time) error {
		payments = payments[:0]
		positions, err := tx.ListPositions(ctx, symbol)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(positions))
		for _, p := range positions {
			ids = append(ids, p.CharacterID)
		}
		// character rows before the instrument row, the same order trades use
		chars, err := repository.GetCharacters(ctx, tx, ids...)
		if err != nil {
			return err
		}
		inst, err := tx.GetInstrument(ctx, symbol)
		if err != nil {
			return err
		}
		if now.Before(inst.NextDividendAt) {
			return nil
		}
		for _, p := range positions {
			amount := DividendAmount(p.Shares, inst.CurrentPrice, inst.DividendPercent)
			if !amount.IsPositive() {
				continue
			}
			c := chars[p.CharacterID]
			if _, err := repository.ApplyDelta(ctx, tx, c.ID, domain.Delta{Money: amount, Earned: amount}, c.Version, now); err != nil {
				return err
			}
			payments = append(payments, payment{characterID: c.ID, amount: amount, shares: p.Shares, price: inst.CurrentPrice})
		}

		expected := inst.Version
		for !now.Before(inst.NextDividendAt) {
			inst.NextDividendAt = inst.NextDividendAt.Add(inst.DividendInterval)
		}
		inst.Version = expected + 1
		return tx.SaveInstrument(ctx, inst, expected)
	})
	if err != nil {
		return 0, nil, err
	}

	var total decimal.Decimal
	for _, p := range payments {
		total = total.Add(p.amount)
		s.publish(ctx, event.DividendPaid, event.TradePayloadV1{
			CharacterID: p.characterID.String(),
			Symbol:      symbol,
			Shares:      p.shares,
			Price:       p.price,
			Amount:      p.amount,
		})
	}
	logger.FromContext(ctx).Info(LogMsgDividendsPaid, "symbol", symbol, "payments", len(payments), "total", total.StringFixed(domain.MoneyScale))
	return len(payments), holders, nil
}
