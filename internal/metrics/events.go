package metrics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every event type
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	event.SubscribeAll(bus, e.HandleEvent)
	return nil
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Abs().Float64()
	return f
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch p := evt.Payload.(type) {
	case event.EncounterPayloadV1:
		Encounters.WithLabelValues(string(evt.Type), p.ActivityID, outcome(p.Success)).Inc()
		if p.Caught {
			CharactersJailed.Inc()
		}
		if p.Money.IsPositive() {
			MoneyEarned.WithLabelValues(string(evt.Type)).Add(amount(p.Money))
		} else if p.Money.IsNegative() {
			MoneySpent.WithLabelValues(string(evt.Type)).Add(amount(p.Money))
		}

	case event.BattlePayloadV1:
		if p.WinnerID == p.AttackerID {
			Battles.WithLabelValues(OutcomeAttacker).Inc()
		} else {
			Battles.WithLabelValues(OutcomeDefender).Inc()
		}

	case event.BountyPayloadV1:
		if evt.Type == event.BountyClaimed {
			BountiesClaimed.Inc()
		}

	case event.TradePayloadV1:
		if evt.Type == event.DividendPaid {
			MoneyEarned.WithLabelValues(string(evt.Type)).Add(amount(p.Amount))
			break
		}
		StockTrades.WithLabelValues(p.Symbol, p.Side).Inc()

	case event.PurchasePayloadV1:
		if evt.Type == event.ItemBought {
			ItemsBought.WithLabelValues(p.ProductID).Add(float64(p.Quantity))
		}
		if p.Amount.IsPositive() {
			MoneySpent.WithLabelValues(string(evt.Type)).Add(amount(p.Amount))
		}

	case event.MoneyPayloadV1:
		switch evt.Type {
		case event.MoneyCredited, event.PropertyIncome:
			MoneyEarned.WithLabelValues(p.Reason).Add(amount(p.Amount))
		case event.MoneyDebited:
			MoneySpent.WithLabelValues(p.Reason).Add(amount(p.Amount))
		}

	case event.AchievementPayloadV1:
		AchievementsEarned.WithLabelValues(p.AchievementID).Inc()

	case event.CharacterPayloadV1:
		// counted by EventsPublished only

	default:
		log.Debug(LogMsgUnexpectedPayload, "type", evt.Type)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
