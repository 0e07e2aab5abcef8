package economy

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/Underworld_Go/internal/domain"
)

// Side is the direction of a stock trade
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

var one = decimal.NewFromInt(1)

// ImpactPrice returns the instrument price after trading shares out of
// totalShares: price * (1 ± impact * shares / totalShares), rounded to cents
// and floored at MinSharePrice.
func ImpactPrice(price decimal.Decimal, shares, totalShares int64, impact float64, side Side) decimal.Decimal {
	if totalShares <= 0 {
		return price
	}
	ratio := decimal.NewFromFloat(impact).
		Mul(decimal.NewFromInt(shares)).
		Div(decimal.NewFromInt(totalShares))

	factor := one.Add(ratio)
	if side == SideSell {
		factor = one.Sub(ratio)
	}

	next := price.Mul(factor).Round(domain.MoneyScale)
	if next.LessThan(MinSharePrice) {
		return MinSharePrice
	}
	return next
}

// TradeValue is what shares cost (or fetch) at price
func TradeValue(price decimal.Decimal, shares int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(shares)).Round(domain.MoneyScale)
}

// AveragePrice blends an existing holding with newly bought shares
func AveragePrice(held int64, heldAvg decimal.Decimal, bought int64, price decimal.Decimal) decimal.Decimal {
	total := held + bought
	if total <= 0 {
		return decimal.Zero
	}
	cost := heldAvg.Mul(decimal.NewFromInt(held)).Add(price.Mul(decimal.NewFromInt(bought)))
	return cost.Div(decimal.NewFromInt(total)).Round(domain.MoneyScale)
}

// DividendAmount is shares * price * percent / 100, truncated to whole cents
func DividendAmount(shares int64, price decimal.Decimal, percent float64) decimal.Decimal {
	return domain.TruncateCents(
		price.Mul(decimal.NewFromInt(shares)).
			Mul(decimal.NewFromFloat(percent)).
			Div(decimal.NewFromInt(100)),
	)
}
