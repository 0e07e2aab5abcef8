package encounter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/repository"
	"github.com/osse101/Underworld_Go/internal/utils"
)

// Equipment is the combined bonus of a character's equipped items
type Equipment struct {
	Attack  int
	Defense int
}

// loadEquipment sums the attack and defense power of equipped items
func loadEquipment(ctx context.Context, tx repository.InventoryTx, cat catalog.Catalog, characterID uuid.UUID) (Equipment, error) {
	items, err := tx.GetInventory(ctx, characterID)
	if err != nil {
		return Equipment{}, err
	}
	var eq Equipment
	for _, it := range items {
		if !it.Equipped || it.Quantity < 1 {
			continue
		}
		def, err := cat.Item(it.ItemID)
		if err != nil {
			continue
		}
		eq.Attack += def.AttackPower
		eq.Defense += def.DefensePower
	}
	return eq, nil
}

// AttackPower is 2*strength + speed + dexterity plus the weapon bonus
func AttackPower(s domain.Stats, eq Equipment) int {
	return 2*s.Strength + s.Speed + s.Dexterity + eq.Attack
}

// Damage is max(1, floor(power * 100 / (100 + defense + armor))) scaled by factor
func Damage(power int, defender domain.Stats, armor Equipment, factor float64) int {
	base := float64(power*DamageScale) / float64(DamageScale+defender.Defense+armor.Defense)
	dmg := utils.FloorInt(base * factor)
	if dmg < 1 {
		return 1
	}
	return dmg
}

// HospitalStay is base + damage*perPoint, capped at max
func HospitalStay(damage int, base, perPoint, max time.Duration) time.Duration {
	d := base + time.Duration(damage)*perPoint
	if max > 0 && d > max {
		return max
	}
	return d
}

// StealAmount is fraction of money, truncated to whole cents
func StealAmount(money decimal.Decimal, fraction float64) decimal.Decimal {
	if fraction <= 0 || !money.IsPositive() {
		return decimal.Zero
	}
	return domain.TruncateCents(money.Mul(decimal.NewFromFloat(fraction)))
}

// fight holds the damage each side dealt. The defender wins ties.
type fight struct {
	attackerDamage int
	defenderDamage int
}

func (f fight) attackerWon() bool {
	return f.attackerDamage > f.defenderDamage
}

func (s *service) exchange(attacker, defender *domain.Character, atkEq, defEq Equipment) fight {
	v := s.config.Battle.DamageVariance
	return fight{
		attackerDamage: Damage(AttackPower(attacker.Stats, atkEq), defender.Stats, defEq, utils.VarianceFactor(s.roller, v)),
		defenderDamage: Damage(AttackPower(defender.Stats, defEq), attacker.Stats, atkEq, utils.VarianceFactor(s.roller, v)),
	}
}
