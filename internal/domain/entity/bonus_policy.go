package entity

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BonusTier grants Percentage of a top-up when the amount reaches Threshold
type BonusTier struct {
	Threshold  decimal.Decimal
	Percentage decimal.Decimal
}

// BonusPolicy picks the highest tier a top-up qualifies for
type BonusPolicy struct {
	tiers []BonusTier
}

// DefaultBonusTiers grants 10% from 1000 and 20% from 2000
func DefaultBonusTiers() []BonusTier {
	return []BonusTier{
		{Threshold: decimal.NewFromInt(1000), Percentage: decimal.NewFromInt(10)},
		{Threshold: decimal.NewFromInt(2000), Percentage: decimal.NewFromInt(20)},
	}
}

// NewBonusPolicy validates and orders the tiers by descending threshold
func NewBonusPolicy(tiers []BonusTier) (*BonusPolicy, error) {
	ordered := make([]BonusTier, 0, len(tiers))
	for _, tier := range tiers {
		if !tier.Threshold.IsPositive() {
			return nil, fmt.Errorf("bonus threshold must be positive, got %s", tier.Threshold.String())
		}
		if tier.Percentage.IsNegative() || tier.Percentage.GreaterThan(hundred) {
			return nil, fmt.Errorf("bonus percentage must be within 0-100, got %s", tier.Percentage.String())
		}
		ordered = append(ordered, tier)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Threshold.GreaterThan(ordered[j].Threshold)
	})

	return &BonusPolicy{tiers: ordered}, nil
}

// DefaultBonusPolicy returns the policy built from DefaultBonusTiers
func DefaultBonusPolicy() *BonusPolicy {
	policy, err := NewBonusPolicy(DefaultBonusTiers())
	if err != nil {
		panic(err)
	}
	return policy
}

// Bonus returns the bonus amount and the percentage applied to a top-up
func (p *BonusPolicy) Bonus(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	for _, tier := range p.tiers {
		if amount.GreaterThanOrEqual(tier.Threshold) {
			return Percentage(amount, tier.Percentage), tier.Percentage
		}
	}
	return decimal.Zero, decimal.Zero
}
