package entity

import (
	"fmt"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/shopspring/decimal"
)

// DurationBounds is the inclusive range of minutes a session may be booked for
type DurationBounds struct {
	Min int
	Max int
}

// CostModel prices activities per minute. It is immutable after construction.
type CostModel struct {
	rates  map[ActivityType]decimal.Decimal
	bounds map[ActivityKind]DurationBounds
}

// DefaultRates are the per-minute prices used when configuration gives none
func DefaultRates() map[ActivityType]decimal.Decimal {
	return map[ActivityType]decimal.Decimal{
		ActivityVoiceStandard: decimal.RequireFromString("2.00"),
		ActivityVoiceRealtime: decimal.RequireFromString("40.00"),
		ActivityVideo:         decimal.RequireFromString("15.00"),
	}
}

// DefaultDurationBounds are the booking limits used when configuration gives none
func DefaultDurationBounds() map[ActivityKind]DurationBounds {
	return map[ActivityKind]DurationBounds{
		ActivityKindVoice: {Min: 5, Max: 60},
		ActivityKindVideo: {Min: 10, Max: 120},
	}
}

// NewCostModel validates that every activity has a positive rate and every kind has bounds
func NewCostModel(rates map[ActivityType]decimal.Decimal, bounds map[ActivityKind]DurationBounds) (*CostModel, error) {
	model := &CostModel{
		rates:  make(map[ActivityType]decimal.Decimal, len(rates)),
		bounds: make(map[ActivityKind]DurationBounds, len(bounds)),
	}

	for _, activity := range ActivityTypes {
		rate, ok := rates[activity]
		if !ok {
			return nil, fmt.Errorf("missing rate for activity %s", activity)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for activity %s must be positive, got %s", activity, rate.String())
		}
		model.rates[activity] = rate

		kind := activity.Kind()
		b, ok := bounds[kind]
		if !ok {
			return nil, fmt.Errorf("missing duration bounds for %s activities", kind)
		}
		if b.Min <= 0 || b.Max < b.Min {
			return nil, fmt.Errorf("invalid duration bounds for %s activities: %d-%d", kind, b.Min, b.Max)
		}
		model.bounds[kind] = b
	}

	return model, nil
}

// DefaultCostModel returns the model built from DefaultRates and DefaultDurationBounds
func DefaultCostModel() *CostModel {
	model, err := NewCostModel(DefaultRates(), DefaultDurationBounds())
	if err != nil {
		panic(err)
	}
	return model
}

// Rate returns the per-minute price of an activity
func (m *CostModel) Rate(activity ActivityType) (decimal.Decimal, error) {
	rate, ok := m.rates[activity]
	if !ok {
		return decimal.Zero, errs.NewInvalidParameterError("activity_type", fmt.Sprintf("unknown activity type %q", string(activity)))
	}
	return rate, nil
}

// Cost returns rate x minutes rounded to two decimal places
func (m *CostModel) Cost(activity ActivityType, minutes decimal.Decimal) (decimal.Decimal, error) {
	rate, err := m.Rate(activity)
	if err != nil {
		return decimal.Zero, err
	}
	if minutes.IsNegative() {
		return decimal.Zero, errs.NewInvalidParameterError("duration_minutes", "cannot be negative")
	}
	return RoundAmount(rate.Mul(minutes)), nil
}

// Bounds returns the booking limits for an activity
func (m *CostModel) Bounds(activity ActivityType) (DurationBounds, error) {
	b, ok := m.bounds[activity.Kind()]
	if !ok {
		return DurationBounds{}, errs.NewInvalidParameterError("activity_type", fmt.Sprintf("unknown activity type %q", string(activity)))
	}
	return b, nil
}

// ValidateDuration checks the estimated duration against the activity bounds
func (m *CostModel) ValidateDuration(activity ActivityType, minutes int) error {
	b, err := m.Bounds(activity)
	if err != nil {
		return err
	}
	if minutes < b.Min || minutes > b.Max {
		return errs.NewInvalidParameterError("estimated_duration_minutes",
			fmt.Sprintf("must be between %d and %d for %s sessions", b.Min, b.Max, activity.Kind()))
	}
	return nil
}
