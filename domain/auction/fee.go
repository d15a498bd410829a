package auction

import (
	"math/big"
)

// RateDenominator is the fixed precision of fee rates: rates are expressed in
// basis points out of 10000.
const RateDenominator = 10000

// ValueDecimals is the scale of normalized value units. Normalized values are
// usd prices scaled by 1e18 so tokens with different decimals stay comparable
// without losing precision.
const ValueDecimals = 18

var valueUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(ValueDecimals), nil)

// ValueUnits returns n whole value units as a scaled big int.
func ValueUnits(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), valueUnit)
}

// FeeTier maps the half-open value range [MinValue, next tier's MinValue) to
// a rate.
type FeeTier struct {
	MinValue *big.Int
	RateBps  int64
}

// FeeSchedule is an ordered set of tiers, ascending by MinValue. It is
// stateless and shared by every auction instance.
type FeeSchedule struct {
	tiers []FeeTier
}

// NewFeeSchedule builds a schedule from tiers ascending by MinValue. An
// empty tier set falls back to the platform default rather than producing a
// schedule that cannot price anything.
func NewFeeSchedule(tiers []FeeTier) *FeeSchedule {
	if len(tiers) == 0 {
		return DefaultFeeSchedule()
	}
	return &FeeSchedule{tiers: tiers}
}

// DefaultFeeSchedule is the platform schedule: 2.5% below 1000 value units,
// 1.5% from 1000 to 10000, 0.8% at and above 10000.
func DefaultFeeSchedule() *FeeSchedule {
	return NewFeeSchedule([]FeeTier{
		{MinValue: big.NewInt(0), RateBps: 250},
		{MinValue: ValueUnits(1000), RateBps: 150},
		{MinValue: ValueUnits(10000), RateBps: 80},
	})
}

// RateFor returns the rate for a frozen winning value. Lower bounds are
// inclusive, upper bounds exclusive.
func (s *FeeSchedule) RateFor(value *big.Int) int64 {
	if len(s.tiers) == 0 {
		return 0
	}
	rate := s.tiers[0].RateBps
	for _, tier := range s.tiers {
		if value.Cmp(tier.MinValue) >= 0 {
			rate = tier.RateBps
		}
	}
	return rate
}

// Split divides rawAmount into fee and net parts. The fee is floored, so
// netAmount + feeAmount == rawAmount holds exactly for any input.
func Split(rawAmount *big.Int, rateBps int64) (feeAmount, netAmount *big.Int) {
	feeAmount = new(big.Int).Mul(rawAmount, big.NewInt(rateBps))
	feeAmount.Quo(feeAmount, big.NewInt(RateDenominator))
	netAmount = new(big.Int).Sub(rawAmount, feeAmount)
	return feeAmount, netAmount
}
