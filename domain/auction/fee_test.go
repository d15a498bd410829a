package auction

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateFor(t *testing.T) {
	req := require.New(t)
	s := DefaultFeeSchedule()

	cases := []struct {
		name  string
		value *big.Int
		want  int64
	}{
		{"zero value", big.NewInt(0), 250},
		{"one unit", ValueUnits(1), 250},
		{"just below medium tier", new(big.Int).Sub(ValueUnits(1000), big.NewInt(1)), 250},
		{"medium tier lower bound inclusive", ValueUnits(1000), 150},
		{"inside medium tier", ValueUnits(2500), 150},
		{"just below low tier", new(big.Int).Sub(ValueUnits(10000), big.NewInt(1)), 150},
		{"low tier lower bound inclusive", ValueUnits(10000), 80},
		{"far above low tier", ValueUnits(5000000), 80},
	}

	for _, c := range cases {
		req.Equal(c.want, s.RateFor(c.value), c.name)
	}
}

func TestRateForEmptySchedule(t *testing.T) {
	req := require.New(t)

	var s FeeSchedule
	req.Zero(s.RateFor(ValueUnits(1)))

	// an empty tier list falls back to the default schedule
	req.Equal(int64(250), NewFeeSchedule(nil).RateFor(ValueUnits(1)))
	req.Equal(int64(80), NewFeeSchedule(nil).RateFor(ValueUnits(10000)))
}

func TestSplitConservation(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		raw     int64
		rateBps int64
		fee     int64
		net     int64
	}{
		{10000, 250, 250, 9750},
		{1, 250, 0, 1},
		{39, 250, 0, 39},
		{40, 250, 1, 39},
		{10000, 80, 80, 9920},
		{12345, 150, 185, 12160},
	}

	for _, c := range cases {
		fee, net := Split(big.NewInt(c.raw), c.rateBps)
		req.Equal(c.fee, fee.Int64())
		req.Equal(c.net, net.Int64())
	}
}

func TestSplitConservationRandomized(t *testing.T) {
	req := require.New(t)
	s := DefaultFeeSchedule()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		raw := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), 128))
		rate := s.RateFor(raw)
		fee, net := Split(raw, rate)

		sum := new(big.Int).Add(fee, net)
		req.Zero(sum.Cmp(raw))
		req.True(fee.Sign() >= 0)
		req.True(net.Sign() >= 0)
	}
}
