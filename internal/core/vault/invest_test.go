package vault

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

func TestInvestAddMovesIdleLiquidity(t *testing.T) {
	s := newTestVault(t)
	addReserve(t, s, reserveA, 100, math.MaxUint64)

	e, err := s.Invest([]reserve.Snapshot{snap(reserveA, unitRate)}, t0, reserveA)
	require.NoError(t, err)

	assert.Equal(t, InvestEffects{Direction: InvestAdd, LiquidityAmount: 1000, CollateralAmount: 1000}, e)
	assert.Zero(t, s.TokenAvailable)
	assert.Equal(t, uint64(1000), s.Allocations[0].CTokenAllocation)
	assert.Equal(t, t0.Slot, s.Allocations[0].LastInvestSlot)
	assert.Equal(t, fraction.FromUint64(1000), s.Allocations[0].TokenTargetAllocation)
}

func TestInvestRoundingLoss(t *testing.T) {
	s := newTestVault(t)
	_, err := s.Deposit(nil, t0, 2)
	require.NoError(t, err)
	addReserve(t, s, reserveA, 100, math.MaxUint64)
	snaps := []reserve.Snapshot{snap(reserveA, threeQuarterRate)}

	t.Run("paid by caller", func(t *testing.T) {
		w := s.Clone()
		e, err := w.Invest(snaps, t0, reserveA)
		require.NoError(t, err)

		// floor(1002 * 0.75) = 751 ctokens are worth 1001.33.
		assert.Equal(t, InvestEffects{Direction: InvestAdd, LiquidityAmount: 1002, CollateralAmount: 751, RoundingLoss: 1}, e)
		assert.Equal(t, uint64(1), w.TokenAvailable)
	})

	t.Run("covered by crank funds", func(t *testing.T) {
		w := s.Clone()
		w.AvailableCrankFunds = 5
		e, err := w.Invest(snaps, t0, reserveA)
		require.NoError(t, err)

		assert.Zero(t, e.RoundingLoss)
		assert.Equal(t, uint64(4), w.AvailableCrankFunds)
	})
}

func TestInvestSubtractDrainsZeroWeightReserve(t *testing.T) {
	s := investedVault(t)
	snaps := []reserve.Snapshot{snap(reserveA, unitRate)}
	addReserve(t, s, reserveA, 0, math.MaxUint64)

	e, err := s.Invest(snaps, later(t0, 1, 1), reserveA)
	require.NoError(t, err)

	assert.Equal(t, InvestEffects{Direction: InvestSubtract, LiquidityAmount: 1000, CollateralAmount: 1000}, e)
	assert.Equal(t, uint64(1000), s.TokenAvailable)
	assert.Zero(t, s.Allocations[0].CTokenAllocation)

	require.NoError(t, s.RemoveAllocation(admin, reserveA))
	assert.Zero(t, s.ReservesCount())
}

func TestInvestRebalancesBetweenReserves(t *testing.T) {
	s := investedVault(t)
	addReserve(t, s, reserveB, 100, math.MaxUint64)
	snaps := []reserve.Snapshot{snap(reserveA, unitRate), snap(reserveB, unitRate)}
	now := later(t0, 5, 5)

	e, err := s.Invest(snaps, now, reserveA)
	require.NoError(t, err)
	assert.Equal(t, InvestSubtract, e.Direction)
	assert.Equal(t, uint64(500), e.LiquidityAmount)

	e, err = s.Invest(snaps, now, reserveB)
	require.NoError(t, err)
	assert.Equal(t, InvestAdd, e.Direction)
	assert.Equal(t, uint64(500), e.CollateralAmount)

	assert.Zero(t, s.TokenAvailable)
	assert.Equal(t, uint64(500), s.Allocations[0].CTokenAllocation)
	assert.Equal(t, uint64(500), s.Allocations[1].CTokenAllocation)
}

func TestInvestErrors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, s *State)
		snaps   []reserve.Snapshot
		target  types.Address
		clock   Clock
		want    error
	}{
		{
			name:   "unknown reserve",
			snaps:  []reserve.Snapshot{snap(reserveA, unitRate)},
			target: reserveC,
			clock:  later(t0, 1, 1),
			want:   ErrReserveNotPartOfAllocations,
		},
		{
			name: "too soon",
			prepare: func(t *testing.T, s *State) {
				require.NoError(t, s.UpdateConfig([]reserve.Snapshot{snap(reserveA, unitRate)}, t0, ConfigMinInvestDelaySlots, EncodeU64(100)))
			},
			snaps: []reserve.Snapshot{snap(reserveA, unitRate)},
			clock: later(t0, 50, 50),
			want:  ErrInvestTooSoon,
		},
		{
			name:  "already at target",
			snaps: []reserve.Snapshot{snap(reserveA, unitRate)},
			clock: later(t0, 1, 1),
			want:  ErrInvestAmountBelowMinimum,
		},
		{
			name:  "stale",
			snaps: []reserve.Snapshot{{Address: reserveA, Rate: unitRate, Stale: true}},
			clock: later(t0, 1, 1),
			want:  ErrReserveIsStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := investedVault(t)
			if tt.prepare != nil {
				tt.prepare(t, s)
			}
			before := *s

			target := tt.target
			if target.IsZero() {
				target = reserveA
			}
			_, err := s.Invest(tt.snaps, tt.clock, target)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, *s)
		})
	}
}
