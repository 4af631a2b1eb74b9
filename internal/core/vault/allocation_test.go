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

func refreshTargets(t *testing.T, s *State, snaps []reserve.Snapshot) {
	t.Helper()
	inv, err := s.AmountsInvested(snaps)
	require.NoError(t, err)
	require.NoError(t, s.RefreshTargetAllocations(&inv))
}

func TestRefreshTargetAllocations(t *testing.T) {
	tests := []struct {
		name        string
		weights     [2]uint64
		caps        [2]uint64
		unallocated [2]uint64 // weight, cap
		want        [2]uint64
	}{
		{name: "equal weights", weights: [2]uint64{100, 100}, caps: [2]uint64{math.MaxUint64, math.MaxUint64}, want: [2]uint64{500, 500}},
		{name: "uneven weights", weights: [2]uint64{300, 100}, caps: [2]uint64{math.MaxUint64, math.MaxUint64}, want: [2]uint64{750, 250}},
		{name: "capped reserve spills over", weights: [2]uint64{100, 100}, caps: [2]uint64{300, math.MaxUint64}, want: [2]uint64{300, 700}},
		{name: "both capped", weights: [2]uint64{100, 100}, caps: [2]uint64{300, 200}, want: [2]uint64{300, 200}},
		{name: "zero cap excluded", weights: [2]uint64{100, 100}, caps: [2]uint64{0, math.MaxUint64}, want: [2]uint64{0, 1000}},
		{name: "zero weight", weights: [2]uint64{0, 100}, caps: [2]uint64{math.MaxUint64, math.MaxUint64}, want: [2]uint64{0, 1000}},
		{name: "unallocated share", weights: [2]uint64{100, 100}, caps: [2]uint64{math.MaxUint64, math.MaxUint64}, unallocated: [2]uint64{200, 0}, want: [2]uint64{250, 250}},
		{name: "unallocated cap", weights: [2]uint64{100, 100}, caps: [2]uint64{math.MaxUint64, math.MaxUint64}, unallocated: [2]uint64{200, 100}, want: [2]uint64{450, 450}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestVault(t)
			addReserve(t, s, reserveA, tt.weights[0], tt.caps[0])
			addReserve(t, s, reserveB, tt.weights[1], tt.caps[1])
			s.UnallocatedWeight = tt.unallocated[0]
			s.UnallocatedTokensCap = tt.unallocated[1]

			refreshTargets(t, s, []reserve.Snapshot{snap(reserveA, unitRate), snap(reserveB, unitRate)})

			assert.Equal(t, fraction.FromUint64(tt.want[0]), s.Allocations[0].TokenTargetAllocation)
			assert.Equal(t, fraction.FromUint64(tt.want[1]), s.Allocations[1].TokenTargetAllocation)
		})
	}
}

func TestUpsertAllocationAuthorization(t *testing.T) {
	s := newTestVault(t)
	require.NoError(t, s.UpdateConfig(nil, t0, ConfigAllocationAdmin, EncodeAddress(allocAdmin)))

	err := s.UpsertAllocation(allocAdmin, AllocationParams{Reserve: reserveA, Weight: 1, Cap: 1}, nil)
	require.ErrorIs(t, err, ErrAdminAuthorityIncorrect, "allocation admin cannot add reserves")

	addReserve(t, s, reserveA, 100, 1000)

	require.NoError(t, s.UpsertAllocation(allocAdmin, AllocationParams{Reserve: reserveA, Weight: 50, Cap: 500}, nil))
	assert.Equal(t, uint64(50), s.Allocations[0].TargetAllocationWeight)
	assert.Equal(t, uint64(500), s.Allocations[0].TokenAllocationCap)

	err = s.UpsertAllocation(stranger, AllocationParams{Reserve: reserveA, Weight: 1, Cap: 1}, nil)
	require.ErrorIs(t, err, ErrWrongAdminOrAllocationAdmin)

	err = s.RemoveAllocation(allocAdmin, reserveA)
	require.ErrorIs(t, err, ErrAdminAuthorityIncorrect)
}

func TestUpsertAllocationKeepsSlot(t *testing.T) {
	s := newTestVault(t)
	addReserve(t, s, reserveA, 100, 1000)
	addReserve(t, s, reserveB, 100, 1000)
	addReserve(t, s, reserveA, 10, 10)

	assert.Equal(t, 2, s.ReservesCount())
	assert.Equal(t, reserveA, s.Allocations[0].Reserve)
	assert.Equal(t, uint64(10), s.Allocations[0].TargetAllocationWeight)
}

func TestUpsertAllocationCapacity(t *testing.T) {
	s := newTestVault(t)
	for i := 0; i < MaxReserves; i++ {
		addReserve(t, s, testAddr(byte(0x20+i)), 1, 1)
	}
	assert.Equal(t, MaxReserves, s.ReservesCount())

	err := s.UpsertAllocation(admin, AllocationParams{Reserve: reserveA, Weight: 1, Cap: 1}, nil)
	require.ErrorIs(t, err, ErrReserveSpaceExhausted)
}

func TestRemoveAllocation(t *testing.T) {
	s := investedVault(t)

	err := s.RemoveAllocation(admin, reserveA)
	require.ErrorIs(t, err, ErrReserveHasNonZeroAllocationOrCTokens)

	err = s.RemoveAllocation(admin, reserveC)
	require.ErrorIs(t, err, ErrReserveNotPartOfAllocations)

	addReserve(t, s, reserveB, 0, 0)
	require.NoError(t, s.RemoveAllocation(admin, reserveB))
	assert.False(t, s.IsAllocatedToReserve(reserveB))
	assert.Equal(t, EmptyAllocation(), s.Allocations[1])
}

func TestLiveReservesTableOrder(t *testing.T) {
	s := newTestVault(t)
	addReserve(t, s, reserveA, 0, 0)
	addReserve(t, s, reserveB, 1, 1)
	addReserve(t, s, reserveC, 1, 1)
	require.NoError(t, s.RemoveAllocation(admin, reserveA))
	// The freed first slot is reused.
	addReserve(t, s, reserveA, 1, 1)

	assert.Equal(t, []types.Address{reserveA, reserveB, reserveC}, s.LiveReserves())
	assert.Equal(t, 3, s.ReservesWithAllocationCount())
}
