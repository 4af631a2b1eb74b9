package vault

import (
	"math"

	"cosmossdk.io/errors"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// Allocation is one slot of the allocation table. A slot whose Reserve is the
// zero address is free.
type Allocation struct {
	Reserve                types.Address
	CTokenVault            types.Address
	TargetAllocationWeight uint64
	TokenAllocationCap     uint64 // maximum liquidity invested in this reserve
	CTokenVaultBump        uint64

	CTokenAllocation      uint64
	LastInvestSlot        uint64
	TokenTargetAllocation fraction.Fraction
}

// EmptyAllocation returns the value of a free slot.
func EmptyAllocation() Allocation {
	return Allocation{TokenAllocationCap: math.MaxUint64}
}

// IsEmpty reports whether the slot is free.
func (a *Allocation) IsEmpty() bool {
	return a.Reserve.IsZero()
}

// CanBeRemoved reports whether the slot holds no collateral and no weight.
func (a *Allocation) CanBeRemoved() bool {
	return a.CTokenAllocation == 0 && a.TargetAllocationWeight == 0
}

// NewState returns a zeroed record with every allocation slot free.
func NewState() *State {
	s := &State{}
	for i := range s.Allocations {
		s.Allocations[i] = EmptyAllocation()
	}
	return s
}

// ReserveIndex returns the slot index holding reserve.
func (s *State) ReserveIndex(reserve types.Address) (int, bool) {
	if reserve.IsZero() {
		return 0, false
	}
	for i := range s.Allocations {
		if s.Allocations[i].Reserve == reserve {
			return i, true
		}
	}
	return 0, false
}

// IsAllocatedToReserve reports whether reserve occupies a slot.
func (s *State) IsAllocatedToReserve(reserve types.Address) bool {
	_, ok := s.ReserveIndex(reserve)
	return ok
}

// AllocationFor returns the slot for reserve.
func (s *State) AllocationFor(reserve types.Address) (*Allocation, error) {
	idx, ok := s.ReserveIndex(reserve)
	if !ok {
		return nil, errors.Wrapf(ErrReserveNotPartOfAllocations, "reserve %s", reserve)
	}
	return &s.Allocations[idx], nil
}

// ReservesCount returns the number of occupied slots.
func (s *State) ReservesCount() int {
	n := 0
	for i := range s.Allocations {
		if !s.Allocations[i].IsEmpty() {
			n++
		}
	}
	return n
}

// ReservesWithAllocationCount returns the number of reserves with a positive
// weight and a positive cap. Depositors pay crank funds for each of them.
func (s *State) ReservesWithAllocationCount() int {
	n := 0
	for i := range s.Allocations {
		a := &s.Allocations[i]
		if !a.IsEmpty() && a.TargetAllocationWeight > 0 && a.TokenAllocationCap > 0 {
			n++
		}
	}
	return n
}

// LiveReserves returns the occupied reserve addresses in table order. This is
// the order in which snapshots must be supplied.
func (s *State) LiveReserves() []types.Address {
	out := make([]types.Address, 0, MaxReserves)
	for i := range s.Allocations {
		if !s.Allocations[i].IsEmpty() {
			out = append(out, s.Allocations[i].Reserve)
		}
	}
	return out
}

// upsertReserveAllocation updates weight and cap of an existing slot or takes
// the first free slot for a new reserve.
func (s *State) upsertReserveAllocation(reserve, ctokenVault types.Address, bump, weight, allocationCap uint64) error {
	if idx, ok := s.ReserveIndex(reserve); ok {
		s.Allocations[idx].TargetAllocationWeight = weight
		s.Allocations[idx].TokenAllocationCap = allocationCap
		return nil
	}

	for i := range s.Allocations {
		if s.Allocations[i].IsEmpty() {
			s.Allocations[i] = Allocation{
				Reserve:                reserve,
				CTokenVault:            ctokenVault,
				CTokenVaultBump:        bump,
				TargetAllocationWeight: weight,
				TokenAllocationCap:     allocationCap,
			}
			return nil
		}
	}
	return errors.Wrapf(ErrReserveSpaceExhausted, "cannot add reserve %s", reserve)
}

// removeReserveFromAllocation frees the slot held by reserve.
func (s *State) removeReserveFromAllocation(reserve types.Address) error {
	idx, ok := s.ReserveIndex(reserve)
	if !ok {
		return errors.Wrapf(ErrReserveNotPartOfAllocations, "reserve %s", reserve)
	}
	if !s.Allocations[idx].CanBeRemoved() {
		return errors.Wrapf(ErrReserveHasNonZeroAllocationOrCTokens, "reserve %s weight %d ctokens %d",
			reserve, s.Allocations[idx].TargetAllocationWeight, s.Allocations[idx].CTokenAllocation)
	}
	s.Allocations[idx] = EmptyAllocation()
	return nil
}

// RefreshTargetAllocations recomputes the target liquidity of every live
// reserve from the current AUM.
//
// The unallocated share is carved out first. The rest is spread in passes:
// each reserve below its cap receives pool * weight / remaining weight; a
// reserve that would reach its cap is pinned there and its weight leaves the
// pool, so the tokens it could not take are spread again on the next pass.
// The loop stops once a pass pins nothing or no weight is left.
func (s *State) RefreshTargetAllocations(invested *Invested) error {
	totalTokens, err := s.ComputeAUM(invested.Total)
	if err != nil {
		return err
	}

	var totalWeight uint64
	for i := range s.Allocations {
		a := &s.Allocations[i]
		if a.IsEmpty() || a.TokenAllocationCap == 0 {
			continue
		}
		if totalWeight, err = addU64(totalWeight, a.TargetAllocationWeight); err != nil {
			return err
		}
	}

	remainingTokens := totalTokens
	if s.UnallocatedWeight > 0 {
		unallocatedCap := s.UnallocatedTokensCap
		if unallocatedCap == 0 {
			unallocatedCap = math.MaxUint64
		}
		denominator, err := addU64(totalWeight, s.UnallocatedWeight)
		if err != nil {
			return err
		}
		unallocatedTarget := totalTokens.MulIntRatio(s.UnallocatedWeight, denominator)
		unallocatedTarget = fraction.Min(unallocatedTarget, fraction.FromUint64(unallocatedCap))
		remainingTokens = remainingTokens.Sub(unallocatedTarget)
	}

	var targets [MaxReserves]fraction.Fraction
	remainingWeight := totalWeight

	for !remainingTokens.IsZero() && remainingWeight > 0 {
		loopTokens := remainingTokens
		loopWeight := remainingWeight
		capReached := false

		for i := range s.Allocations {
			a := &s.Allocations[i]
			allocationCap := fraction.FromUint64(a.TokenAllocationCap)
			if a.IsEmpty() || !targets[i].Lt(allocationCap) {
				continue
			}
			if a.Reserve != invested.Allocations[i].Reserve {
				return errors.Wrapf(ErrReserveNotPartOfAllocations, "holdings slot %d does not match reserve %s", i, a.Reserve)
			}

			ideal := loopTokens.MulIntRatio(a.TargetAllocationWeight, loopWeight)
			var share fraction.Fraction
			if ideal.Add(targets[i]).Gte(allocationCap) {
				capReached = true
				remainingWeight -= a.TargetAllocationWeight
				share = allocationCap.Sub(targets[i])
			} else {
				share = ideal
			}

			remainingTokens = remainingTokens.SaturatingSub(share)
			targets[i] = targets[i].Add(share)
		}

		if !capReached {
			break
		}
	}

	for i := range s.Allocations {
		a := &s.Allocations[i]
		if a.IsEmpty() {
			continue
		}
		a.TokenTargetAllocation = targets[i]
		if targets[i].Lt(fraction.FromUint64(a.TokenAllocationCap)) {
			logger.Printf("reserve %s: weight %d/%d target %s of total %s",
				a.Reserve.Short(), a.TargetAllocationWeight, totalWeight, targets[i], totalTokens)
		} else {
			logger.Printf("reserve %s reached allocation cap: weight %d/%d cap %d of total %s",
				a.Reserve.Short(), a.TargetAllocationWeight, totalWeight, a.TokenAllocationCap, totalTokens)
		}
	}
	return nil
}
