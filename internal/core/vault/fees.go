package vault

import (
	"github.com/LeJamon/goYieldVault/internal/core/fraction"
)

// ChargeFees accrues management and performance fees up to timestamp.
//
// The management fee is prorated on the previous AUM for the elapsed time.
// The performance fee applies to growth since the previous AUM only. New fees
// never exceed the current AUM. The first call only records the timestamp.
func (s *State) ChargeFees(investedTotal fraction.Fraction, timestamp uint64) {
	if s.LastFeeChargeTimestamp == 0 {
		s.LastFeeChargeTimestamp = timestamp
		return
	}

	var secondsPassed uint64
	if timestamp > s.LastFeeChargeTimestamp {
		secondsPassed = timestamp - s.LastFeeChargeTimestamp
	}

	newAUM, err := s.ComputeAUM(investedTotal)
	if err != nil {
		newAUM = fraction.Zero
	}
	prevAUM := s.PrevAUM

	mgmtCharge := fraction.Zero
	if secondsPassed > 0 {
		mgmtFee := fraction.FromBps(s.ManagementFeeBps).MulInt(secondsPassed).DivInt(SecondsPerYear)
		mgmtCharge = prevAUM.Mul(mgmtFee)
	}

	earnedInterest := newAUM.SaturatingSub(prevAUM)
	perfCharge := fraction.FromBps(s.PerformanceFeeBps).Mul(earnedInterest)

	logger.Printf("charge fees: prev_aum %s new_aum %s seconds %d mgmt %s perf %s",
		prevAUM, newAUM, secondsPassed, mgmtCharge, perfCharge)

	s.CumulativeMgmtFees = s.CumulativeMgmtFees.SaturatingAdd(mgmtCharge)
	s.CumulativePerfFees = s.CumulativePerfFees.SaturatingAdd(perfCharge)
	s.CumulativeEarnedInterest = s.CumulativeEarnedInterest.SaturatingAdd(earnedInterest)

	newFees := fraction.Min(mgmtCharge.Add(perfCharge), newAUM)
	s.PendingFees = s.PendingFees.Add(newFees)
	s.PrevAUM = newAUM.Sub(newFees)
	s.LastFeeChargeTimestamp = timestamp
}
