package service

import (
	"time"

	"github.com/LeJamon/goYieldVault/internal/core/vault"
)

// DefaultSlotDuration is the slot length SystemClock uses when none is given.
const DefaultSlotDuration = 400 * time.Millisecond

// SystemClock derives slots from wall time: slot 0 starts at Genesis and a
// new slot begins every SlotDuration.
type SystemClock struct {
	Genesis      time.Time
	SlotDuration time.Duration
	now          func() time.Time
}

// NewSystemClock returns a SystemClock whose genesis is the Unix epoch.
func NewSystemClock() *SystemClock {
	return &SystemClock{Genesis: time.Unix(0, 0), SlotDuration: DefaultSlotDuration, now: time.Now}
}

// Now implements Clock.
func (c *SystemClock) Now() vault.Clock {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	t := now()
	d := c.SlotDuration
	if d <= 0 {
		d = DefaultSlotDuration
	}
	var slot uint64
	if elapsed := t.Sub(c.Genesis); elapsed > 0 {
		slot = uint64(elapsed / d)
	}
	var ts uint64
	if unix := t.Unix(); unix > 0 {
		ts = uint64(unix)
	}
	return vault.Clock{Slot: slot, UnixTimestamp: ts}
}
