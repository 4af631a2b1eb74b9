package testing

import (
	"sync"
	"time"

	"github.com/LeJamon/goYieldVault/internal/core/vault"
)

// ManualClock provides a controllable clock for testing time-dependent behavior.
// Slots and wall time advance independently.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
	slot    uint64
}

// NewManualClock creates a new ManualClock at slot 100 on January 1, 2020, 00:00:00 UTC.
func NewManualClock() *ManualClock {
	return &ManualClock{
		current: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		slot:    100,
	}
}

// NewManualClockAt creates a new ManualClock set to the specified time and slot.
func NewManualClockAt(t time.Time, slot uint64) *ManualClock {
	return &ManualClock{
		current: t,
		slot:    slot,
	}
}

// Now returns the current slot and unix timestamp.
func (c *ManualClock) Now() vault.Clock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return vault.Clock{Slot: c.slot, UnixTimestamp: uint64(c.current.Unix())}
}

// Time returns the current wall time.
func (c *ManualClock) Time() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward by the specified duration.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// AdvanceSlots moves the slot forward by n.
func (c *ManualClock) AdvanceSlots(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slot += n
}

// Set sets the clock to a specific time.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
