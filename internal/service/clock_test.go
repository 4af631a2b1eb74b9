package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockSlots(t *testing.T) {
	genesis := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := genesis.Add(10 * time.Second)
	c := &SystemClock{Genesis: genesis, SlotDuration: 500 * time.Millisecond, now: func() time.Time { return at }}

	now := c.Now()
	assert.Equal(t, uint64(20), now.Slot)
	assert.Equal(t, uint64(at.Unix()), now.UnixTimestamp)

	at = genesis.Add(-time.Second)
	assert.Zero(t, c.Now().Slot)
}

func TestSystemClockDefaults(t *testing.T) {
	c := &SystemClock{}
	assert.NotZero(t, c.Now().Slot)
	assert.NotZero(t, c.Now().UnixTimestamp)
}
