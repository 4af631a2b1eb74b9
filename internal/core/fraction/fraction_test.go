package fraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Conversions
// =============================================================================

func TestFromUint64Floor(t *testing.T) {
	for _, n := range []uint64{0, 1, 1000, 1 << 40, ^uint64(0)} {
		got, err := FromUint64(n).Floor()
		require.NoError(t, err)
		assert.Equal(t, n, got)

		got, err = FromUint64(n).Ceil()
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestFloorCeilWithFraction(t *testing.T) {
	tests := []struct {
		name      string
		f         Fraction
		wantFloor uint64
		wantCeil  uint64
	}{
		{name: "one half", f: FromRatio(1, 2), wantFloor: 0, wantCeil: 1},
		{name: "ten and a third", f: FromRatio(31, 3), wantFloor: 10, wantCeil: 11},
		{name: "exact", f: FromRatio(10, 5), wantFloor: 2, wantCeil: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floor, err := tt.f.Floor()
			require.NoError(t, err)
			assert.Equal(t, tt.wantFloor, floor)

			ceil, err := tt.f.Ceil()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCeil, ceil)
		})
	}
}

func TestFloorOverflow(t *testing.T) {
	big := FromUint64(^uint64(0)).Add(One)
	_, err := big.Floor()
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = FromUint64(^uint64(0)).Add(FromRatio(1, 2)).Ceil()
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestFromBps(t *testing.T) {
	assert.Equal(t, One, FromBps(FullBps))
	assert.Equal(t, FromRatio(1, 2), FromBps(5000))
	assert.True(t, FromBps(0).IsZero())
}

func TestBitsRoundTrip(t *testing.T) {
	f := FromRatio(12345, 7)
	lo, hi, err := f.Bits()
	require.NoError(t, err)
	assert.Equal(t, f, FromBits(lo, hi))

	wide := Max.MulInt(2)
	_, _, err = wide.Bits()
	assert.ErrorIs(t, err, ErrOverflow)
}

// =============================================================================
// Arithmetic
// =============================================================================

func TestSub(t *testing.T) {
	a := FromUint64(10)
	b := FromUint64(4)

	assert.Equal(t, FromUint64(6), a.Sub(b))
	_, ok := b.CheckedSub(a)
	assert.False(t, ok)
	assert.True(t, b.SaturatingSub(a).IsZero())
	assert.Panics(t, func() { b.Sub(a) })
}

func TestMulDivRounding(t *testing.T) {
	third := FromRatio(1, 3)

	down := third.Mul(FromUint64(3))
	up := third.MulCeil(FromUint64(3))
	assert.True(t, down.Lt(One))
	assert.True(t, up.Lte(One))

	assert.Equal(t, FromUint64(5), FromUint64(10).Div(FromUint64(2)))
	assert.Equal(t, FromUint64(30), FromUint64(10).MulInt(3))
	assert.Panics(t, func() { One.DivInt(0) })
}

func TestMulIntRatio(t *testing.T) {
	f := FromUint64(1000)

	assert.Equal(t, FromRatio(1000, 3), f.MulIntRatio(1, 3))
	assert.True(t, f.MulIntRatioCeil(1, 3).Gt(f.MulIntRatio(1, 3)))
	assert.Equal(t, FromUint64(500), f.MulIntRatioCeil(1, 2))

	// The intermediate product overflows 128 bits but the result does not.
	huge := FromUint64(^uint64(0))
	got, err := huge.MulIntRatio(^uint64(0), ^uint64(0)).Floor()
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), got)
}

func TestFracAndFloorFraction(t *testing.T) {
	f := FromRatio(7, 2)
	assert.Equal(t, FromRatio(1, 2), f.Frac())
	assert.Equal(t, FromUint64(3), f.FloorFraction())
	assert.True(t, FromUint64(3).Frac().IsZero())
}

func TestCompareAndMin(t *testing.T) {
	a, b := FromUint64(1), FromUint64(2)
	assert.Equal(t, -1, a.Cmp(b))
	assert.True(t, b.Gt(a))
	assert.True(t, a.Gte(a))
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, a, Min(b, a))
}

func TestSaturatingAdd(t *testing.T) {
	assert.Equal(t, Max, Max.SaturatingAdd(One))
	assert.Equal(t, FromUint64(3), One.SaturatingAdd(FromUint64(2)))
}

func TestString(t *testing.T) {
	assert.Equal(t, "0", Zero.String())
	assert.Equal(t, "1500", FromUint64(1500).String())
	assert.Equal(t, "2.5", FromRatio(5, 2).String())
	assert.Equal(t, "0.333333333333", FromRatio(1, 3).String())
}
