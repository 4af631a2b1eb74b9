// Package fraction implements an unsigned fixed-point number with 68 integer
// bits and 60 fractional bits.
//
// Intermediate products are computed on 256 bits so ratio operations never
// lose precision before the final rounding step. Values are only required to
// fit in 128 bits when serialized or converted back to an integer amount.
package fraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// FracBits is the number of fractional bits.
const FracBits = 60

// TotalBits is the width of the serialized representation.
const TotalBits = 128

// FullBps is the number of basis points in one.
const FullBps = 10_000

var (
	// ErrOverflow is returned when a value does not fit the requested representation.
	ErrOverflow = errors.New("fraction: value out of range")

	// ErrDivisionByZero is returned by checked division helpers.
	ErrDivisionByZero = errors.New("fraction: division by zero")
)

var (
	oneBits  = new(uint256.Int).Lsh(uint256.NewInt(1), FracBits)
	fracMask = new(uint256.Int).Sub(oneBits, uint256.NewInt(1))
	maxU64   = uint256.NewInt(^uint64(0))
)

// Fraction is a fixed-point value. The zero value is 0.
type Fraction struct {
	bits uint256.Int
}

// Zero is the fraction 0.
var Zero = Fraction{}

// One is the fraction 1.
var One = Fraction{bits: *oneBits}

// FromUint64 converts an integer amount.
func FromUint64(n uint64) Fraction {
	var f Fraction
	f.bits.Lsh(uint256.NewInt(n), FracBits)
	return f
}

// FromBps converts basis points into the corresponding ratio, rounded down.
func FromBps(bps uint64) Fraction {
	return FromUint64(bps).DivInt(FullBps)
}

// FromRatio returns num/den rounded down. It panics if den is zero.
func FromRatio(num, den uint64) Fraction {
	return FromUint64(num).DivInt(den)
}

// FromBits builds a fraction from its raw 128-bit representation.
func FromBits(lo, hi uint64) Fraction {
	var f Fraction
	f.bits[0] = lo
	f.bits[1] = hi
	return f
}

// Bits returns the raw 128-bit representation as two little-endian words.
func (f Fraction) Bits() (lo, hi uint64, err error) {
	if f.bits.BitLen() > TotalBits {
		return 0, 0, fmt.Errorf("%w: %d bits", ErrOverflow, f.bits.BitLen())
	}
	return f.bits[0], f.bits[1], nil
}

// IsZero reports whether f is 0.
func (f Fraction) IsZero() bool {
	return f.bits.IsZero()
}

// Cmp returns -1, 0 or +1 depending on whether f is less than, equal to or greater than o.
func (f Fraction) Cmp(o Fraction) int {
	return f.bits.Cmp(&o.bits)
}

// Lt reports f < o.
func (f Fraction) Lt(o Fraction) bool { return f.Cmp(o) < 0 }

// Lte reports f <= o.
func (f Fraction) Lte(o Fraction) bool { return f.Cmp(o) <= 0 }

// Gt reports f > o.
func (f Fraction) Gt(o Fraction) bool { return f.Cmp(o) > 0 }

// Gte reports f >= o.
func (f Fraction) Gte(o Fraction) bool { return f.Cmp(o) >= 0 }

// Add returns f + o.
func (f Fraction) Add(o Fraction) Fraction {
	var r Fraction
	if _, overflow := r.bits.AddOverflow(&f.bits, &o.bits); overflow {
		panic("fraction: addition overflow")
	}
	return r
}

// SaturatingAdd returns f + o, clamped to the largest 128-bit value.
func (f Fraction) SaturatingAdd(o Fraction) Fraction {
	r := f.Add(o)
	if r.bits.BitLen() > TotalBits {
		return Max
	}
	return r
}

// Sub returns f - o. It panics if o > f; use CheckedSub or SaturatingSub when
// the ordering is not already established.
func (f Fraction) Sub(o Fraction) Fraction {
	r, ok := f.CheckedSub(o)
	if !ok {
		panic(fmt.Sprintf("fraction: subtraction underflow %s - %s", f, o))
	}
	return r
}

// CheckedSub returns f - o and false when the result would be negative.
func (f Fraction) CheckedSub(o Fraction) (Fraction, bool) {
	var r Fraction
	if _, underflow := r.bits.SubOverflow(&f.bits, &o.bits); underflow {
		return Zero, false
	}
	return r, true
}

// SaturatingSub returns f - o, or 0 when o > f.
func (f Fraction) SaturatingSub(o Fraction) Fraction {
	r, ok := f.CheckedSub(o)
	if !ok {
		return Zero
	}
	return r
}

// Mul returns f * o rounded down.
func (f Fraction) Mul(o Fraction) Fraction {
	return mulDiv(&f.bits, &o.bits, oneBits, false)
}

// MulCeil returns f * o rounded up.
func (f Fraction) MulCeil(o Fraction) Fraction {
	return mulDiv(&f.bits, &o.bits, oneBits, true)
}

// Div returns f / o rounded down. It panics if o is zero.
func (f Fraction) Div(o Fraction) Fraction {
	if o.IsZero() {
		panic(ErrDivisionByZero)
	}
	return mulDiv(&f.bits, oneBits, &o.bits, false)
}

// MulInt returns f * n.
func (f Fraction) MulInt(n uint64) Fraction {
	var r Fraction
	if _, overflow := r.bits.MulOverflow(&f.bits, uint256.NewInt(n)); overflow {
		panic("fraction: multiplication overflow")
	}
	return r
}

// DivInt returns f / n rounded down. It panics if n is zero.
func (f Fraction) DivInt(n uint64) Fraction {
	if n == 0 {
		panic(ErrDivisionByZero)
	}
	var r Fraction
	r.bits.Div(&f.bits, uint256.NewInt(n))
	return r
}

// MulIntRatio returns f * num / den rounded down, using a 512-bit intermediate.
// It panics if den is zero.
func (f Fraction) MulIntRatio(num, den uint64) Fraction {
	if den == 0 {
		panic(ErrDivisionByZero)
	}
	return mulDiv(&f.bits, uint256.NewInt(num), uint256.NewInt(den), false)
}

// MulIntRatioCeil returns f * num / den rounded up. It panics if den is zero.
func (f Fraction) MulIntRatioCeil(num, den uint64) Fraction {
	if den == 0 {
		panic(ErrDivisionByZero)
	}
	return mulDiv(&f.bits, uint256.NewInt(num), uint256.NewInt(den), true)
}

// Floor returns the integer part of f.
func (f Fraction) Floor() (uint64, error) {
	var r uint256.Int
	r.Rsh(&f.bits, FracBits)
	if r.Gt(maxU64) {
		return 0, fmt.Errorf("%w: floor of %s exceeds 64 bits", ErrOverflow, f)
	}
	return r.Uint64(), nil
}

// Ceil returns the smallest integer not less than f.
func (f Fraction) Ceil() (uint64, error) {
	var r uint256.Int
	if _, overflow := r.AddOverflow(&f.bits, fracMask); overflow {
		return 0, fmt.Errorf("%w: ceil of %s", ErrOverflow, f)
	}
	r.Rsh(&r, FracBits)
	if r.Gt(maxU64) {
		return 0, fmt.Errorf("%w: ceil of %s exceeds 64 bits", ErrOverflow, f)
	}
	return r.Uint64(), nil
}

// FloorFraction returns f with its fractional part cleared.
func (f Fraction) FloorFraction() Fraction {
	var r Fraction
	r.bits.Rsh(&f.bits, FracBits)
	r.bits.Lsh(&r.bits, FracBits)
	return r
}

// Frac returns the fractional part of f.
func (f Fraction) Frac() Fraction {
	var r Fraction
	r.bits.And(&f.bits, fracMask)
	return r
}

// Min returns the smaller of a and b.
func Min(a, b Fraction) Fraction {
	if a.Lt(b) {
		return a
	}
	return b
}

// Max is the largest value representable in 128 bits.
var Max = FromBits(^uint64(0), ^uint64(0))

// String renders f in decimal with up to 12 fractional digits, truncated.
func (f Fraction) String() string {
	var whole, frac uint256.Int
	whole.Rsh(&f.bits, FracBits)
	frac.And(&f.bits, fracMask)
	if frac.IsZero() {
		return whole.Dec()
	}

	const digits = 12
	var scaled uint256.Int
	scaled.Mul(&frac, uint256.NewInt(1_000_000_000_000))
	scaled.Rsh(&scaled, FracBits)
	fs := fmt.Sprintf("%0*d", digits, scaled.Uint64())
	fs = strings.TrimRight(fs, "0")
	if fs == "" {
		fs = "0"
	}
	return whole.Dec() + "." + fs
}

// mulDiv computes x*y/d on a 512-bit intermediate, rounding as requested.
func mulDiv(x, y, d *uint256.Int, roundUp bool) Fraction {
	var r Fraction
	if _, overflow := r.bits.MulDivOverflow(x, y, d); overflow {
		panic("fraction: multiplication overflow")
	}
	if roundUp {
		// x*y may not fit 256 bits, so the remainder comes from MulMod.
		var rem uint256.Int
		if !rem.MulMod(x, y, d).IsZero() {
			r.bits.AddUint64(&r.bits, 1)
		}
	}
	return r
}
