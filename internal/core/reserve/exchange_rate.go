// Package reserve describes the lending reserves a vault invests in, as seen
// by the accounting core: an identity, a collateral exchange rate and a
// staleness flag.
package reserve

import (
	"github.com/LeJamon/goYieldVault/internal/core/fraction"
)

// ExchangeRate is the number of collateral units issued per unit of liquidity.
type ExchangeRate struct {
	rate fraction.Fraction
}

// InitialExchangeRate is used by reserves with no supply yet.
var InitialExchangeRate = ExchangeRate{rate: fraction.One}

// NewExchangeRate derives the rate from a reserve's collateral supply and
// total liquidity. An empty reserve uses InitialExchangeRate.
func NewExchangeRate(collateralSupply uint64, totalLiquidity fraction.Fraction) ExchangeRate {
	if collateralSupply == 0 || totalLiquidity.IsZero() {
		return InitialExchangeRate
	}
	return ExchangeRate{rate: fraction.FromUint64(collateralSupply).Div(totalLiquidity)}
}

// ExchangeRateFromFraction wraps an already computed rate. A zero rate is
// replaced by InitialExchangeRate.
func ExchangeRateFromFraction(rate fraction.Fraction) ExchangeRate {
	if rate.IsZero() {
		return InitialExchangeRate
	}
	return ExchangeRate{rate: rate}
}

// Fraction returns the raw rate.
func (r ExchangeRate) Fraction() fraction.Fraction {
	if r.rate.IsZero() {
		return fraction.One
	}
	return r.rate
}

// LiquidityToCollateral converts liquidity to collateral, rounding down.
func (r ExchangeRate) LiquidityToCollateral(liquidity uint64) (uint64, error) {
	return r.FractionLiquidityToCollateral(fraction.FromUint64(liquidity)).Floor()
}

// LiquidityToCollateralCeil converts liquidity to collateral, rounding up.
func (r ExchangeRate) LiquidityToCollateralCeil(liquidity uint64) (uint64, error) {
	return r.FractionLiquidityToCollateralCeil(liquidity).Ceil()
}

// FractionLiquidityToCollateral converts a fractional amount of liquidity.
func (r ExchangeRate) FractionLiquidityToCollateral(liquidity fraction.Fraction) fraction.Fraction {
	return liquidity.Mul(r.Fraction())
}

// FractionLiquidityToCollateralCeil converts liquidity to a fractional amount
// of collateral with an upward-rounded product.
func (r ExchangeRate) FractionLiquidityToCollateralCeil(liquidity uint64) fraction.Fraction {
	return fraction.FromUint64(liquidity).MulCeil(r.Fraction())
}

// CollateralToLiquidity converts collateral back into a fractional amount of liquidity.
func (r ExchangeRate) CollateralToLiquidity(collateral uint64) fraction.Fraction {
	return fraction.FromUint64(collateral).Div(r.Fraction())
}

// String returns the decimal rate.
func (r ExchangeRate) String() string {
	return r.Fraction().String()
}
