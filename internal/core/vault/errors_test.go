package vault

import (
	stderrors "errors"
	"fmt"
	"testing"

	"cosmossdk.io/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{err: ErrMathOverflow, want: KindArithmetic},
		{err: errors.Wrap(ErrReserveIsStale, "reserve"), want: KindValidation},
		{err: fmt.Errorf("invest: %w", ErrAUMDecreasedAfterInvest), want: KindConsistency},
		{err: ErrWrongAdminOrAllocationAdmin, want: KindAuthorization},
		{err: stderrors.New("disk full"), want: KindUnknown},
		{err: nil, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(errors.Wrap(ErrSharesBurnedAmountDoesNotMatch, "burned 1 expected 2")))
	assert.False(t, IsFatal(ErrInvestTooSoon))
}

func TestErrorCodesStable(t *testing.T) {
	require.Equal(t, uint32(1000), ErrDepositAmountsZero.ABCICode())
	require.Equal(t, uint32(1055), ErrInvalidBoolLikeValue.ABCICode())
	require.Equal(t, Codespace, ErrReserveNotWhitelisted.Codespace())
}
