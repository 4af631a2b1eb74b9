package vault

import (
	stderrors "errors"

	"cosmossdk.io/errors"
)

// Codespace namespaces every vault error code.
const Codespace = "vault"

// Vault errors. Codes are stable and start at 1000.
var (
	ErrDepositAmountsZero                         = errors.Register(Codespace, 1000, "deposit amounts zero")
	ErrSharesIssuedAmountDoesNotMatch             = errors.Register(Codespace, 1001, "shares issued amount does not match")
	ErrMathOverflow                               = errors.Register(Codespace, 1002, "math operation overflow")
	ErrIntegerOverflow                            = errors.Register(Codespace, 1003, "integer conversion overflow")
	ErrWithdrawAmountBelowMinimum                 = errors.Register(Codespace, 1004, "withdraw amount below minimum")
	ErrTooMuchLiquidityToWithdraw                 = errors.Register(Codespace, 1005, "too much liquidity to withdraw")
	ErrReserveAlreadyExists                       = errors.Register(Codespace, 1006, "reserve already exists")
	ErrReserveNotPartOfAllocations                = errors.Register(Codespace, 1007, "reserve not part of allocations")
	ErrCouldNotDeserializeAccountAsReserve        = errors.Register(Codespace, 1008, "could not deserialize account as reserve")
	ErrReserveNotProvidedInTheAccounts            = errors.Register(Codespace, 1009, "reserve not provided in the accounts")
	ErrReserveAccountAndKeyMismatch               = errors.Register(Codespace, 1010, "reserve account and key mismatch")
	ErrOutOfRangeOfReserveIndex                   = errors.Register(Codespace, 1011, "out of range of reserve index")
	ErrCannotFindReserveInAllocations             = errors.Register(Codespace, 1012, "cannot find reserve in allocations")
	ErrInvestAmountBelowMinimum                   = errors.Register(Codespace, 1013, "invest amount below minimum")
	ErrAdminAuthorityIncorrect                    = errors.Register(Codespace, 1014, "admin authority incorrect")
	ErrBaseVaultAuthorityIncorrect                = errors.Register(Codespace, 1015, "base vault authority incorrect")
	ErrBaseVaultAuthorityBumpIncorrect            = errors.Register(Codespace, 1016, "base vault authority bump incorrect")
	ErrTokenMintIncorrect                         = errors.Register(Codespace, 1017, "token mint incorrect")
	ErrTokenMintDecimalsIncorrect                 = errors.Register(Codespace, 1018, "token mint decimals incorrect")
	ErrTokenVaultIncorrect                        = errors.Register(Codespace, 1019, "token vault incorrect")
	ErrSharesMintDecimalsIncorrect                = errors.Register(Codespace, 1020, "shares mint decimals incorrect")
	ErrSharesMintIncorrect                        = errors.Register(Codespace, 1021, "shares mint incorrect")
	ErrInitialAccountingIncorrect                 = errors.Register(Codespace, 1022, "initial accounting incorrect")
	ErrReserveIsStale                             = errors.Register(Codespace, 1023, "reserve is stale and must be refreshed before any operation")
	ErrNotEnoughLiquidityDisinvestedToSendToUser  = errors.Register(Codespace, 1024, "not enough liquidity disinvested to send to user")
	ErrBPSValueTooBig                             = errors.Register(Codespace, 1025, "bps value exceeds 10000")
	ErrDepositAmountBelowMinimum                  = errors.Register(Codespace, 1026, "deposited amount is under the minimum required")
	ErrReserveSpaceExhausted                      = errors.Register(Codespace, 1027, "vault is at allocation capacity")
	ErrCannotWithdrawFromEmptyVault               = errors.Register(Codespace, 1028, "cannot withdraw from empty vault")
	ErrTokensDepositedAmountDoesNotMatch          = errors.Register(Codespace, 1029, "tokens deposited amount does not match")
	ErrAmountToWithdrawDoesNotMatch               = errors.Register(Codespace, 1030, "amount to withdraw does not match")
	ErrLiquidityToWithdrawDoesNotMatch            = errors.Register(Codespace, 1031, "liquidity to withdraw does not match")
	ErrUserReceivedAmountDoesNotMatch             = errors.Register(Codespace, 1032, "user received amount does not match")
	ErrSharesBurnedAmountDoesNotMatch             = errors.Register(Codespace, 1033, "shares burned amount does not match")
	ErrDisinvestedLiquidityAmountDoesNotMatch     = errors.Register(Codespace, 1034, "disinvested liquidity amount does not match")
	ErrSharesMintedAmountDoesNotMatch             = errors.Register(Codespace, 1035, "shares minted amount does not match")
	ErrAUMDecreasedAfterInvest                    = errors.Register(Codespace, 1036, "aum decreased after invest")
	ErrAUMBelowPendingFees                        = errors.Register(Codespace, 1037, "aum is below pending fees")
	ErrDepositAmountsZeroShares                   = errors.Register(Codespace, 1038, "deposit amount results in 0 shares")
	ErrWithdrawResultsInZeroShares                = errors.Register(Codespace, 1039, "withdraw amount results in 0 shares")
	ErrCannotWithdrawZeroShares                   = errors.Register(Codespace, 1040, "cannot withdraw zero shares")
	ErrManagementFeeGreaterThanMaxAllowed         = errors.Register(Codespace, 1041, "management fee greater than max allowed")
	ErrVaultAUMZero                               = errors.Register(Codespace, 1042, "vault aum is zero")
	ErrMissingReserveForBatchRefresh              = errors.Register(Codespace, 1043, "missing reserve for batch refresh")
	ErrMinWithdrawAmountTooBig                    = errors.Register(Codespace, 1044, "min withdraw amount is too big")
	ErrInvestTooSoon                              = errors.Register(Codespace, 1045, "invest is called too soon after last invest")
	ErrWrongAdminOrAllocationAdmin                = errors.Register(Codespace, 1046, "wrong admin or allocation admin")
	ErrReserveHasNonZeroAllocationOrCTokens       = errors.Register(Codespace, 1047, "reserve has non-zero allocation or ctokens so cannot be removed")
	ErrDepositAmountGreaterThanRequestedAmount    = errors.Register(Codespace, 1048, "deposit amount greater than requested amount")
	ErrWithdrawAmountLessThanWithdrawalPenalty    = errors.Register(Codespace, 1049, "withdraw amount is less than withdrawal penalty")
	ErrCannotWithdrawZeroLamports                 = errors.Register(Codespace, 1050, "cannot withdraw zero lamports")
	ErrNoUpgradeAuthority                         = errors.Register(Codespace, 1051, "no upgrade authority")
	ErrWithdrawalFeeBPSGreaterThanMaxAllowed      = errors.Register(Codespace, 1052, "withdrawal fee bps greater than max allowed")
	ErrWithdrawalFeeLamportsGreaterThanMaxAllowed = errors.Register(Codespace, 1053, "withdrawal fee lamports greater than max allowed")
	ErrReserveNotWhitelisted                      = errors.Register(Codespace, 1054, "reserve is not whitelisted")
	ErrInvalidBoolLikeValue                       = errors.Register(Codespace, 1055, "invalid bool-like value")

	// Host-side and config decoding errors.
	ErrInvestBalancesDoNotMatch = errors.Register(Codespace, 1100, "invest balances do not match effects")
	ErrInvalidConfigValue       = errors.Register(Codespace, 1101, "invalid config value encoding")
	ErrUnknownConfigField       = errors.Register(Codespace, 1102, "unknown config field")
	ErrNoPendingAdmin           = errors.Register(Codespace, 1103, "no pending admin")
	ErrVaultHalted              = errors.Register(Codespace, 1104, "vault halted after failed consistency check")
)

// Kind groups errors by how a caller should react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindArithmetic
	KindConsistency
	KindAuthorization
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindArithmetic:
		return "arithmetic"
	case KindConsistency:
		return "consistency"
	case KindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

var errorKinds = map[uint32]Kind{}

func init() {
	group := func(kind Kind, errs ...*errors.Error) {
		for _, e := range errs {
			errorKinds[e.ABCICode()] = kind
		}
	}

	group(KindArithmetic,
		ErrMathOverflow, ErrIntegerOverflow, ErrAUMBelowPendingFees, ErrVaultAUMZero,
		ErrDepositAmountsZeroShares, ErrWithdrawResultsInZeroShares, ErrCannotWithdrawFromEmptyVault,
	)
	group(KindConsistency,
		ErrSharesIssuedAmountDoesNotMatch, ErrTooMuchLiquidityToWithdraw, ErrTokensDepositedAmountDoesNotMatch,
		ErrAmountToWithdrawDoesNotMatch, ErrLiquidityToWithdrawDoesNotMatch, ErrUserReceivedAmountDoesNotMatch,
		ErrSharesBurnedAmountDoesNotMatch, ErrDisinvestedLiquidityAmountDoesNotMatch, ErrSharesMintedAmountDoesNotMatch,
		ErrAUMDecreasedAfterInvest, ErrNotEnoughLiquidityDisinvestedToSendToUser, ErrInvestBalancesDoNotMatch,
		ErrVaultHalted,
	)
	group(KindAuthorization,
		ErrAdminAuthorityIncorrect, ErrWrongAdminOrAllocationAdmin, ErrNoUpgradeAuthority, ErrNoPendingAdmin,
	)
	group(KindValidation,
		ErrDepositAmountsZero, ErrWithdrawAmountBelowMinimum, ErrReserveAlreadyExists, ErrReserveNotPartOfAllocations,
		ErrCouldNotDeserializeAccountAsReserve, ErrReserveNotProvidedInTheAccounts, ErrReserveAccountAndKeyMismatch,
		ErrOutOfRangeOfReserveIndex, ErrCannotFindReserveInAllocations, ErrInvestAmountBelowMinimum,
		ErrBaseVaultAuthorityIncorrect, ErrBaseVaultAuthorityBumpIncorrect, ErrTokenMintIncorrect,
		ErrTokenMintDecimalsIncorrect, ErrTokenVaultIncorrect, ErrSharesMintDecimalsIncorrect, ErrSharesMintIncorrect,
		ErrInitialAccountingIncorrect, ErrReserveIsStale, ErrBPSValueTooBig, ErrDepositAmountBelowMinimum,
		ErrReserveSpaceExhausted, ErrCannotWithdrawZeroShares, ErrManagementFeeGreaterThanMaxAllowed,
		ErrMissingReserveForBatchRefresh, ErrMinWithdrawAmountTooBig, ErrInvestTooSoon,
		ErrReserveHasNonZeroAllocationOrCTokens, ErrDepositAmountGreaterThanRequestedAmount,
		ErrWithdrawAmountLessThanWithdrawalPenalty, ErrCannotWithdrawZeroLamports,
		ErrWithdrawalFeeBPSGreaterThanMaxAllowed, ErrWithdrawalFeeLamportsGreaterThanMaxAllowed,
		ErrReserveNotWhitelisted, ErrInvalidBoolLikeValue, ErrInvalidConfigValue, ErrUnknownConfigField,
	)
}

// KindOf reports the group of a vault error, or KindUnknown for errors from
// other packages.
func KindOf(err error) Kind {
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Codespace() != Codespace {
		return KindUnknown
	}
	return errorKinds[e.ABCICode()]
}

// IsFatal reports whether err signals broken accounting. Such errors must not
// be retried.
func IsFatal(err error) bool {
	return KindOf(err) == KindConsistency
}
