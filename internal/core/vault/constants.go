package vault

const (
	// MaxReserves is the capacity of the allocation table.
	MaxReserves = 25

	// InitialDepositAmount is the seed deposit made when a vault is created.
	InitialDepositAmount uint64 = 1000

	// SecondsPerYear is 365.242199 days, rounded up.
	SecondsPerYear uint64 = 31_556_926

	// MaxMgmtFeeBps caps the yearly management fee.
	MaxMgmtFeeBps uint64 = 1000

	// UpperLimitMinWithdrawAmount caps the configurable minimum withdrawal.
	UpperLimitMinWithdrawAmount uint64 = 1000

	// MaxWithdrawalPenaltyBps caps the withdrawal penalty rate.
	MaxWithdrawalPenaltyBps uint64 = 1000

	// MaxWithdrawalPenaltyLamports caps the flat withdrawal penalty.
	MaxWithdrawalPenaltyLamports uint64 = 10_000

	// NameLength is the size of the padded display name.
	NameLength = 40
)
