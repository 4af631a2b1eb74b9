// Package market simulates the lending market a vault invests in: reserves
// with an exchange rate between liquidity and collateral, and the token
// accounts assets move between.
//
// The market never accrues interest. Tests and fixtures emulate growth by
// raising a reserve's borrowed liquidity.
package market

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goYieldVault/internal/core/fraction"
	"github.com/LeJamon/goYieldVault/internal/core/reserve"
	"github.com/LeJamon/goYieldVault/internal/core/types"
)

var (
	// ErrUnknownReserve is returned for a reserve the market does not list.
	ErrUnknownReserve = errors.New("unknown reserve")

	// ErrInsufficientFunds is returned when an account cannot cover a debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientLiquidity is returned when a reserve cannot pay out a redemption.
	ErrInsufficientLiquidity = errors.New("insufficient reserve liquidity")
)

// Reserve is a lending reserve.
type Reserve struct {
	Address            types.Address
	LiquidityMint      types.Address
	AvailableLiquidity uint64
	BorrowedLiquidity  uint64
	CollateralSupply   uint64
	LastUpdateSlot     uint64
	// Frozen reserves ignore Refresh and so go stale.
	Frozen bool
}

// TotalLiquidity is available plus borrowed liquidity.
func (r *Reserve) TotalLiquidity() uint64 {
	return r.AvailableLiquidity + r.BorrowedLiquidity
}

// Rate is the reserve's collateral per unit of liquidity.
func (r *Reserve) Rate() reserve.ExchangeRate {
	return reserve.NewExchangeRate(r.CollateralSupply, fraction.FromUint64(r.TotalLiquidity()))
}

// Market holds reserves, token account balances and mint supplies.
type Market struct {
	mu             sync.Mutex
	stalenessSlots uint64
	reserves       map[types.Address]*Reserve
	accounts       map[types.Address]uint64
	supply         map[types.Address]uint64
}

// New returns an empty market. A reserve is stale once more than
// stalenessSlots slots have passed since its last refresh.
func New(stalenessSlots uint64) *Market {
	return &Market{
		stalenessSlots: stalenessSlots,
		reserves:       make(map[types.Address]*Reserve),
		accounts:       make(map[types.Address]uint64),
		supply:         make(map[types.Address]uint64),
	}
}

// SetStalenessSlots changes how long a refreshed reserve stays fresh.
func (m *Market) SetStalenessSlots(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stalenessSlots = n
}

// DeriveAccount returns the token account of owner for mint.
func DeriveAccount(owner, mint types.Address) types.Address {
	return DeriveAddress("account", owner[:], mint[:])
}

// DeriveAddress hashes a label and seeds into an address.
func DeriveAddress(label string, seeds ...[]byte) types.Address {
	h := sha256.New()
	h.Write([]byte(label))
	for _, s := range seeds {
		h.Write(s)
	}
	var a types.Address
	copy(a[:], h.Sum(nil))
	return a
}

// AddReserve lists r. An existing reserve with the same address is replaced.
func (m *Market) AddReserve(r Reserve) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserves[r.Address] = &r
}

// Reserve returns a copy of the reserve at addr.
func (m *Market) Reserve(addr types.Address) (Reserve, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reserves[addr]
	if !ok {
		return Reserve{}, fmt.Errorf("%w: %s", ErrUnknownReserve, addr)
	}
	return *r, nil
}

// UpdateReserve applies fn to the reserve at addr.
func (m *Market) UpdateReserve(addr types.Address, fn func(*Reserve)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reserves[addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReserve, addr)
	}
	fn(r)
	return nil
}

// Accrue adds interest to a reserve's borrowed liquidity, raising the value
// of its collateral.
func (m *Market) Accrue(addr types.Address, interest uint64) error {
	return m.UpdateReserve(addr, func(r *Reserve) { r.BorrowedLiquidity += interest })
}

// Fund credits amount to account, minting it from nowhere.
func (m *Market) Fund(account types.Address, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account] += amount
}

// SetBalance overwrites the balance of account.
func (m *Market) SetBalance(account types.Address, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account] = amount
}

// BalanceOf returns the balance of account.
func (m *Market) BalanceOf(account types.Address) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[account]
}

// Supply returns the outstanding supply of a mint.
func (m *Market) Supply(mint types.Address) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supply[mint]
}

// Reserves returns a copy of every reserve in address order.
func (m *Market) Reserves() []Reserve {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Reserve, 0, len(m.reserves))
	for _, r := range m.reserves {
		out = append(out, *r)
	}
	sortReserves(out)
	return out
}
