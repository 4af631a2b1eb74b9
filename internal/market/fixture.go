package market

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// Fixture is the YAML form of a market. Addresses are 64 hex characters or a
// name, which is hashed into an address (see ResolveAddress).
type Fixture struct {
	StalenessSlots uint64           `yaml:"staleness_slots"`
	Reserves       []ReserveFixture `yaml:"reserves"`
	Accounts       []AccountFixture `yaml:"accounts,omitempty"`
	Supplies       []SupplyFixture  `yaml:"supplies,omitempty"`
}

// ReserveFixture describes one reserve.
type ReserveFixture struct {
	Address            string `yaml:"address"`
	LiquidityMint      string `yaml:"liquidity_mint"`
	AvailableLiquidity uint64 `yaml:"available_liquidity"`
	BorrowedLiquidity  uint64 `yaml:"borrowed_liquidity"`
	CollateralSupply   uint64 `yaml:"collateral_supply"`
	LastUpdateSlot     uint64 `yaml:"last_update_slot"`
	Frozen             bool   `yaml:"frozen,omitempty"`
}

// AccountFixture funds a token account, given directly or as owner and mint.
type AccountFixture struct {
	Address string `yaml:"address,omitempty"`
	Owner   string `yaml:"owner,omitempty"`
	Mint    string `yaml:"mint,omitempty"`
	Amount  uint64 `yaml:"amount"`
}

// SupplyFixture sets the outstanding supply of a mint.
type SupplyFixture struct {
	Mint   string `yaml:"mint"`
	Amount uint64 `yaml:"amount"`
}

// ResolveAddress parses hex addresses and hashes anything else as a name, so
// fixtures and the command line can say "alice" or "usdc".
func ResolveAddress(s string) (types.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Address{}, fmt.Errorf("%w: empty", types.ErrInvalidAddress)
	}
	if a, err := types.ParseAddress(s); err == nil {
		return a, nil
	}
	return DeriveAddress("name", []byte(s)), nil
}

func (a AccountFixture) account() (types.Address, error) {
	if a.Address != "" {
		return ResolveAddress(a.Address)
	}
	owner, err := ResolveAddress(a.Owner)
	if err != nil {
		return types.Address{}, fmt.Errorf("owner: %w", err)
	}
	mint, err := ResolveAddress(a.Mint)
	if err != nil {
		return types.Address{}, fmt.Errorf("mint: %w", err)
	}
	return DeriveAccount(owner, mint), nil
}

// FromFixture builds a market from f.
func FromFixture(f *Fixture) (*Market, error) {
	m := New(f.StalenessSlots)

	for i, rf := range f.Reserves {
		addr, err := ResolveAddress(rf.Address)
		if err != nil {
			return nil, fmt.Errorf("reserve %d: %w", i, err)
		}
		mint, err := ResolveAddress(rf.LiquidityMint)
		if err != nil {
			return nil, fmt.Errorf("reserve %d liquidity mint: %w", i, err)
		}
		m.reserves[addr] = &Reserve{
			Address:            addr,
			LiquidityMint:      mint,
			AvailableLiquidity: rf.AvailableLiquidity,
			BorrowedLiquidity:  rf.BorrowedLiquidity,
			CollateralSupply:   rf.CollateralSupply,
			LastUpdateSlot:     rf.LastUpdateSlot,
			Frozen:             rf.Frozen,
		}
	}

	for i, af := range f.Accounts {
		addr, err := af.account()
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		m.accounts[addr] += af.Amount
	}

	for i, sf := range f.Supplies {
		mint, err := ResolveAddress(sf.Mint)
		if err != nil {
			return nil, fmt.Errorf("supply %d: %w", i, err)
		}
		m.supply[mint] = sf.Amount
	}
	return m, nil
}

// Fixture returns the current state as a fixture with every address in hex.
func (m *Market) Fixture() *Fixture {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := &Fixture{StalenessSlots: m.stalenessSlots}

	reserves := make([]Reserve, 0, len(m.reserves))
	for _, r := range m.reserves {
		reserves = append(reserves, *r)
	}
	sortReserves(reserves)
	for _, r := range reserves {
		f.Reserves = append(f.Reserves, ReserveFixture{
			Address:            r.Address.String(),
			LiquidityMint:      r.LiquidityMint.String(),
			AvailableLiquidity: r.AvailableLiquidity,
			BorrowedLiquidity:  r.BorrowedLiquidity,
			CollateralSupply:   r.CollateralSupply,
			LastUpdateSlot:     r.LastUpdateSlot,
			Frozen:             r.Frozen,
		})
	}

	for _, addr := range sortedKeys(m.accounts) {
		f.Accounts = append(f.Accounts, AccountFixture{Address: addr.String(), Amount: m.accounts[addr]})
	}
	for _, mint := range sortedKeys(m.supply) {
		f.Supplies = append(f.Supplies, SupplyFixture{Mint: mint.String(), Amount: m.supply[mint]})
	}
	return f
}

func sortedKeys(balances map[types.Address]uint64) []types.Address {
	keys := make([]types.Address, 0, len(balances))
	for k, v := range balances {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i][:], keys[j][:]) < 0 })
	return keys
}

// Load reads a YAML fixture from path.
func Load(path string) (*Market, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read market fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse market fixture: %w", err)
	}
	return FromFixture(&f)
}

// Save writes the current state to path as YAML.
func (m *Market) Save(path string) error {
	data, err := yaml.Marshal(m.Fixture())
	if err != nil {
		return fmt.Errorf("encode market state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write market state: %w", err)
	}
	return nil
}
