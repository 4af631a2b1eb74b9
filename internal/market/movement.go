package market

import (
	"context"
	"fmt"

	"github.com/LeJamon/goYieldVault/internal/core/types"
)

// Kind selects what a Movement does.
type Kind uint8

const (
	// KindTransfer moves Amount from From to To.
	KindTransfer Kind = iota
	// KindMint issues Amount of Asset into To.
	KindMint
	// KindBurn destroys Amount of Asset held in From.
	KindBurn
	// KindDepositLiquidity moves Amount liquidity from From into reserve
	// Asset and credits the collateral it is worth to To.
	KindDepositLiquidity
	// KindRedeemCollateral returns Amount collateral held in From to reserve
	// Asset and credits the liquidity it is worth to To.
	KindRedeemCollateral
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindTransfer:
		return "transfer"
	case KindMint:
		return "mint"
	case KindBurn:
		return "burn"
	case KindDepositLiquidity:
		return "deposit_liquidity"
	case KindRedeemCollateral:
		return "redeem_collateral"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Movement is one asset transfer. Asset is the mint for KindMint and KindBurn
// and the reserve for deposits and redemptions.
type Movement struct {
	Kind   Kind
	Asset  types.Address
	From   types.Address
	To     types.Address
	Amount uint64
}

// String implements fmt.Stringer.
func (mv Movement) String() string {
	return fmt.Sprintf("%s %d %s -> %s", mv.Kind, mv.Amount, mv.From.Short(), mv.To.Short())
}

func Transfer(from, to types.Address, amount uint64) Movement {
	return Movement{Kind: KindTransfer, From: from, To: to, Amount: amount}
}

func Mint(mint, to types.Address, amount uint64) Movement {
	return Movement{Kind: KindMint, Asset: mint, To: to, Amount: amount}
}

func Burn(mint, from types.Address, amount uint64) Movement {
	return Movement{Kind: KindBurn, Asset: mint, From: from, Amount: amount}
}

func DepositLiquidity(reserve, from, collateralTo types.Address, liquidity uint64) Movement {
	return Movement{Kind: KindDepositLiquidity, Asset: reserve, From: from, To: collateralTo, Amount: liquidity}
}

func RedeemCollateral(reserve, collateralFrom, to types.Address, collateral uint64) Movement {
	return Movement{Kind: KindRedeemCollateral, Asset: reserve, From: collateralFrom, To: to, Amount: collateral}
}

type ledgerKind uint8

const (
	ledgerAccount ledgerKind = iota
	ledgerSupply
	ledgerAvailable
	ledgerCollateral
)

// delta is one applied balance change, kept so a batch can be undone without
// disturbing changes made by others in between.
type delta struct {
	kind   ledgerKind
	key    types.Address
	amount uint64
	credit bool
}

// batch applies movements on the live maps and remembers every change.
type batch struct {
	m      *Market
	deltas []delta
}

func (b *batch) value(kind ledgerKind, key types.Address) uint64 {
	switch kind {
	case ledgerAccount:
		return b.m.accounts[key]
	case ledgerSupply:
		return b.m.supply[key]
	case ledgerAvailable:
		return b.m.reserves[key].AvailableLiquidity
	default:
		return b.m.reserves[key].CollateralSupply
	}
}

func (b *batch) store(kind ledgerKind, key types.Address, v uint64) {
	switch kind {
	case ledgerAccount:
		b.m.accounts[key] = v
	case ledgerSupply:
		b.m.supply[key] = v
	case ledgerAvailable:
		b.m.reserves[key].AvailableLiquidity = v
	default:
		b.m.reserves[key].CollateralSupply = v
	}
}

func (b *batch) credit(kind ledgerKind, key types.Address, amount uint64) error {
	cur := b.value(kind, key)
	if cur+amount < cur {
		return fmt.Errorf("balance overflow on %s", key.Short())
	}
	b.store(kind, key, cur+amount)
	b.deltas = append(b.deltas, delta{kind: kind, key: key, amount: amount, credit: true})
	return nil
}

func (b *batch) debit(kind ledgerKind, key types.Address, amount uint64, insufficient error) error {
	cur := b.value(kind, key)
	if cur < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", insufficient, key.Short(), cur, amount)
	}
	b.store(kind, key, cur-amount)
	b.deltas = append(b.deltas, delta{kind: kind, key: key, amount: amount})
	return nil
}

// revert undoes every recorded change, newest first.
func (b *batch) revert() {
	for i := len(b.deltas) - 1; i >= 0; i-- {
		d := b.deltas[i]
		cur := b.value(d.kind, d.key)
		if d.credit {
			b.store(d.kind, d.key, cur-d.amount)
		} else {
			b.store(d.kind, d.key, cur+d.amount)
		}
	}
	b.deltas = nil
}

func (b *batch) apply(mv Movement) error {
	if mv.Amount == 0 {
		return nil
	}

	switch mv.Kind {
	case KindTransfer:
		if err := b.debit(ledgerAccount, mv.From, mv.Amount, ErrInsufficientFunds); err != nil {
			return err
		}
		return b.credit(ledgerAccount, mv.To, mv.Amount)

	case KindMint:
		if err := b.credit(ledgerSupply, mv.Asset, mv.Amount); err != nil {
			return err
		}
		return b.credit(ledgerAccount, mv.To, mv.Amount)

	case KindBurn:
		if err := b.debit(ledgerAccount, mv.From, mv.Amount, ErrInsufficientFunds); err != nil {
			return err
		}
		return b.debit(ledgerSupply, mv.Asset, mv.Amount, ErrInsufficientFunds)

	case KindDepositLiquidity:
		r, ok := b.m.reserves[mv.Asset]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownReserve, mv.Asset)
		}
		collateral, err := r.Rate().LiquidityToCollateral(mv.Amount)
		if err != nil {
			return fmt.Errorf("deposit %d into %s: %w", mv.Amount, mv.Asset.Short(), err)
		}
		if err := b.debit(ledgerAccount, mv.From, mv.Amount, ErrInsufficientFunds); err != nil {
			return err
		}
		if err := b.credit(ledgerAvailable, mv.Asset, mv.Amount); err != nil {
			return err
		}
		if err := b.credit(ledgerCollateral, mv.Asset, collateral); err != nil {
			return err
		}
		return b.credit(ledgerAccount, mv.To, collateral)

	case KindRedeemCollateral:
		r, ok := b.m.reserves[mv.Asset]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownReserve, mv.Asset)
		}
		liquidity, err := r.Rate().CollateralToLiquidity(mv.Amount).Floor()
		if err != nil {
			return fmt.Errorf("redeem %d from %s: %w", mv.Amount, mv.Asset.Short(), err)
		}
		if err := b.debit(ledgerAccount, mv.From, mv.Amount, ErrInsufficientFunds); err != nil {
			return err
		}
		if err := b.debit(ledgerCollateral, mv.Asset, mv.Amount, ErrInsufficientFunds); err != nil {
			return err
		}
		if err := b.debit(ledgerAvailable, mv.Asset, liquidity, ErrInsufficientLiquidity); err != nil {
			return err
		}
		return b.credit(ledgerAccount, mv.To, liquidity)

	default:
		return fmt.Errorf("unknown movement kind %d", mv.Kind)
	}
}

// Execute applies every movement in order, or none of them. The returned
// undo reverses the batch; it must be called at most once.
func (m *Market) Execute(ctx context.Context, moves []Movement) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := &batch{m: m}
	for i, mv := range moves {
		if err := b.apply(mv); err != nil {
			b.revert()
			return nil, fmt.Errorf("movement %d (%s): %w", i, mv, err)
		}
	}

	undo := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		b.revert()
	}
	return undo, nil
}
