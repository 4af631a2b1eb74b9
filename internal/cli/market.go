package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goYieldVault/internal/auth"
	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

// newMarketCmd edits the simulated lending market the vault invests in.
func newMarketCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Inspect and edit the simulated lending market",
	}

	// mintOf returns the --mint flag, or the vault's token mint.
	mintOf := func(cmd *cobra.Command, a *app, flag string) (types.Address, error) {
		if flag != "" {
			return parseAddress("mint", flag)
		}
		st, err := a.store.LoadVault(cmd.Context(), a.vault)
		if errors.Is(err, vaultstore.ErrVaultNotFound) {
			return types.Address{}, fmt.Errorf("--mint is required before the vault is initialized")
		}
		if err != nil {
			return types.Address{}, err
		}
		return st.TokenMint, nil
	}

	var fundMint string
	fund := &cobra.Command{
		Use:   "fund <owner> <amount>",
		Short: "Credit tokens to an owner's token account",
		Long: `Credit tokens to an owner's token account. The owner is hex, a name, or
"self" for the configured identity.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[1])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				owner, err := resolveOwner(opts, args[0])
				if err != nil {
					return err
				}
				mint, err := mintOf(cmd, a, fundMint)
				if err != nil {
					return err
				}
				account := market.DeriveAccount(owner, mint)
				a.market.Fund(account, amount)
				opts.printf("account %s balance %d\n", account.Short(), a.market.BalanceOf(account))
				return a.saveMarket()
			})
		},
	}
	fund.Flags().StringVar(&fundMint, "mint", "", "token mint (default the vault's)")

	var (
		reserveMint string
		available   uint64
		borrowed    uint64
		collateral  uint64
	)
	addReserve := &cobra.Command{
		Use:   "add-reserve <reserve>",
		Short: "List a reserve, fresh at the current slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress("reserve", args[0])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				mint, err := mintOf(cmd, a, reserveMint)
				if err != nil {
					return err
				}
				a.market.AddReserve(market.Reserve{
					Address:            addr,
					LiquidityMint:      mint,
					AvailableLiquidity: available,
					BorrowedLiquidity:  borrowed,
					CollateralSupply:   collateral,
					LastUpdateSlot:     a.clock.Now().Slot,
				})
				opts.printf("reserve %s listed\n", addr)
				return a.saveMarket()
			})
		},
	}
	addReserve.Flags().StringVar(&reserveMint, "mint", "", "liquidity mint (default the vault's)")
	addReserve.Flags().Uint64Var(&available, "available", 0, "available liquidity")
	addReserve.Flags().Uint64Var(&borrowed, "borrowed", 0, "borrowed liquidity")
	addReserve.Flags().Uint64Var(&collateral, "collateral", 0, "collateral supply")

	accrue := &cobra.Command{
		Use:   "accrue <reserve> <interest>",
		Short: "Add interest to a reserve's borrowed liquidity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress("reserve", args[0])
			if err != nil {
				return err
			}
			interest, err := parseAmount("interest", args[1])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				if err := a.market.Accrue(addr, interest); err != nil {
					return err
				}
				r, err := a.market.Reserve(addr)
				if err != nil {
					return err
				}
				opts.printf("reserve %s rate %s\n", addr.Short(), r.Rate())
				return a.saveMarket()
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List reserves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				w := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "RESERVE\tAVAILABLE\tBORROWED\tCOLLATERAL\tRATE\tLAST UPDATE\tFROZEN")
				for _, r := range a.market.Reserves() {
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%d\t%t\n",
						r.Address, r.AvailableLiquidity, r.BorrowedLiquidity, r.CollateralSupply,
						r.Rate(), r.LastUpdateSlot, r.Frozen)
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(fund, addReserve, accrue, list)
	return cmd
}

// resolveOwner maps "self" to the configured identity.
func resolveOwner(opts *rootOptions, s string) (types.Address, error) {
	if s != "self" {
		return parseAddress("owner", s)
	}
	id, err := auth.LoadIdentity(opts.identityPath())
	if err != nil {
		return types.Address{}, fmt.Errorf("load identity: %w", err)
	}
	return id.Address(), nil
}
