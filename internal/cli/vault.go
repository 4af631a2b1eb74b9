package cli

import (
	"github.com/spf13/cobra"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/service"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		mint           string
		decimals       uint8
		sharesDecimals uint8
		tokenProgram   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the vault with the signer as admin",
		Long: `Create the vault named by the configuration. The signer becomes the
vault admin and pays the seed deposit from their token account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				tokenMint, err := parseAddress("mint", mint)
				if err != nil {
					return err
				}
				var program types.Address
				if tokenProgram != "" {
					if program, err = parseAddress("token program", tokenProgram); err != nil {
						return err
					}
				}
				admin, err := a.sign(a.service(), vaultstore.OpInit, []string{mint})
				if err != nil {
					return err
				}
				_, entry, err := service.Initialize(ctx, a.vault, service.InitRequest{
					Admin:              admin,
					AdminTokenAccount:  market.DeriveAccount(admin, tokenMint),
					TokenMint:          tokenMint,
					TokenMintDecimals:  decimals,
					TokenProgram:       program,
					SharesMintDecimals: sharesDecimals,
				}, a.deps())
				return a.commit(entry, err)
			})
		},
	}

	cmd.Flags().StringVar(&mint, "mint", "", "token mint the vault accepts (hex or name)")
	cmd.Flags().Uint8Var(&decimals, "decimals", 6, "decimals of the token mint")
	cmd.Flags().Uint8Var(&sharesDecimals, "shares-decimals", 6, "decimals of the shares mint")
	cmd.Flags().StringVar(&tokenProgram, "token-program", "", "token program of the mint")
	_ = cmd.MarkFlagRequired("mint")
	return cmd
}

func newDepositCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Deposit tokens for shares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, err := parseAmount("amount", args[0])
			if err != nil {
				return err
			}
			return withApp(ctx, opts, func(a *app) error {
				st, err := a.state(ctx)
				if err != nil {
					return err
				}
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpDeposit, args)
				if err != nil {
					return err
				}
				return a.commit(svc.Deposit(ctx, service.DepositRequest{
					Signer:            signer,
					UserTokenAccount:  market.DeriveAccount(signer, st.TokenMint),
					UserSharesAccount: market.DeriveAccount(signer, st.SharesMint),
					MaxAmount:         amount,
				}))
			})
		},
	}
}

func newWithdrawCmd(opts *rootOptions) *cobra.Command {
	var reserveName string

	cmd := &cobra.Command{
		Use:   "withdraw <shares>",
		Short: "Redeem shares for tokens",
		Long: `Redeem shares for tokens. Without --reserve only tokens held by the vault
are paid out; with it the rest is redeemed from that reserve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			shares, err := parseAmount("shares", args[0])
			if err != nil {
				return err
			}
			var reserve types.Address
			if reserveName != "" {
				if reserve, err = parseAddress("reserve", reserveName); err != nil {
					return err
				}
			}
			return withApp(ctx, opts, func(a *app) error {
				st, err := a.state(ctx)
				if err != nil {
					return err
				}
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpWithdraw, args)
				if err != nil {
					return err
				}
				return a.commit(svc.Withdraw(ctx, service.WithdrawRequest{
					Signer:            signer,
					UserTokenAccount:  market.DeriveAccount(signer, st.TokenMint),
					UserSharesAccount: market.DeriveAccount(signer, st.SharesMint),
					Shares:            shares,
					Reserve:           reserve,
				}))
			})
		},
	}

	cmd.Flags().StringVar(&reserveName, "reserve", "", "reserve to redeem the invested part from")
	return cmd
}

func newInvestCmd(opts *rootOptions) *cobra.Command {
	var payer string

	cmd := &cobra.Command{
		Use:   "invest <reserve>",
		Short: "Move one reserve towards its target allocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reserve, err := parseAddress("reserve", args[0])
			if err != nil {
				return err
			}
			return withApp(ctx, opts, func(a *app) error {
				st, err := a.state(ctx)
				if err != nil {
					return err
				}
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpInvest, args)
				if err != nil {
					return err
				}
				owner := signer
				if payer != "" {
					if owner, err = parseAddress("payer", payer); err != nil {
						return err
					}
				}
				return a.commit(svc.Invest(ctx, service.InvestRequest{
					Signer:            signer,
					Reserve:           reserve,
					PayerTokenAccount: market.DeriveAccount(owner, st.TokenMint),
				}))
			})
		},
	}

	cmd.Flags().StringVar(&payer, "payer", "", "owner of the token account covering rounding losses (default signer)")
	return cmd
}

func newFeesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Collect or forgive pending fees",
	}

	var reserveName string
	withdraw := &cobra.Command{
		Use:   "withdraw",
		Short: "Pay pending fees to the admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var reserve types.Address
			if reserveName != "" {
				var err error
				if reserve, err = parseAddress("reserve", reserveName); err != nil {
					return err
				}
			}
			return withApp(ctx, opts, func(a *app) error {
				st, err := a.state(ctx)
				if err != nil {
					return err
				}
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpWithdrawPendingFees, []string{reserveName})
				if err != nil {
					return err
				}
				return a.commit(svc.WithdrawPendingFees(ctx, signer, market.DeriveAccount(signer, st.TokenMint), reserve))
			})
		},
	}
	withdraw.Flags().StringVar(&reserveName, "reserve", "", "reserve to redeem the part not held by the vault from")

	giveUp := &cobra.Command{
		Use:   "give-up <max>",
		Short: "Forgive up to max pending fees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			maxAmount, err := parseAmount("max", args[0])
			if err != nil {
				return err
			}
			return withApp(ctx, opts, func(a *app) error {
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpGiveUpPendingFees, args)
				if err != nil {
					return err
				}
				return a.commit(svc.GiveUpPendingFees(ctx, signer, maxAmount))
			})
		},
	}

	cmd.AddCommand(withdraw, giveUp)
	return cmd
}
