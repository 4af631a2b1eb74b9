package cli

import (
	"github.com/spf13/cobra"

	"github.com/LeJamon/goYieldVault/internal/core/types"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
	"github.com/LeJamon/goYieldVault/internal/service"
	"github.com/LeJamon/goYieldVault/internal/storage/vaultstore"
)

func newAllocationCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocation",
		Short: "Manage the reserves the vault invests in",
	}

	var (
		weight      uint64
		allocCap    uint64
		ctokenVault string
	)
	upsert := &cobra.Command{
		Use:   "upsert <reserve>",
		Short: "Add a reserve or change its weight and cap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reserve, err := parseAddress("reserve", args[0])
			if err != nil {
				return err
			}
			var ctokVault types.Address
			if ctokenVault != "" {
				if ctokVault, err = parseAddress("ctoken vault", ctokenVault); err != nil {
					return err
				}
			}
			return withApp(ctx, opts, func(a *app) error {
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpUpsertAllocation, args)
				if err != nil {
					return err
				}
				return a.commit(svc.UpsertAllocation(ctx, signer, vault.AllocationParams{
					Reserve:     reserve,
					CTokenVault: ctokVault,
					Weight:      weight,
					Cap:         allocCap,
				}))
			})
		},
	}
	upsert.Flags().Uint64Var(&weight, "weight", 0, "target allocation weight")
	upsert.Flags().Uint64Var(&allocCap, "cap", ^uint64(0), "maximum liquidity invested in the reserve")
	upsert.Flags().StringVar(&ctokenVault, "ctoken-vault", "", "account holding the vault's collateral (default derived)")
	_ = upsert.MarkFlagRequired("weight")

	remove := &cobra.Command{
		Use:   "remove <reserve>",
		Short: "Remove a drained reserve with zero weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reserve, err := parseAddress("reserve", args[0])
			if err != nil {
				return err
			}
			return withApp(ctx, opts, func(a *app) error {
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpRemoveAllocation, args)
				if err != nil {
					return err
				}
				return a.commit(svc.RemoveAllocation(ctx, signer, reserve))
			})
		},
	}

	cmd.AddCommand(upsert, remove)
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Change vault settings",
	}

	set := &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set one vault setting",
		Long: `Set one vault setting. Fields are named as in the vault record, for
example PerformanceFeeBps, MinInvestDelaySlots, PendingVaultAdmin or Name.
Address values are hex or names, flags are 0 or 1.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			field, err := vault.ParseConfigField(args[0])
			if err != nil {
				return err
			}
			data, err := encodeConfigValue(field, args[1])
			if err != nil {
				return err
			}
			return withApp(ctx, opts, func(a *app) error {
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpUpdateConfig, args)
				if err != nil {
					return err
				}
				return a.commit(svc.UpdateConfig(ctx, signer, field, data))
			})
		},
	}

	cmd.AddCommand(set)
	return cmd
}

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Vault admin handover",
	}

	accept := &cobra.Command{
		Use:   "accept",
		Short: "Become vault admin as the pending admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				svc := a.service()
				signer, err := a.sign(svc, vaultstore.OpAcceptAdmin, args)
				if err != nil {
					return err
				}
				return a.commit(svc.AcceptAdmin(ctx, signer))
			})
		},
	}

	cmd.AddCommand(accept)
	return cmd
}

func newGlobalCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "global",
		Short: "Settings shared by every vault",
	}

	printConfig := func(g *vault.GlobalConfig) {
		opts.printf("global admin:   %s\n", g.GlobalAdmin)
		opts.printf("pending admin:  %s\n", g.PendingAdmin)
		opts.printf("min penalty:    %d lamports, %d bps\n", g.MinWithdrawalPenaltyLamports, g.MinWithdrawalPenaltyBps)
	}

	// runGlobal signs op and hands the signer to fn.
	runGlobal := func(cmd *cobra.Command, op string, args []string, fn func(g *service.GlobalAdmin, signer types.Address) (*vault.GlobalConfig, error)) error {
		return withApp(cmd.Context(), opts, func(a *app) error {
			signer, err := a.sign(a.service(), op, args)
			if err != nil {
				return err
			}
			g, err := fn(service.NewGlobalAdmin(a.store), signer)
			if err != nil {
				return err
			}
			printConfig(g)
			return nil
		})
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the global config with the signer as upgrade authority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGlobal(cmd, "init_global_config", args, func(g *service.GlobalAdmin, signer types.Address) (*vault.GlobalConfig, error) {
				return g.Init(cmd.Context(), signer)
			})
		},
	}

	update := &cobra.Command{
		Use:   "update <mode> <value>",
		Short: "Change a global setting",
		Long: `Change a global setting. Modes are PendingAdmin,
MinWithdrawalPenaltyLamports and MinWithdrawalPenaltyBPS.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseGlobalMode(args[0])
			if err != nil {
				return err
			}
			data, err := encodeGlobalValue(mode, args[1])
			if err != nil {
				return err
			}
			return runGlobal(cmd, "update_global_config", args, func(g *service.GlobalAdmin, signer types.Address) (*vault.GlobalConfig, error) {
				return g.Update(cmd.Context(), signer, mode, data)
			})
		},
	}

	accept := &cobra.Command{
		Use:   "accept",
		Short: "Become global admin as the pending admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGlobal(cmd, "update_global_config_admin", args, func(g *service.GlobalAdmin, signer types.Address) (*vault.GlobalConfig, error) {
				return g.AcceptAdmin(cmd.Context(), signer)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				g, err := service.NewGlobalAdmin(a.store).Config(cmd.Context())
				if err != nil {
					return err
				}
				printConfig(g)
				return nil
			})
		},
	}

	cmd.AddCommand(initCmd, update, accept, show)
	return cmd
}

func newWhitelistCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Approve reserves for the vault's token",
	}

	set := &cobra.Command{
		Use:   "set <reserve> <invest|add-allocation> <0|1>",
		Short: "Grant or revoke one approval for a reserve",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reserve, err := parseAddress("reserve", args[0])
			if err != nil {
				return err
			}
			mode, err := vault.ParseWhitelistMode(args[1])
			if err != nil {
				return err
			}
			value, err := parseBoolLike(args[2])
			if err != nil {
				return err
			}
			return withApp(ctx, opts, func(a *app) error {
				st, err := a.state(ctx)
				if err != nil {
					return err
				}
				signer, err := a.sign(a.service(), "update_reserve_whitelist_mode", args)
				if err != nil {
					return err
				}
				e, err := service.NewGlobalAdmin(a.store).UpdateWhitelist(ctx, signer, st.TokenMint, reserve, mode, value)
				if err != nil {
					return err
				}
				opts.printf("reserve %s: invest=%t add-allocation=%t\n", reserve.Short(), e.IsInvestWhitelisted(), e.IsAddAllocationWhitelisted())
				return nil
			})
		},
	}

	cmd.AddCommand(set)
	return cmd
}
