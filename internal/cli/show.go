package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the vault's accounting at the current slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				sum, err := a.service().Show(ctx)
				if err != nil {
					return err
				}
				st := sum.State

				opts.printf("vault:           %s (%s)\n", st.DisplayName(), sum.Vault)
				opts.printf("admin:           %s\n", st.VaultAdmin)
				if st.PendingAdmin.Set {
					opts.printf("pending admin:   %s\n", st.PendingAdmin.Address)
				}
				opts.printf("token mint:      %s\n", st.TokenMint)
				opts.printf("shares issued:   %d\n", st.SharesIssued)
				opts.printf("token available: %d\n", st.TokenAvailable)
				opts.printf("invested:        %s\n", sum.Holdings.Invested.Total)
				opts.printf("pending fees:    %s\n", st.PendingFees)
				opts.printf("aum:             %s\n", sum.AUM)
				opts.printf("share price:     %s\n", sum.SharePrice)
				opts.printf("fees:            perf %d bps, mgmt %d bps\n", st.PerformanceFeeBps, st.ManagementFeeBps)

				if st.ReservesCount() == 0 {
					return nil
				}
				w := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "\nRESERVE\tWEIGHT\tCAP\tCTOKENS\tINVESTED\tTARGET\tLAST INVEST\tSTALE")
				live := 0
				for i, alloc := range st.Allocations {
					if alloc.IsEmpty() {
						continue
					}
					inv := sum.Holdings.Invested.Allocations[i]
					stale := live < len(sum.Snapshots) && sum.Snapshots[live].Stale
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%d\t%t\n",
						alloc.Reserve.Short(), alloc.TargetAllocationWeight, alloc.TokenAllocationCap,
						alloc.CTokenAllocation, inv.LiquidityAmount, alloc.TokenTargetAllocation,
						alloc.LastInvestSlot, stale)
					live++
				}
				return w.Flush()
			})
		},
	}
}

func newJournalCmd(opts *rootOptions) *cobra.Command {
	var (
		from  uint64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List committed operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				entries, err := a.store.Journal(ctx, a.vault, from, limit)
				if err != nil {
					return err
				}
				for _, e := range entries {
					opts.printf("%s\n", e)
				}
				return nil
			})
		},
	}

	cmd.Flags().Uint64Var(&from, "from", 1, "first sequence number")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries (0 for all)")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded AUM and share price, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				rows, err := a.recorder.History(ctx, a.vault.String(), limit)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "SEQ\tOP\tSLOT\tAUM\tSHARES\tPRICE\tPENDING FEES")
				for _, r := range rows {
					fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%s\t%s\n", r.Seq, r.Op, r.Slot, r.AUM, r.SharesIssued, r.SharePrice, r.PendingFees)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	return cmd
}
