package cli

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goYieldVault/internal/market"
	"github.com/LeJamon/goYieldVault/internal/scheduler"
)

func newCrankCmd(opts *rootOptions) *cobra.Command {
	var (
		schedule string
		payer    string
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "crank",
		Short: "Invest every reserve that is due",
		Long: `Invest every reserve of the vault in allocation order. With --once, or when
the crank is disabled in the configuration and no --schedule is given, one
pass is made. Otherwise the crank runs on its cron schedule until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.cfg
			if schedule == "" {
				schedule = cfg.Crank.Schedule
			}
			if payer == "" {
				payer = cfg.Crank.Payer
			}

			return withApp(ctx, opts, func(a *app) error {
				st, err := a.state(ctx)
				if err != nil {
					return err
				}
				svc := a.service()
				signer, err := a.sign(svc, "crank", nil)
				if err != nil {
					return err
				}
				owner := signer
				if payer != "" {
					if owner, err = parseAddress("payer", payer); err != nil {
						return err
					}
				}
				payerAccount := market.DeriveAccount(owner, st.TokenMint)

				if once || (!cfg.Crank.Enabled && !cmd.Flags().Changed("schedule")) {
					results, err := svc.Crank(ctx, signer, payerAccount)
					for _, r := range results {
						switch {
						case r.Entry != nil:
							opts.printf("%s\n", r.Entry)
						case r.Skipped:
							opts.printf("reserve %s skipped: %v\n", r.Reserve.Short(), r.Err)
						default:
							opts.printf("reserve %s failed: %v\n", r.Reserve.Short(), r.Err)
						}
					}
					if saveErr := a.saveMarket(); saveErr != nil {
						return saveErr
					}
					return err
				}

				runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				s := scheduler.NewScheduler(runCtx, signer, payerAccount, svc)
				s.AfterRun = a.saveMarket
				if err := s.Register(schedule); err != nil {
					return err
				}
				s.Start()
				log.Printf("[INFO] cranking vault %s on %q", a.vault.Short(), schedule)
				<-runCtx.Done()
				s.Stop()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule with seconds (default crank.schedule)")
	cmd.Flags().StringVar(&payer, "payer", "", "owner of the token account covering rounding losses (default crank.payer, then signer)")
	cmd.Flags().BoolVar(&once, "once", false, "make one pass and exit")
	return cmd
}
