// Package cli implements the vaultd command line.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goYieldVault/internal/config"
	"github.com/LeJamon/goYieldVault/internal/core/vault"
)

// Version is reported by the version command.
var Version = "0.1.0-dev"

// rootOptions carries the global flags and the configuration they select.
type rootOptions struct {
	configFile string
	identity   string
	debug      bool
	quiet      bool

	cfg *config.Config
	out io.Writer
}

// NewRootCommand builds the vaultd command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{out: os.Stdout}

	rootCmd := &cobra.Command{
		Use:   "vaultd",
		Short: "goYieldVault - lending yield vault host",
		Long: `vaultd operates a yield vault that spreads deposits across lending
reserves by weight, charges management and performance fees, and keeps an
operation journal of every committed state change.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "conf", "", "configuration file path (default ./"+config.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().StringVar(&opts.identity, "identity", "", "key file requests are signed with (overrides identity_file)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "print the vault accounting trace")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress informational logging")

	rootCmd.AddCommand(
		newInitCmd(opts),
		newDepositCmd(opts),
		newWithdrawCmd(opts),
		newInvestCmd(opts),
		newFeesCmd(opts),
		newAllocationCmd(opts),
		newConfigCmd(opts),
		newAdminCmd(opts),
		newGlobalCmd(opts),
		newWhitelistCmd(opts),
		newShowCmd(opts),
		newJournalCmd(opts),
		newHistoryCmd(opts),
		newCrankCmd(opts),
		newMarketCmd(opts),
		newKeygenCmd(opts),
		newVersionCmd(opts),
	)
	return rootCmd
}

// Execute runs vaultd with os.Args. It is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig reads the config file and environment and applies the log flags.
func (o *rootOptions) initConfig(cmd *cobra.Command) error {
	o.out = cmd.OutOrStdout()

	path := o.configFile
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); err == nil {
			path = config.DefaultConfigFile
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	o.cfg = cfg

	if o.quiet {
		log.SetOutput(io.Discard)
	}
	if o.debug || cfg.Log.Debug {
		vault.SetLogger(log.New(cmd.ErrOrStderr(), "[DEBUG] ", log.LstdFlags))
	} else {
		vault.SetLogger(nil)
	}
	return nil
}

// identityPath is the --identity flag, or identity_file relative to the config.
func (o *rootOptions) identityPath() string {
	if o.identity != "" {
		return o.identity
	}
	return o.cfg.ResolvePath(o.cfg.IdentityFile)
}

func (o *rootOptions) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
