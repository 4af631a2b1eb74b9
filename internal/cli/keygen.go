package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goYieldVault/internal/auth"
)

func newKeygenCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a signing identity",
		Long: `Create a secp256k1 signing identity and write its private key to the
identity file. The derived vault address is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.identityPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("identity file %s exists, use --force to replace it", path)
			}
			id, err := auth.NewIdentity()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create identity directory: %w", err)
			}
			if err := id.Save(path); err != nil {
				return fmt.Errorf("save identity: %w", err)
			}
			opts.printf("identity: %s\n", path)
			opts.printf("address:  %s\n", id.Address())
			opts.printf("pubkey:   %s\n", id.PublicKeyHex())
			opts.printf("key id:   %s\n", id.KeyID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing identity file")
	return cmd
}
