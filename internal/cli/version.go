package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information for vaultd including the Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			opts.printf("vaultd version %s\n", Version)
			opts.printf("Go version: %s\n", runtime.Version())
			opts.printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
