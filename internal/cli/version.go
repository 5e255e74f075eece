package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short, _ := cmd.Flags().GetBool("short"); short {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "spacetraveling version %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
	cmd.Flags().Bool("short", false, "print version string only")
	return cmd
}
