package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zostay/go-mimelite/internal/version"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the library version",
		Args:  cobra.NoArgs,
		RunE:  RunVersion,
	}

	atLeast string
)

func init() {
	versionCmd.Flags().StringVar(&atLeast, "at-least", "", "fail unless the version is at least this one")
}

// RunVersion prints the version, or checks it against --at-least.
func RunVersion(cmd *cobra.Command, args []string) error {
	if atLeast != "" {
		ok, err := version.AtLeast(atLeast)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("version %s is older than %s", version.String(), atLeast)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), version.Mailer())
	return nil
}
