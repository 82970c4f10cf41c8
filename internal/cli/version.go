package cli

import (
	"github.com/spf13/cobra"

	"github.com/clack-cli/clack/internal/version"
)

// newVersionCmd creates the version command.
func (cli *CLI) newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if short {
				cmd.Println(info.Short())
			} else {
				cmd.Println(info.String())
			}
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print just the version number")

	return cmd
}
