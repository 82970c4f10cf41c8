// Package cli provides the command-line interface for Clack.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clack-cli/clack/internal/config"
	"github.com/clack-cli/clack/internal/keyring"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Store    *config.Store
	Keyring  keyring.Store
	prompter *prompter
	rootCmd  *cobra.Command

	// Flags
	envFlag     string
	quietFlag   bool
	verboseFlag bool
	outputFlag  string
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		Keyring:  keyring.DefaultStore(),
		prompter: newPrompter(),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "clack [command]",
		Short: "Clack - a command line API calling kit",
		Long: `Clack makes calls to the media services and account APIs using named,
persisted connection profiles ("environments").

Profiles are stored in an INI file in your user config directory; secrets
never touch that file and live in your system's credential store (Keychain
on macOS, Credential Manager on Windows, Secret Service on Linux).

Run 'clack settings add' to set up your first profile, then make calls:

  clack call /videos/list
  clack call /videos/show "{'video_key': 'aBcDeF12'}"
  clack batch rows.csv /videos/update "{'video_key': <<key>>, 'title': <<title>>}"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
	}

	// Global flags
	cli.rootCmd.PersistentFlags().StringVarP(&cli.envFlag, "env", "e", "", "Use a specific environment/profile")
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.quietFlag, "quiet", "q", false, "Only output call results")
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "", "Output format (json, py)")

	// Add commands
	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newVersionCmd(),
		cli.newSettingsCmd(),
		cli.newCallCmd(),
		cli.newBatchCmd(),
	)
}

// initialize loads the profile store and upgrades its schema when needed.
// The upgrade report is printed before any command output.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	st, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.Store = st

	report, err := st.Migrate(cli.Keyring)
	if err != nil {
		return fmt.Errorf("failed to upgrade configuration: %w", err)
	}
	if report != nil {
		if report.Created {
			fmt.Fprintln(cmd.ErrOrStderr(), "Created your config file.")
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "Upgraded your config file to the latest version.")
			for _, line := range report.Changes {
				fmt.Fprintln(cmd.ErrOrStderr(), line)
			}
		}
	}

	if cli.envFlag != "" && !cli.Store.HasProfile(cli.envFlag) {
		return fmt.Errorf("%w: %q", config.ErrProfileNotFound, cli.envFlag)
	}

	return nil
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// printer returns the request-scoped output gate for the current flags and
// stored verbosity preference. Quiet/verbose flags win over the setting.
func (cli *CLI) printer() printer {
	verbosity := cli.Store.SettingValue(config.KeyVerbosity)
	if cli.quietFlag {
		verbosity = config.VerbosityQuiet
	} else if cli.verboseFlag {
		verbosity = config.VerbosityVerbose
	}
	return printer{
		verbosity: verbosity,
		tty:       stdoutIsTerminal(),
		out:       os.Stdout,
	}
}

// outputFormat returns the response rendering format for the current
// invocation: the --output flag when given, else the stored setting.
func (cli *CLI) outputFormat() (string, error) {
	format := cli.outputFlag
	if format == "" {
		format = cli.Store.SettingValue(config.KeyOutput)
	}
	switch format {
	case config.OutputJSON, config.OutputPy:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be 'json' or 'py'", format)
	}
}
