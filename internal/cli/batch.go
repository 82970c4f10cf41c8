package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clack-cli/clack/internal/api"
	"github.com/clack-cli/clack/internal/batch"
	"github.com/clack-cli/clack/internal/notify"
	"github.com/clack-cli/clack/internal/profile"
)

// newBatchCmd creates the batch command.
func (cli *CLI) newBatchCmd() *cobra.Command {
	var flags connectionFlags
	var notifyFlag bool

	cmd := &cobra.Command{
		Use:   "batch CSVFILE ENDPOINT PARAMS",
		Short: "Make a templated api call for every row of a csv file",
		Long: `Make one API call per data row of CSVFILE.

The first row of the file names the placeholders; every <<column>> in
ENDPOINT and PARAMS is replaced with the row's value for that column
before the call is made. A failing row never stops the batch.

Examples:
  clack batch videos.csv /videos/update "{'video_key': <<key>>, 'title': '<<title>>'}"
  clack -q batch sites.csv /sites/<<site_id>>/media "{}" > results.csv`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runBatch(cmd.Context(), flags, notifyFlag, args[0], args[1], args[2])
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&notifyFlag, "notify", false, "Send a desktop notification when the batch finishes")

	return cmd
}

// runBatch resolves the connection settings once and replays them across
// every row of the input file.
func (cli *CLI) runBatch(ctx context.Context, flags connectionFlags, notifyFlag bool, csvPath, endpointTmpl, paramsTmpl string) error {
	p := cli.printer()

	cfg, envName, err := profile.Resolve(cli.Store, cli.Keyring, flags.overrides(cli.envFlag), cli.promptSecret)
	if err != nil {
		return err
	}

	src, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open batch input: %w", err)
	}
	defer src.Close()

	caller, err := api.New(cfg)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Caller: caller,
		Config: cfg,
		DryRun: flags.dryRunFlag,
	}
	if !p.suppressed() {
		runner.Progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rCalling API %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	if flags.dryRunFlag {
		p.echo("Dry run: rows are templated and checked but no calls are made.")
	}

	outcome, err := runner.Run(ctx, src, endpointTmpl, paramsTmpl)
	if err != nil {
		return err
	}

	cli.printBatchResults(p, outcome)

	if notifyFlag {
		n := notify.New(true)
		if err := n.NotifyBatchDone(envName, outcome.Succeeded, outcome.Failed); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not send notification: %v\n", err)
		}
	}
	return nil
}

// printBatchResults renders the per-row outcomes: a readable table on a
// terminal, parseable csv lines otherwise. Quiet mode gets the csv form
// even on a terminal.
func (cli *CLI) printBatchResults(p printer, outcome *batch.Outcome) {
	if p.tty && !p.suppressed() {
		p.force("")
		p.force("Batch results:")
		rows := make([][2]string, 0, len(outcome.Results))
		for _, res := range outcome.Results {
			state := "success"
			if !res.OK {
				state = "FAILED"
			}
			rows = append(rows, [2]string{res.ID, state})
		}
		printTable(p.out, rows, [2]string{outcome.IDHeader, "RESULT"})
		p.force("")
		p.force("%d calls succeeded, %d failed.", outcome.Succeeded, outcome.Failed)
		return
	}

	p.force("%s,success", outcome.IDHeader)
	for _, res := range outcome.Results {
		p.force("%s,%t", res.ID, res.OK)
	}
}
