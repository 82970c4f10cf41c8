package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clack-cli/clack/internal/api"
	"github.com/clack-cli/clack/internal/profile"
)

// connectionFlags are the per-invocation connection overrides shared by the
// call and batch commands. Each falls back to a CLACK_* environment
// variable, then to the selected profile.
type connectionFlags struct {
	apiFlag    string
	keyFlag    string
	secretFlag string
	hostFlag   string
	formatFlag string
	methodFlag string
	dryRunFlag bool
}

// register adds the shared connection flags to a command.
func (f *connectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.apiFlag, "api", "a", "", "API family for this call (ms1, ac2)")
	cmd.Flags().StringVarP(&f.keyFlag, "key", "k", "", "Custom key/login for API calls")
	cmd.Flags().StringVarP(&f.secretFlag, "secret", "s", "", "Custom secret for API calls")
	cmd.Flags().StringVarP(&f.hostFlag, "host", "H", "", "Custom host for API calls")
	cmd.Flags().StringVarP(&f.formatFlag, "format", "f", "", "Response format for ms1 calls (py, json, xml, php)")
	cmd.Flags().StringVarP(&f.methodFlag, "method", "m", "", "HTTP method for ac2 calls (get, post, put, delete)")
	cmd.Flags().BoolVar(&f.dryRunFlag, "dry-run", false, "Do all but making the actual call")
}

// overrides builds the resolution overrides, letting environment variables
// back any flag that was not given.
func (f *connectionFlags) overrides(env string) profile.Overrides {
	return profile.Overrides{
		Env:    env,
		Family: flagOrEnv(f.apiFlag, "CLACK_API"),
		Login:  flagOrEnv(f.keyFlag, "CLACK_KEY"),
		Secret: flagOrEnv(f.secretFlag, "CLACK_SECRET"),
		Host:   flagOrEnv(f.hostFlag, "CLACK_HOST"),
		Format: flagOrEnv(f.formatFlag, "CLACK_FORMAT"),
		Method: flagOrEnv(f.methodFlag, "CLACK_METHOD"),
	}
}

func flagOrEnv(flagValue, envName string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envName)
}

// newCallCmd creates the call command.
func (cli *CLI) newCallCmd() *cobra.Command {
	var flags connectionFlags

	cmd := &cobra.Command{
		Use:   "call ENDPOINT [PARAMS]",
		Short: "Make a single api call",
		Long: `Make one API call against the selected environment.

PARAMS is a literal mapping of call parameters, either JSON or the
single-quoted style, e.g. "{'result_limit': 10}".

Examples:
  clack call /videos/list
  clack -e ms1-prod call /videos/show "{'video_key': 'aBcDeF12'}"
  clack -e portal call -m post /accounts "{'name': 'new account'}"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paramsExpr := ""
			if len(args) > 1 {
				paramsExpr = args[1]
			}
			return cli.runCall(cmd.Context(), flags, args[0], paramsExpr)
		},
	}

	flags.register(cmd)

	return cmd
}

// runCall resolves the connection settings, parses the params and performs
// one dispatch.
func (cli *CLI) runCall(ctx context.Context, flags connectionFlags, endpoint, paramsExpr string) error {
	p := cli.printer()

	format, err := cli.outputFormat()
	if err != nil {
		return err
	}

	cfg, envName, err := profile.Resolve(cli.Store, cli.Keyring, flags.overrides(cli.envFlag), cli.promptSecret)
	if err != nil {
		return err
	}

	// A malformed expression is fatal for a single call.
	params, err := api.ParseParams(paramsExpr)
	if err != nil {
		return fmt.Errorf("%w; make sure the params look like \"{'test': True, 'foo': 'bar'}\"", err)
	}

	endpoint = cfg.NormalizeEndpoint(endpoint)

	cli.printCallSettings(p, cfg, envName, endpoint, params)

	if flags.dryRunFlag {
		p.force("Only doing a dry run. Exiting now.")
		return nil
	}

	caller, err := api.New(cfg)
	if err != nil {
		return err
	}

	resp, err := caller.Call(ctx, endpoint, params)
	if err != nil {
		return err
	}

	if cfg.Family == api.FamilyAccount && len(resp.Headers) > 0 {
		p.echo("Response headers:")
		names := make([]string, 0, len(resp.Headers))
		for name := range resp.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		rows := make([][2]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, [2]string{name, resp.Headers[name]})
		}
		printTable(p.out, rows, [2]string{})
		p.echo("")
	}

	p.echo("Response body:")
	p.force("%s", renderBody(format, resp.Body, resp.Raw))
	if !resp.OK {
		p.echo("")
		p.echo("CALL FAILED, PLEASE CHECK THE OUTPUT ABOVE.")
	}
	return nil
}

// printCallSettings shows the resolved connection settings before the
// dispatch. Secrets are always masked. Suppressed in quiet mode.
func (cli *CLI) printCallSettings(p printer, cfg *api.CallConfig, envName, endpoint string, params map[string]any) {
	if p.suppressed() {
		return
	}

	env := envName
	if env == "" {
		env = "(none)"
	}

	rows := [][2]string{
		{"env", env},
		{"api", string(cfg.Family)},
		{"host", cfg.Host},
		{"key", cfg.Login},
		{"secret", maskSecret},
		{"call", endpoint},
	}
	if cfg.Family == api.FamilyAccount {
		rows = append(rows, [2]string{"method", cfg.Method})
	}
	rows = append(rows, [2]string{"params", formatParams(params)})

	p.echo("Call settings:")
	p.echo("")
	printTable(p.out, rows, [2]string{})
	p.echo("")
}

// formatParams renders a parsed parameter mapping compactly for display.
func formatParams(params map[string]any) string {
	if len(params) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %v", k, params[k])
	}
	b.WriteByte('}')
	return b.String()
}

// promptSecret asks for the secret when the keyring has none stored.
func (cli *CLI) promptSecret() (string, error) {
	return cli.prompter.Secret("Enter your password/secret")
}
