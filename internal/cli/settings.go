package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clack-cli/clack/internal/api"
	"github.com/clack-cli/clack/internal/config"
	"github.com/clack-cli/clack/internal/keyring"
	"github.com/clack-cli/clack/internal/profile"
)

// newSettingsCmd creates the settings command group.
func (cli *CLI) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"s"},
		Short:   "Manage API environment profiles",
		Long: `Manage the named sets of API connection settings ("environments").

Profiles live in an INI file in your user config directory. Secrets are
stored in your system's credential store, never in the file.

Examples:
  # Add a profile interactively
  clack settings add

  # List all profiles (+ marks the default)
  clack settings list

  # Make a profile the default
  clack settings default ms1-prod`,
	}

	cmd.AddCommand(
		cli.newSettingsAddCmd(),
		cli.newSettingsEditCmd(),
		cli.newSettingsRemoveCmd(),
		cli.newSettingsListCmd(),
		cli.newSettingsShowCmd(),
		cli.newSettingsDefaultCmd(),
		cli.newSettingsPurgeCmd(),
	)

	return cmd
}

// newSettingsAddCmd creates the settings add command.
func (cli *CLI) newSettingsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a new environment/user combo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pr := cli.prompter
			fmt.Println("Answer the following questions to add a new set of API settings.")
			if err := cli.editProfile(pr, ""); err != nil {
				return err
			}
			if err := cli.Store.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Println("Done.")
			return nil
		},
	}
}

// newSettingsEditCmd creates the settings edit command.
func (cli *CLI) newSettingsEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [name]",
		Short: "Edit an existing environment/user combo",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return cli.Store.Profiles(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pr := cli.prompter
			name, err := cli.pickProfile(pr, args, "edit")
			if err != nil {
				return err
			}
			if err := cli.editProfile(pr, name); err != nil {
				return err
			}
			if err := cli.Store.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Printf("%q has been updated\n", name)
			return nil
		},
	}
}

// newSettingsRemoveCmd creates the settings remove command.
func (cli *CLI) newSettingsRemoveCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:     "remove [name]",
		Aliases: []string{"rm"},
		Short:   "Remove an environment/user combo",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return cli.Store.Profiles(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pr := cli.prompter
			name, err := cli.pickProfile(pr, args, "remove")
			if err != nil {
				return err
			}

			if !yesFlag {
				ok, err := pr.Confirm(fmt.Sprintf("Are you sure you want to remove %q?", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("OK.")
					return nil
				}
			}

			cli.deleteProfileSecret(name)
			if err := cli.Store.RemoveProfile(name); err != nil {
				return err
			}
			if err := cli.Store.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Printf("%q has been deleted\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// newSettingsListCmd creates the settings list command.
func (cli *CLI) newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all environment/user combos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.listProfiles()
			return nil
		},
	}
}

// newSettingsShowCmd creates the settings show command.
func (cli *CLI) newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show one environment/user combo",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return cli.Store.Profiles(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pr := cli.prompter
			name, err := cli.pickProfile(pr, args, "show")
			if err != nil {
				return err
			}

			prof, err := profile.Get(cli.Store, name)
			if err != nil {
				return err
			}

			secretDisplay := "Input at runtime."
			if _, err := cli.Keyring.Get(name, prof.Login); err == nil {
				secretDisplay = maskSecret
			}

			fmt.Printf("These are the settings for %q:\n\n", name)
			printTable(os.Stdout, [][2]string{
				{"description", prof.Description},
				{"api", string(prof.Family)},
				{"host", prof.Host},
				{"key", prof.Login},
				{"secret", secretDisplay},
			}, [2]string{})
			return nil
		},
	}
}

// newSettingsDefaultCmd creates the settings default command.
func (cli *CLI) newSettingsDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default [name]",
		Short: "Set the default environment",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return cli.Store.Profiles(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pr := cli.prompter
			name, err := cli.pickProfile(pr, args, "use as default")
			if err != nil {
				return err
			}
			if err := cli.Store.SetDefaultProfile(name); err != nil {
				return err
			}
			if err := cli.Store.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Printf("%q has been set as the default.\n", name)
			return nil
		},
	}
}

// newSettingsPurgeCmd creates the settings purge command.
func (cli *CLI) newSettingsPurgeCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove all settings, secrets and the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("You are about to delete all your API settings.")
			if !yesFlag {
				pr := cli.prompter
				ok, err := pr.Confirm("Are you sure?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("OK.")
					return nil
				}
			}

			fmt.Println("1. Removing API settings.")
			for _, name := range cli.Store.Profiles() {
				cli.deleteProfileSecret(name)
				if err := cli.Store.RemoveProfile(name); err != nil {
					return err
				}
				fmt.Printf("  - %s\n", name)
			}
			fmt.Println("2. Removing generic settings.")
			for key := range config.CommonSettings {
				cli.Store.Set(config.EtcSection, key, "")
			}
			fmt.Println("3. Removing config file.")
			if err := cli.Store.Delete(); err != nil {
				return fmt.Errorf("could not remove the config file (%s): %w", cli.Store.Path(), err)
			}
			fmt.Println("Done.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// pickProfile resolves the profile name argument, falling back to an
// interactive pick when it was omitted.
func (cli *CLI) pickProfile(pr *prompter, args []string, action string) (string, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		if len(cli.Store.Profiles()) == 0 {
			return "", errors.New(`no saved settings found, please run "clack settings add" first`)
		}
		cli.listProfiles()
		var err error
		name, err = pr.Input(fmt.Sprintf("Please give the name of the config you want to %s", action), "")
		if err != nil {
			return "", err
		}
	}
	if !cli.Store.HasProfile(name) {
		return "", fmt.Errorf("%w: %q", config.ErrProfileNotFound, name)
	}
	return name, nil
}

// listProfiles prints the profile table with the default marked.
func (cli *CLI) listProfiles() {
	profiles := cli.Store.Profiles()
	if len(profiles) == 0 {
		fmt.Println(`No saved settings found, please run "clack settings add" to add settings.`)
		return
	}

	def := cli.Store.DefaultProfile()
	rows := make([][2]string, 0, len(profiles))
	for _, name := range profiles {
		marker := " "
		if name == def {
			marker = "+"
		}
		family := cli.Store.Get(name, config.KeyAPI, string(api.FamilyMedia))
		description := cli.Store.Get(name, config.KeyDescription, "no description")
		rows = append(rows, [2]string{marker + " " + name, family + ", " + description})
	}

	fmt.Println("The following API settings are available:")
	fmt.Println()
	printTable(os.Stdout, rows, [2]string{"  CONFIG NAME", "API, DESCRIPTION"})
	fmt.Println()
	fmt.Println("+ marks the default environment.")
}

// deleteProfileSecret removes a profile's keyring secret, ignoring a
// missing entry. Cleanup paths never fail on secret-store absence.
func (cli *CLI) deleteProfileSecret(name string) {
	login := cli.Store.Get(name, config.KeyLogin, "")
	if login == "" {
		return
	}
	if err := cli.Keyring.Delete(name, login); err != nil && !errors.Is(err, keyring.ErrSecretNotFound) {
		fmt.Fprintf(os.Stderr, "Warning: failed to delete secret for %q: %v\n", name, err)
	}
}

// editProfile runs the interactive add/edit flow. An empty name adds a new
// profile; otherwise the prompts are pre-seeded with the current values.
func (cli *CLI) editProfile(pr *prompter, name string) error {
	isNew := name == ""

	var current *profile.Profile
	if !isNew {
		var err error
		current, err = profile.Get(cli.Store, name)
		if err != nil {
			return err
		}
	}

	if isNew {
		var err error
		name, err = pr.ValidatedInput(
			"Give a recognizable name for the api settings you're about to add, "+
				"e.g. ms1-reseller for making calls as a reseller to the media services api",
			"",
			func(s string) bool { return profile.ValidName(s) && !cli.Store.HasProfile(s) },
			`A name can only contain alphanumeric (and _ -) characters, must be between 1 and `+
				`16 characters long, must not be "etc" and must not be in use yet.`,
		)
		if err != nil {
			return err
		}
	}

	familyDefault := ""
	if current != nil {
		familyDefault = string(current.Family)
	}
	familyStr, err := pr.Choice(
		"What type of API is this?\n"+
			"- ms1 : media services api\n"+
			"- ac2 : account api version 2",
		api.Families(),
		familyDefault,
	)
	if err != nil {
		return err
	}
	family, err := api.ParseFamily(familyStr)
	if err != nil {
		return err
	}

	hostDefault := profile.DefaultHosts[family]
	if current != nil && current.Family == family {
		hostDefault = current.Host
	}
	host, err := pr.ValidatedInput(
		"What's the hostname for this api?",
		hostDefault,
		profile.ValidHost,
		"The hostname is not correct, please try again.",
	)
	if err != nil {
		return err
	}

	verifyTLS := true
	if strings.HasPrefix(host, "https://") {
		ok, err := pr.Confirm("You have defined a https host. Do you wish to verify the SSL certificates?")
		if err != nil {
			return err
		}
		verifyTLS = ok
	}

	loginDefault := ""
	if current != nil {
		loginDefault = current.Login
	}

	var login, secret string
	isAdmin := false
	switch family {
	case api.FamilyAccount:
		login, err = pr.ValidatedInput(
			"What's the login/email for the user?",
			loginDefault,
			func(s string) bool { return s != "" },
			"The login cannot be empty, please try again.",
		)
		if err != nil {
			return err
		}
		secret, err = pr.Secret(
			"What's the password? It is stored in your system's keyring. You can also " +
				"leave it empty and you will be prompted for it with each api call")
		if err != nil {
			return err
		}
		if !strings.Contains(login, "@") {
			isAdmin, err = pr.Confirm("Did you just enter credentials for making admin calls to the account api?")
			if err != nil {
				return err
			}
		}
	case api.FamilyMedia:
		login, err = pr.ValidatedInput(
			"What's the API key for this user?",
			loginDefault,
			func(s string) bool { return profile.ValidLogin(api.FamilyMedia, s) },
			"An API key is alphanumeric and at least 8 characters long. Please try again.",
		)
		if err != nil {
			return err
		}
		secret, err = pr.ValidatedSecret(
			"What's the API secret for this user? It is stored in your system's keyring. "+
				"You can also leave it empty and you will be prompted for it with each api call",
			func(s string) bool { return profile.ValidSecret(api.FamilyMedia, s) },
			"An API secret is alphanumeric and at least 20 characters long. Please try again.",
		)
		if err != nil {
			return err
		}
	}

	descriptionDefault := ""
	if current != nil {
		descriptionDefault = current.Description
	}
	description, err := pr.Input(
		"You can add a description to make it easier to identify this set of api settings", descriptionDefault)
	if err != nil {
		return err
	}

	prof := &profile.Profile{
		Name:        name,
		Family:      family,
		Host:        host,
		Login:       login,
		Description: description,
		VerifyTLS:   verifyTLS,
		IsAdmin:     isAdmin,
	}
	prof.Save(cli.Store)

	// A changed login orphans the old keyring entry; drop it first.
	if current != nil && current.Login != "" && current.Login != login {
		if err := cli.Keyring.Delete(name, current.Login); err != nil && !errors.Is(err, keyring.ErrSecretNotFound) {
			return err
		}
	}
	if secret != "" {
		if err := cli.Keyring.Set(name, login, secret); err != nil {
			return err
		}
	} else if _, err := cli.Keyring.Get(name, login); err == nil {
		// Blank input clears a previously stored secret: the user asked to
		// be prompted at call time instead.
		if err := cli.Keyring.Delete(name, login); err != nil && !errors.Is(err, keyring.ErrSecretNotFound) {
			return err
		}
	}

	makeDefault := len(cli.Store.Profiles()) <= 1
	if !makeDefault {
		makeDefault, err = pr.Confirm("Do you want to make these settings the default settings?")
		if err != nil {
			return err
		}
	}
	if makeDefault {
		if err := cli.Store.SetDefaultProfile(name); err != nil {
			return err
		}
	}

	return nil
}
