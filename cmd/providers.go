package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/provider"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/util"
	"github.com/streamdex/streamdex/where"
)

func init() {
	rootCmd.AddCommand(providersCmd)
}

var providersCmd = &cobra.Command{
	Use:     "providers",
	Aliases: []string{"p"},
	Short:   "Manage catalog providers",
}

func completionCustomProviders(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	customs, err := provider.Customs(where.Providers())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(customs, func(d *provider.Descriptor, _ int) string { return d.Name }), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	providersCmd.AddCommand(providersListCmd)
	providersListCmd.Flags().BoolP("builtin", "b", false, "Only list the builtin providers")
	providersListCmd.Flags().BoolP("custom", "c", false, "Only list the Lua providers")
	providersListCmd.MarkFlagsMutuallyExclusive("builtin", "custom")
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available providers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		builtinOnly := lo.Must(cmd.Flags().GetBool("builtin"))
		customOnly := lo.Must(cmd.Flags().GetBool("custom"))

		if !customOnly {
			for _, d := range provider.Builtins() {
				cmd.Printf("%s %s\n", style.Fg(color.HiBlue)(icon.Get(icon.Web)), d.Name)
			}
		}

		if builtinOnly {
			return
		}

		customs, err := provider.Customs(where.Providers())
		handleErr(err)
		for _, d := range customs {
			cmd.Printf("%s %s %s\n", style.Fg(color.HiYellow)(icon.Get(icon.Lua)), d.Name, style.Faint(d.Path))
		}
	},
}

func init() {
	providersCmd.AddCommand(providersNewCmd)
	providersNewCmd.Flags().StringP("url", "u", "", "Site the provider scrapes")
	providersNewCmd.Flags().StringP("author", "a", "", "Author of the provider")
	providersNewCmd.Flags().BoolP("force", "f", false, "Overwrite an existing provider")
}

var providersNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a Lua provider",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := util.SanitizeFilename(args[0])
		target := filepath.Join(where.Providers(), name+provider.CustomProviderExtension)

		if exists, _ := filesystem.API().Exists(target); exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("provider %s already exists, use --force to overwrite it", style.Fg(color.Yellow)(name)))
		}

		url := lo.Must(cmd.Flags().GetString("url"))
		if url == "" {
			handleErr(survey.AskOne(&survey.Input{Message: "Site URL"}, &url, survey.WithValidator(survey.Required)))
		}

		author := lo.Must(cmd.Flags().GetString("author"))
		if author == "" {
			if u, err := user.Current(); err == nil {
				author = u.Username
			}
		}

		file, err := filesystem.API().Create(target)
		handleErr(err)
		defer util.Ignore(file.Close)

		handleErr(provider.Scaffold(file, name, url, author))
		cmd.Printf("%s created %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), target)
	},
}

func init() {
	providersCmd.AddCommand(providersInstallCmd)
}

var providersInstallCmd = &cobra.Command{
	Use:   "install <url>",
	Short: "Download a Lua provider",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		handleErr(err)

		target, updated, err := provider.Install(cmd.Context(), engine, args[0], where.Providers())
		handleErr(err)

		if !updated {
			cmd.Printf("%s %s is up to date\n", style.Fg(color.Green)(icon.Get(icon.Success)), target)
			return
		}
		cmd.Printf("%s installed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), target)
	},
}

func init() {
	providersCmd.AddCommand(providersRemoveCmd)
}

var providersRemoveCmd = &cobra.Command{
	Use:               "remove <name>...",
	Aliases:           []string{"rm"},
	Short:             "Delete Lua providers",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionCustomProviders,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			d, ok := provider.Get(where.Providers(), name)
			if !ok || !d.IsCustom {
				_, _ = fmt.Fprintf(os.Stderr, "%s no Lua provider named %s\n", icon.Get(icon.Warn), name)
				continue
			}
			handleErr(filesystem.API().Remove(d.Path))
			cmd.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), d.Name)
		}
	},
}
