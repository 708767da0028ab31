// Package cmd implements the streamdex command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/key"
	"github.com/streamdex/streamdex/log"
	"github.com/streamdex/streamdex/provider"
	"github.com/streamdex/streamdex/store"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/where"
)

func init() {
	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the icon variant (emoji, plain, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringSliceP("provider", "P", []string{}, "Catalog providers to read from")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := lo.Map(provider.Builtins(), func(d *provider.Descriptor, _ int) string { return d.Name })
		customs, _ := provider.Customs(where.Providers())
		for _, d := range customs {
			names = append(names, d.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.CatalogProviders, rootCmd.PersistentFlags().Lookup("provider")))

	rootCmd.PersistentFlags().String("store", "", "Persistent store backend (file, memory, redis, sqlite)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("store", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return store.Backends(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.StoreBackend, rootCmd.PersistentFlags().Lookup("store")))

	rootCmd.PersistentFlags().Bool("relay", false, "Send requests through the configured relay")
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
}

var rootCmd = &cobra.Command{
	Use:   constant.Streamdex,
	Short: "Scrape, categorize and rank streaming catalogs",
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.Streamdex) + "\n" +
		style.New().Italic(true).Foreground(color.HiCyan).Render("    - Scrape, categorize and rank streaming catalogs from the terminal"),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("relay")) {
			viper.Set(key.FetchMode, modeRelay)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("version")) {
			versionCmd.Run(versionCmd, args)
			return
		}
		handleErr(cmd.Help())
	},
}

// Execute runs the command tree.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

func warn(err error) {
	if err != nil {
		log.Warn(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), strings.Trim(err.Error(), " \n"))
	}
}
