package cmd

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/catalog"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/util"
	"github.com/streamdex/streamdex/where"
)

// clearTarget is an artifact that can be erased on demand.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func(ctx context.Context) error
}

func removePath(location func() string) func(context.Context) error {
	return func(context.Context) error {
		return util.Delete(location())
	}
}

var clearTargets = []clearTarget{
	{"scrape cache", "cache", mo.Some("c"), removePath(where.Scrapes)},
	{"catalog store", "catalog", mo.Some("k"), func(ctx context.Context) error {
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer util.Ignore(a.Close)
		return a.catalog.ClearCache(ctx, catalog.ClearOptions{Persistent: true})
	}},
	{"watch history", "history", mo.Some("s"), removePath(where.History)},
	{"queries history", "queries", mo.Some("q"), removePath(where.Queries)},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("all", "a", false, "clear everything")
	clearCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached records, scrapes and local history",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		selected := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			names := lo.Map(selected, func(t clearTarget, _ int) string { return t.name })
			var confirm bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Clear %s?", util.Quantify(len(names), "target", "targets")),
				Help:    fmt.Sprintf("%v", names),
			}, &confirm))
			if !confirm {
				return
			}
		}

		for _, target := range selected {
			if err := target.clear(cmd.Context()); err != nil {
				warn(fmt.Errorf("clear %s: %w", target.name, err))
				continue
			}
			cmd.Printf("%s %s cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)), util.Capitalize(target.name))
		}
	},
}
