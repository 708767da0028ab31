package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/catalog"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/log"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/util"
)

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.PersistentFlags().IntP("limit", "l", 20, "Maximum number of titles to print")
	catalogCmd.PersistentFlags().BoolP("refresh", "r", false, "Refetch the catalog from the providers")
	catalogCmd.PersistentFlags().BoolP("json", "j", false, "Print the result as JSON")
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"c"},
	Short:   "Browse and search the cached catalog",
}

// openCatalog builds the app and primes the snapshot, honouring --refresh.
// Stale and failed refreshes are reported on stderr.
func openCatalog(cmd *cobra.Command) (*app, func()) {
	a := mustApp(cmd.Context())
	unsubscribe := a.catalog.Subscribe(func(e catalog.Event) {
		log.Fields(map[string]any{"kind": e.Kind, "origin": e.Origin, "records": e.Records}).Info("catalog event")
		switch e.Kind {
		case catalog.EventStale:
			warn(fmt.Errorf("serving stale %s catalog: %w", e.Origin, e.Err))
		case catalog.EventFailed:
			log.Warn(e.Err)
		}
	})

	_, err := a.catalog.GetAll(cmd.Context(), catalog.ReadOptions{
		ForceRefresh: lo.Must(cmd.Flags().GetBool("refresh")),
	})
	handleErr(err)

	return a, func() {
		unsubscribe()
		util.Ignore(a.Close)
	}
}

func limitFlag(cmd *cobra.Command) int {
	return lo.Must(cmd.Flags().GetInt("limit"))
}

func jsonFlag(cmd *cobra.Command) bool {
	return lo.Must(cmd.Flags().GetBool("json"))
}

func take(records []content.Record, n int) []content.Record {
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every title",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		records, err := a.catalog.GetAll(cmd.Context(), catalog.ReadOptions{})
		handleErr(err)
		printRecords(cmd, take(records, limitFlag(cmd)), jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogGetCmd)
}

var catalogGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one title",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		found, err := a.catalog.GetByID(cmd.Context(), args[0])
		handleErr(err)

		record, ok := found.Get()
		if !ok {
			handleErr(fmt.Errorf("no title with id %s", style.Fg(color.Red)(args[0])))
		}
		printRecord(cmd, record, jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogTypeCmd)
	catalogTypeCmd.ValidArgs = lo.Map(content.Types(), func(t content.Type, _ int) string { return string(t) })
}

var catalogTypeCmd = &cobra.Command{
	Use:   "type <type>",
	Short: "List titles of one type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, ok := content.ParseType(args[0])
		if !ok {
			handleErr(fmt.Errorf("unknown type %q, expected one of %v", args[0], content.Types()))
		}

		a, done := openCatalog(cmd)
		defer done()

		records, err := a.catalog.GetByType(cmd.Context(), t)
		handleErr(err)
		printRecords(cmd, take(records, limitFlag(cmd)), jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogCategoryCmd)
}

var catalogCategoryCmd = &cobra.Command{
	Use:   "category <category>",
	Short: "List titles of one category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		records, err := a.catalog.GetByCategory(cmd.Context(), args[0])
		handleErr(err)

		if len(records) == 0 && !jsonFlag(cmd) {
			categories, err := a.catalog.Categories(cmd.Context())
			handleErr(err)
			if closest := categorize.Suggest(args[0], categories, 3); len(closest) > 0 {
				cmd.Printf("%s no title in %s, did you mean %s?\n",
					icon.Get(icon.Warn),
					style.Fg(color.Red)(args[0]),
					style.Fg(color.Yellow)(strings.Join(closest, ", ")),
				)
				return
			}
		}

		printRecords(cmd, take(records, limitFlag(cmd)), jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogCategoriesCmd)
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories in the catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		categories, err := a.catalog.Categories(cmd.Context())
		handleErr(err)

		if jsonFlag(cmd) {
			printJSON(cmd.OutOrStdout(), categories)
			return
		}
		for _, c := range categories {
			cmd.Println(c)
		}
	},
}

func init() {
	catalogCmd.AddCommand(catalogTrendingCmd)
}

var catalogTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending titles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		records, err := a.catalog.GetTrending(cmd.Context(), limitFlag(cmd))
		handleErr(err)
		printRecords(cmd, records, jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogNewCmd)
}

var catalogNewCmd = &cobra.Command{
	Use:   "new",
	Short: "List the newest releases",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		records, err := a.catalog.GetNewReleases(cmd.Context(), limitFlag(cmd))
		handleErr(err)
		printRecords(cmd, records, jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogSimilarCmd)
}

var catalogSimilarCmd = &cobra.Command{
	Use:   "similar <id>",
	Short: "List titles similar to another one",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		found, err := a.catalog.GetByID(cmd.Context(), args[0])
		handleErr(err)

		reference, ok := found.Get()
		if !ok {
			handleErr(fmt.Errorf("no title with id %s", style.Fg(color.Red)(args[0])))
		}

		records, err := a.catalog.GetSimilar(cmd.Context(), reference, limitFlag(cmd))
		handleErr(err)
		printRecords(cmd, records, jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogSearchCmd.Flags().StringP("type", "t", "", "Only titles of this type")
	catalogSearchCmd.Flags().StringP("category", "c", "", "Only titles of this category")
	catalogSearchCmd.Flags().IntP("year", "y", 0, "Only titles released this year")
	lo.Must0(catalogSearchCmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(content.Types(), func(t content.Type, _ int) string { return string(t) }), cobra.ShellCompDirectiveNoFileComp
	}))
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles by text",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		a, err := newApp(context.Background())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer util.Ignore(a.Close)
		return a.queries.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		filters := catalog.Filters{
			Category: lo.Must(cmd.Flags().GetString("category")),
			Year:     lo.Must(cmd.Flags().GetInt("year")),
		}
		if raw := lo.Must(cmd.Flags().GetString("type")); raw != "" {
			t, ok := content.ParseType(raw)
			if !ok {
				handleErr(fmt.Errorf("unknown type %q, expected one of %v", raw, content.Types()))
			}
			filters.Type = t
		}

		a, done := openCatalog(cmd)
		defer done()

		query := strings.Join(args, " ")
		records, err := a.catalog.Search(cmd.Context(), query, filters, limitFlag(cmd))
		handleErr(err)

		if len(records) > 0 {
			warn(a.queries.Remember(query, 1))
		} else if !jsonFlag(cmd) {
			if suggestion, ok := a.queries.Suggest(query).Get(); ok && !strings.EqualFold(suggestion, query) {
				cmd.Printf("%s nothing found, did you mean %s?\n", icon.Get(icon.Warn), style.Fg(color.Yellow)(suggestion))
				return
			}
		}

		printRecords(cmd, records, jsonFlag(cmd))
	},
}

func init() {
	catalogCmd.AddCommand(catalogStatusCmd)
}

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the catalog comes from and how fresh it is",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		status := a.catalog.Status()
		if jsonFlag(cmd) {
			printJSON(cmd.OutOrStdout(), status)
			return
		}

		state := style.Fg(color.Green)("fresh")
		if status.Stale {
			state = style.Fg(color.Yellow)(icon.Get(icon.Stale) + " stale")
		}

		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)("Titles:"), util.Quantify(status.Records, "title", "titles"))
		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)("Origin:"), status.Origin)
		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)("Fetched:"), status.FetchedAt.Format("2006-01-02 15:04:05"))
		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)("State:"), state)
	},
}
