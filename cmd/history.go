package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/history"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/util"
	"github.com/streamdex/streamdex/where"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Manage the watch history used for recommendations",
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyListCmd.Flags().BoolP("json", "j", false, "Print the history as JSON")
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched titles, most recent first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.New(where.History()).List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(cmd.OutOrStdout(), entries)
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("no history"))
			return
		}

		for _, e := range entries {
			progress := fmt.Sprintf("%3.0f%%", e.Percentage)
			if e.EpisodeCount > 0 {
				progress += fmt.Sprintf(" ep %d/%d", e.LastEpisode, e.EpisodeCount)
			}
			cmd.Printf("%s %s %s %s\n",
				style.Fg(color.HiCyan)(progress),
				typeTag(e.Type),
				style.Bold(e.Title),
				style.Faint(e.ContentID+" "+e.UpdatedAt.Format("2006-01-02")),
			)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyAddCmd)
	historyAddCmd.Flags().Float64P("percentage", "p", 100, "Watched percentage")
	historyAddCmd.Flags().IntP("episode", "e", 0, "Last watched episode")
	historyAddCmd.Flags().BoolP("refresh", "r", false, "Refetch the catalog from the providers")
}

var historyAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Record progress on a catalog title",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		percentage := lo.Must(cmd.Flags().GetFloat64("percentage"))
		if percentage < 0 || percentage > 100 {
			handleErr(fmt.Errorf("percentage must be between 0 and 100, got %v", percentage))
		}

		a, done := openCatalog(cmd)
		defer done()

		found, err := a.catalog.GetByID(cmd.Context(), args[0])
		handleErr(err)

		record, ok := found.Get()
		if !ok {
			handleErr(fmt.Errorf("no title with id %s", style.Fg(color.Red)(args[0])))
		}

		episode := lo.Must(cmd.Flags().GetInt("episode"))
		if episode == 0 && percentage >= 100 {
			episode = record.EpisodeCount
		}

		handleErr(a.history.Save(history.NewEntry(record, percentage, episode)))
		cmd.Printf("%s saved %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(record.Title))
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove <id>...",
	Aliases: []string{"rm"},
	Short:   "Forget titles",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		h := history.New(where.History())
		for _, id := range args {
			handleErr(h.Remove(id))
		}
		cmd.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), util.Quantify(len(args), "entry", "entries"))
	},
}
