package cmd

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/catalog"
	"github.com/streamdex/streamdex/log"
	"github.com/streamdex/streamdex/rank"
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().IntP("limit", "l", 10, "Maximum number of recommendations")
	recommendCmd.Flags().BoolP("refresh", "r", false, "Refetch the catalog from the providers")
	recommendCmd.Flags().BoolP("explain", "e", false, "Show the score of every factor")
	recommendCmd.Flags().BoolP("json", "j", false, "Print the result as JSON")
}

var recommendCmd = &cobra.Command{
	Use:   "recommend [request]",
	Short: "Recommend titles from your watch history or a free-text request",
	Long: `Recommend titles from your watch history or a free-text request.

Without a request, titles are ranked against the genres, actors and directors
of your watch history, finished titles are left out and an empty history falls
back to popularity. With a request, titles are ranked by the keywords it shares
with their title, genres and description.`,
	Example: `streamdex recommend
streamdex recommend "je veux un film de science-fiction avec des robots"`,
	Run: func(cmd *cobra.Command, args []string) {
		a, done := openCatalog(cmd)
		defer done()

		records, err := a.catalog.GetAll(cmd.Context(), catalog.ReadOptions{})
		handleErr(err)

		var scored []rank.Scored
		if request := strings.TrimSpace(strings.Join(args, " ")); request != "" {
			scored = a.ranker.ScoreKeywords(records, request)
		} else {
			profile, err := a.history.Profile()
			handleErr(err)

			log.Fields(map[string]any{
				"genres":  len(profile.Genres),
				"watched": len(profile.Watched),
			}).Debug("ranking against watch history")

			scored, err = a.ranker.ScoreForUser(records, profile, weights())
			handleErr(err)
		}

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(scored) > limit {
			scored = scored[:limit]
		}

		printScored(cmd, scored, lo.Must(cmd.Flags().GetBool("explain")), lo.Must(cmd.Flags().GetBool("json")))
	},
}
