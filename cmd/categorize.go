package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/util"
)

func init() {
	rootCmd.AddCommand(categorizeCmd)
	categorizeCmd.Flags().BoolP("json", "j", false, "Print the records as JSON")
}

var categorizeCmd = &cobra.Command{
	Use:   "categorize [file]",
	Short: "Normalize raw items into catalog records",
	Long: `Normalize raw items into catalog records.

The input is a JSON object or array of objects with the fields of a raw item
(see "streamdex schema raw-item"). It is read from the given file, or from
standard input when no file or "-" is given.`,
	Example: `echo '{"title":"Squid Game","description":"Série coréenne","duration":"9 épisodes"}' | streamdex categorize`,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			data []byte
			err  error
		)
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = filesystem.API().ReadFile(args[0])
		}
		handleErr(err)

		items, err := decodeRawItems(data)
		handleErr(err)

		categorizer := categorize.New(nil)
		records := lo.Map(items, func(item categorize.RawItem, _ int) content.Record {
			return categorizer.Categorize(item)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(cmd.OutOrStdout(), records)
			return
		}
		for _, r := range records {
			printRecord(cmd, r, false)
			cmd.Println()
		}
	},
}

func decodeRawItems(data []byte) ([]categorize.RawItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	if data[0] == '[' {
		var items []categorize.RawItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		return items, nil
	}

	var item categorize.RawItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return []categorize.RawItem{item}, nil
}

func init() {
	categorizeCmd.AddCommand(categorizeSuggestCmd)
	categorizeSuggestCmd.Flags().IntP("limit", "l", 5, "Maximum number of suggestions")
}

var categorizeSuggestCmd = &cobra.Command{
	Use:   "suggest <category> [candidate]...",
	Short: "Suggest the closest known categories",
	Long: `Suggest the closest known categories.

Candidates default to the categories of the cached catalog.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		candidates := args[1:]
		if len(candidates) == 0 {
			a := mustApp(cmd.Context())
			defer util.Ignore(a.Close)

			categories, err := a.catalog.Categories(cmd.Context())
			handleErr(err)
			candidates = categories
		}

		suggestions := categorize.Suggest(args[0], candidates, lo.Must(cmd.Flags().GetInt("limit")))
		if len(suggestions) == 0 {
			_, _ = fmt.Fprintln(os.Stderr, "no close category")
			os.Exit(1)
		}
		for _, s := range suggestions {
			cmd.Println(s)
		}
	},
}
