package cmd

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/history"
	"github.com/streamdex/streamdex/rank"
	"golang.org/x/exp/slices"
)

// schemaTargets maps a schema name to the value it is reflected from.
var schemaTargets = map[string]any{
	"record":   []content.Record{},
	"raw-item": &categorize.RawItem{},
	"scored":   []rank.Scored{},
	"scrape":   &fetch.Result{},
	"history":  []history.Entry{},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.ValidArgs = lo.Keys(schemaTargets)
	slices.Sort(schemaCmd.ValidArgs)
}

var schemaCmd = &cobra.Command{
	Use:   "schema <record|raw-item|scored|scrape|history>",
	Short: "Print the JSON schema of the structured outputs",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target, ok := schemaTargets[args[0]]
		if !ok {
			handleErr(fmt.Errorf("unknown schema %q, expected one of %v", args[0], cmd.ValidArgs))
		}

		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "record", "entry", "result", "type", "origin":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		printJSON(cmd.OutOrStdout(), reflector.Reflect(target))
	},
}
