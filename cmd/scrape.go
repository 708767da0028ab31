package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/extract"
	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/util"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("selector", "s", "", "CSS selector whose matches are printed")
	scrapeCmd.Flags().BoolP("metadata", "m", false, "Extract the page title, description, keywords and Open Graph tags")
	scrapeCmd.Flags().Bool("no-cache", false, "Bypass the scrape cache")
	scrapeCmd.Flags().Bool("no-redirects", false, "Do not follow redirects")
	scrapeCmd.Flags().Duration("timeout", 0, "Per-attempt timeout")
	scrapeCmd.Flags().Bool("video", false, "Discover playable video sources")
	scrapeCmd.Flags().BoolP("json", "j", false, "Print the result as JSON")
}

var scrapeCmd = &cobra.Command{
	Use:     "scrape <url>",
	Short:   "Fetch a page with retries and extract its content",
	Example: "streamdex scrape https://example.com --selector 'h1' --metadata",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine()
		handleErr(err)

		opts := fetch.Options{
			UseCache:        !lo.Must(cmd.Flags().GetBool("no-cache")),
			Selector:        lo.Must(cmd.Flags().GetString("selector")),
			IncludeMetadata: lo.Must(cmd.Flags().GetBool("metadata")),
			FollowRedirects: !lo.Must(cmd.Flags().GetBool("no-redirects")),
			Timeout:         lo.Must(cmd.Flags().GetDuration("timeout")),
		}

		started := time.Now()
		result, err := engine.Scrape(cmd.Context(), args[0], opts)
		handleErr(err)

		asJSON := lo.Must(cmd.Flags().GetBool("json"))
		if lo.Must(cmd.Flags().GetBool("video")) {
			doc, err := extract.ParseString(result.Content)
			handleErr(err)

			info := extract.ExtractVideoInfo(doc, result.URL)
			if asJSON {
				printJSON(cmd.OutOrStdout(), info)
				return
			}

			if err := info.Err(); err != nil {
				warn(err)
			}
			cmd.Println(style.Title(lo.CoalesceOrEmpty(info.Title, result.URL)))
			for _, s := range info.Sources {
				cmd.Printf("%s %s %s\n", icon.Get(icon.Video), s.URL, style.Faint(s.MimeType+" "+s.Quality))
			}
			return
		}

		if asJSON {
			printJSON(cmd.OutOrStdout(), result)
			return
		}

		cmd.Printf(
			"%s %s %s in %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			result.URL,
			style.Faint(fmt.Sprintf("status %d", result.Status)),
			util.Quantify(result.Attempts, "attempt", "attempts"),
		)
		cmd.Println(style.Faint(time.Since(started).Round(time.Millisecond).String()))

		if result.Metadata != nil {
			cmd.Println()
			cmd.Println(style.Title(result.Metadata.Title))
			if result.Metadata.Description != "" {
				cmd.Println(result.Metadata.Description)
			}
			for _, k := range result.Metadata.Keywords {
				cmd.Printf("  %s %s\n", style.Faint("keyword"), k)
			}
			names := lo.Keys(result.Metadata.OpenGraph)
			slices.Sort(names)
			for _, name := range names {
				cmd.Printf("  %s %s\n", style.Fg(color.HiPurple)(name), result.Metadata.OpenGraph[name])
			}
		}

		if opts.Selector != "" {
			cmd.Println()
			if len(result.Elements) == 0 {
				warn(errors.New("selector matched nothing"))
			}
			for _, e := range result.Elements {
				cmd.Println(e)
			}
			return
		}

		if result.Metadata == nil {
			cmd.Println(util.Ellipsize(result.Content, util.TerminalWidth(120)*10))
		}
	},
}
