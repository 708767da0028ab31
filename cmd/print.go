package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/rank"
	"github.com/streamdex/streamdex/style"
	"github.com/streamdex/streamdex/util"
	"golang.org/x/exp/slices"
)

var typeTags = map[content.Type]func(string) string{
	content.Movie:       style.Tag(color.New("230"), color.Blue),
	content.Series:      style.Tag(color.New("230"), color.Purple),
	content.Anime:       style.Tag(color.New("230"), color.Red),
	content.Documentary: style.Tag(color.New("230"), color.Green),
	content.Show:        style.Tag(color.New("230"), color.Cyan),
}

func typeTag(t content.Type) string {
	if tag, ok := typeTags[t]; ok {
		return tag(string(t))
	}
	return style.Faint(string(t))
}

// recordLine renders r on a single line fitted to the terminal.
func recordLine(r content.Record) string {
	var b strings.Builder
	b.WriteString(typeTag(r.Type))
	b.WriteString(" ")
	b.WriteString(style.Bold(r.Title))
	if r.Year > 0 {
		b.WriteString(" ")
		b.WriteString(style.Faint("(" + strconv.Itoa(r.Year) + ")"))
	}
	if r.Rating > 0 {
		b.WriteString(" ")
		b.WriteString(style.Fg(color.Orange)(fmt.Sprintf("%s %.1f", icon.Get(icon.Star), r.Rating)))
	}
	if len(r.Sources) > 0 {
		b.WriteString(" ")
		b.WriteString(style.Fg(color.Green)(icon.Get(icon.Video)))
	}
	b.WriteString(" ")
	b.WriteString(style.Fg(color.Yellow)(r.Category))
	b.WriteString(" ")
	b.WriteString(style.Faint(r.ID))
	return util.Ellipsize(b.String(), util.TerminalWidth(120))
}

func printRecords(cmd *cobra.Command, records []content.Record, asJSON bool) {
	if asJSON {
		printJSON(cmd.OutOrStdout(), records)
		return
	}

	if len(records) == 0 {
		cmd.Println(style.Faint("no titles"))
		return
	}

	for _, r := range records {
		cmd.Println(recordLine(r))
	}
}

func printRecord(cmd *cobra.Command, r content.Record, asJSON bool) {
	if asJSON {
		printJSON(cmd.OutOrStdout(), r)
		return
	}

	field := func(name, value string) {
		if value == "" {
			return
		}
		cmd.Printf("%s %s\n", style.Fg(color.HiPurple)(name+":"), value)
	}

	cmd.Println(style.Title(r.Title))
	field("ID", r.ID)
	field("Type", string(r.Type))
	field("Category", r.Category)
	field("Origin", string(r.Origin))
	if r.Year > 0 {
		field("Year", strconv.Itoa(r.Year))
	}
	if r.Rating > 0 {
		field("Rating", fmt.Sprintf("%.1f", r.Rating))
	}
	field("Genres", strings.Join(r.Genres, ", "))
	field("Directors", strings.Join(r.Directors, ", "))
	field("Actors", strings.Join(r.Actors, ", "))
	if r.DurationMinutes > 0 {
		field("Duration", fmt.Sprintf("%d min", r.DurationMinutes))
	}
	if r.EpisodeCount > 0 {
		field("Episodes", strconv.Itoa(r.EpisodeCount))
	}
	field("Source", r.SourceName)
	field("URL", r.URL)
	if r.Description != "" {
		cmd.Println()
		cmd.Println(util.Ellipsize(r.Description, util.TerminalWidth(120)*3))
	}
	if len(r.Sources) > 0 {
		cmd.Println()
		cmd.Println(style.Fg(color.HiPurple)(util.Quantify(len(r.Sources), "source", "sources") + ":"))
		for _, s := range r.Sources {
			cmd.Printf("  %s %s %s\n", icon.Get(icon.Video), s.URL, style.Faint(strings.TrimSpace(s.MimeType+" "+s.Quality)))
		}
	}
}

func printScored(cmd *cobra.Command, scored []rank.Scored, explain, asJSON bool) {
	if asJSON {
		printJSON(cmd.OutOrStdout(), scored)
		return
	}

	if len(scored) == 0 {
		cmd.Println(style.Faint("no recommendation"))
		return
	}

	for _, s := range scored {
		cmd.Printf("%s %s\n", style.Fg(color.HiCyan)(fmt.Sprintf("%5.2f", s.Score.Final)), recordLine(s.Record))
		if !explain {
			continue
		}

		factors := lo.Keys(s.Score.Components)
		slices.Sort(factors)
		parts := lo.Map(factors, func(f rank.Factor, _ int) string {
			return fmt.Sprintf("%s=%.2f", f, s.Score.Components[f])
		})
		cmd.Println("      " + style.Faint(strings.Join(parts, " ")))
	}
}

func printJSON(w io.Writer, v any) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	handleErr(encoder.Encode(v))
}
