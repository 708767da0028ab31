package custom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/extract"
	"github.com/streamdex/streamdex/fetch"
	lua "github.com/yuin/gopher-lua"
)

func getString(table *lua.LTable, key string) string {
	switch val := table.RawGetString(key).(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return val.String()
	default:
		return ""
	}
}

func getNumber(table *lua.LTable, key string) float64 {
	switch val := table.RawGetString(key).(type) {
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		n, _ := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
		return n
	default:
		return 0
	}
}

// getStringList reads a comma-separated string or an array of strings.
func getStringList(table *lua.LTable, key string) []string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return lo.Compact(lo.Map(strings.Split(val.String(), ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	}
	if tbl, ok := val.(*lua.LTable); ok {
		var list []string
		tbl.ForEach(func(_, v lua.LValue) {
			if v.Type() == lua.LTString {
				list = append(list, v.String())
			}
		})
		return list
	}
	return nil
}

func itemFromTable(table *lua.LTable) (categorize.RawItem, error) {
	title := getString(table, "title")
	if title == "" {
		return categorize.RawItem{}, errors.New("item must have a title")
	}

	item := categorize.RawItem{
		ID:           getString(table, "id"),
		Title:        title,
		URL:          getString(table, "url"),
		Type:         getString(table, "type"),
		Origin:       getString(table, "origin"),
		Genres:       getStringList(table, "genres"),
		Tags:         getStringList(table, "tags"),
		Description:  getString(table, "description"),
		Year:         int(getNumber(table, "year")),
		Rating:       getNumber(table, "rating"),
		EpisodeCount: int(getNumber(table, "episodes")),
		Popularity:   getNumber(table, "popularity"),
		Actors:       getStringList(table, "actors"),
		Directors:    getStringList(table, "directors"),
	}

	// a bare number is minutes
	if d, ok := table.RawGetString("duration").(lua.LNumber); ok {
		item.Duration = fmt.Sprintf("%d min", int(d))
	} else {
		item.Duration = getString(table, "duration")
	}

	item.Images = make(map[string]string)
	if images, ok := table.RawGetString("images").(*lua.LTable); ok {
		images.ForEach(func(k, v lua.LValue) {
			item.Images[k.String()] = v.String()
		})
	}
	if poster := getString(table, "poster"); poster != "" {
		item.Images["poster"] = poster
	}

	if sources, ok := table.RawGetString("sources").(*lua.LTable); ok {
		sources.ForEach(func(_, v lua.LValue) {
			tbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			src, err := sourceFromTable(tbl)
			if err != nil {
				return
			}
			item.Sources = append(item.Sources, src)
		})
	}

	return item, nil
}

func sourceFromTable(table *lua.LTable) (content.VideoSource, error) {
	url := getString(table, "url")
	if url == "" {
		return content.VideoSource{}, errors.New("source must have url")
	}

	mime := getString(table, "type")
	if mime == "" {
		mime = extract.InferMIME(url)
	}

	return content.VideoSource{
		URL:      url,
		MimeType: mime,
		Quality:  getString(table, "quality"),
	}, nil
}

func stringsToTable(L *lua.LState, values []string) *lua.LTable {
	table := L.NewTable()
	for _, v := range values {
		table.Append(lua.LString(v))
	}
	return table
}

func resultToTable(L *lua.LState, result *fetch.Result) *lua.LTable {
	table := L.NewTable()
	table.RawSetString("url", lua.LString(result.URL))
	table.RawSetString("status", lua.LNumber(result.Status))
	table.RawSetString("content", lua.LString(result.Content))
	table.RawSetString("attempts", lua.LNumber(result.Attempts))
	table.RawSetString("elements", stringsToTable(L, result.Elements))

	if result.Metadata != nil {
		meta := L.NewTable()
		meta.RawSetString("title", lua.LString(result.Metadata.Title))
		meta.RawSetString("description", lua.LString(result.Metadata.Description))
		meta.RawSetString("keywords", stringsToTable(L, result.Metadata.Keywords))
		og := L.NewTable()
		for k, v := range result.Metadata.OpenGraph {
			og.RawSetString(k, lua.LString(v))
		}
		meta.RawSetString("og", og)
		table.RawSetString("metadata", meta)
	}

	return table
}

func videoToTable(L *lua.LState, info extract.VideoInfo) *lua.LTable {
	table := L.NewTable()
	table.RawSetString("title", lua.LString(info.Title))
	table.RawSetString("description", lua.LString(info.Description))
	table.RawSetString("thumbnail", lua.LString(info.Thumbnail))

	sources := L.NewTable()
	for _, s := range info.Sources {
		src := L.NewTable()
		src.RawSetString("url", lua.LString(s.URL))
		src.RawSetString("type", lua.LString(s.MimeType))
		src.RawSetString("quality", lua.LString(s.Quality))
		sources.Append(src)
	}
	table.RawSetString("sources", sources)
	return table
}
