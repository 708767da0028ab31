package custom

import (
	"context"
	"time"

	"github.com/streamdex/streamdex/extract"
	"github.com/streamdex/streamdex/fetch"
	lua "github.com/yuin/gopher-lua"
)

// registerScrape injects the "scrape" global module, backed by the fetch
// engine with its retries and cache.
//
//	scrape.get(url [, options])   → {url, status, content, elements, metadata, attempts}
//	scrape.select(url, selector)  → array of outer HTML strings
//	scrape.video(url)             → {title, description, thumbnail, sources}
//
// options: {selector, metadata, cache, redirects, timeout (ms)}
func registerScrape(L *lua.LState, scraper Scraper) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		url := L.CheckString(1)
		opts := optionsFromTable(L.OptTable(2, nil))

		result, err := scraper.Scrape(luaContext(L), url, opts)
		if err != nil {
			L.RaiseError("scrape.get failed: %s", err.Error())
			return 0
		}

		L.Push(resultToTable(L, result))
		return 1
	}))
	L.SetField(mod, "select", L.NewFunction(func(L *lua.LState) int {
		url := L.CheckString(1)
		opts := fetch.DefaultOptions()
		opts.Selector = L.CheckString(2)

		result, err := scraper.Scrape(luaContext(L), url, opts)
		if err != nil {
			L.RaiseError("scrape.select failed: %s", err.Error())
			return 0
		}

		L.Push(stringsToTable(L, result.Elements))
		return 1
	}))
	L.SetField(mod, "video", L.NewFunction(func(L *lua.LState) int {
		url := L.CheckString(1)

		result, err := scraper.Scrape(luaContext(L), url, fetch.DefaultOptions())
		if err != nil {
			L.RaiseError("scrape.video failed: %s", err.Error())
			return 0
		}

		doc, err := extract.ParseString(result.Content)
		if err != nil {
			L.RaiseError("scrape.video failed: %s", err.Error())
			return 0
		}

		L.Push(videoToTable(L, extract.ExtractVideoInfo(doc, result.URL)))
		return 1
	}))
	L.SetGlobal("scrape", mod)
}

func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func optionsFromTable(table *lua.LTable) fetch.Options {
	opts := fetch.DefaultOptions()
	if table == nil {
		return opts
	}

	opts.Selector = getString(table, "selector")
	if v := table.RawGetString("metadata"); v != lua.LNil {
		opts.IncludeMetadata = lua.LVAsBool(v)
	}
	if v := table.RawGetString("cache"); v != lua.LNil {
		opts.UseCache = lua.LVAsBool(v)
	}
	if v := table.RawGetString("redirects"); v != lua.LNil {
		opts.FollowRedirects = lua.LVAsBool(v)
	}
	if ms := getNumber(table, "timeout"); ms > 0 {
		opts.Timeout = time.Duration(ms * float64(time.Millisecond))
	}
	return opts
}
