// Package custom runs Lua scripts as catalog providers.
package custom

import (
	"context"
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/util"
	lua "github.com/yuin/gopher-lua"
)

// Scraper is the part of the fetch engine scripts can reach.
type Scraper interface {
	Scrape(ctx context.Context, url string, opts fetch.Options) (*fetch.Result, error)
}

// IDfromName generates the provider identifier of a script basename.
func IDfromName(name string) string {
	return name + " custom"
}

// Load executes the script at path and checks that it defines the catalog
// function.
func Load(path string, scraper Scraper, categorizer *categorize.Categorizer) (*Provider, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerScrape(state, scraper)

	if err := compileAndRun(state, path); err != nil {
		state.Close()
		forget(path)
		return nil, err
	}

	name := util.FileStem(path)
	if state.GetGlobal(constant.CatalogFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.CatalogFn, name)
	}

	return newProvider(name, state, categorizer), nil
}
