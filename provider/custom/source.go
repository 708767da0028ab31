package custom

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/log"
	lua "github.com/yuin/gopher-lua"
)

// Provider is a content.Provider backed by a Lua state. Calls are
// serialized since a state is not safe for concurrent use.
type Provider struct {
	mu          sync.Mutex
	name        string
	state       *lua.LState
	categorizer *categorize.Categorizer
}

func newProvider(name string, state *lua.LState, categorizer *categorize.Categorizer) *Provider {
	if categorizer == nil {
		categorizer = categorize.New(nil)
	}
	return &Provider{name: name, state: state, categorizer: categorizer}
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) ID() string {
	return IDfromName(p.name)
}

// Records calls the catalog function and categorizes what it returns.
// Invalid items are skipped.
func (p *Provider) Records(ctx context.Context) ([]content.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.SetContext(ctx)
	defer p.state.RemoveContext()

	val, err := p.call(constant.CatalogFn, lua.LTTable)
	if err != nil {
		return nil, err
	}

	var (
		records []content.Record
		errs    []error
	)
	val.(*lua.LTable).ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber {
			return
		}
		tbl, ok := v.(*lua.LTable)
		if !ok {
			errs = append(errs, fmt.Errorf("item %s is a %s", k, v.Type()))
			return
		}

		item, err := itemFromTable(tbl)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %s: %w", k, err))
			return
		}
		item.SourceName = p.name
		records = append(records, p.categorizer.Categorize(item))
	})

	if len(errs) > 0 {
		log.Fields(map[string]any{"component": "provider", "provider": p.name}).
			WithError(errors.Join(errs...)).
			Warnf("skipped %d items", len(errs))
	}
	if len(records) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	return records, nil
}

// Close releases the Lua state.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Close()
}

// call executes a global Lua function and checks its return type.
func (p *Provider) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	luaFn := p.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := p.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, err
	}

	retval := p.state.Get(-1)
	p.state.Pop(1)

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	return retval, nil
}
