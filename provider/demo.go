package provider

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/content"
)

// DemoID names the bundled sample catalog.
const DemoID = "demo"

//go:embed demo.json
var demoJSON []byte

// Demo serves a small bundled catalog. It is the last resort when every
// upstream and cache failed.
type Demo struct {
	categorizer *categorize.Categorizer
}

// NewDemo returns the provider of the bundled demo catalog.
func NewDemo(categorizer *categorize.Categorizer) *Demo {
	if categorizer == nil {
		categorizer = categorize.New(nil)
	}
	return &Demo{categorizer: categorizer}
}

func (d *Demo) Name() string {
	return DemoID
}

func (d *Demo) Records(context.Context) ([]content.Record, error) {
	var items []categorize.RawItem
	if err := json.Unmarshal(demoJSON, &items); err != nil {
		return nil, fmt.Errorf("decode demo catalog: %w", err)
	}

	return lo.Map(items, func(item categorize.RawItem, _ int) content.Record {
		item.SourceName = DemoID
		return d.categorizer.Categorize(item)
	}), nil
}
