package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/streamdex/streamdex/icon"
	"github.com/streamdex/streamdex/store"
)

// Transport modes accepted by fetch.mode.
const (
	FetchModeDirect = "direct"
	FetchModeRelay  = "relay"
)

// components pairs each key group with the part of streamdex it configures,
// in display order.
var components = []struct{ group, name string }{
	{"fetch", "fetch engine"},
	{"catalog", "catalog manager"},
	{"store", "persistent store"},
	{"rank", "ranking engine"},
	{"search", "query suggestions"},
	{"icons", "icon renderer"},
	{"logs", "logger"},
	{"cli", "command line"},
}

// Group returns the key prefix before the first dot.
func (f *Field) Group() string {
	group, _, _ := strings.Cut(f.Key, ".")
	return group
}

// Component names the component that reads this field.
func (f *Field) Component() string {
	group := f.Group()
	for _, c := range components {
		if c.group == group {
			return c.name
		}
	}
	return group
}

// Groups lists the key groups in display order.
func Groups() []string {
	return lo.Map(components, func(c struct{ group, name string }, _ int) string {
		return c.group
	})
}

// Validate reports whether v is an acceptable value for the field.
// v must already have the field's type.
func (f *Field) Validate(v any) error {
	if len(f.Options) > 0 {
		s, ok := v.(string)
		if !ok || !lo.Contains(f.Options, s) {
			return fmt.Errorf("invalid value %v for %s, available options are: %s",
				v, f.Key, strings.Join(f.Options, ", "))
		}
	}

	if f.Range == nil {
		return nil
	}

	var n float64
	switch value := v.(type) {
	case int:
		n = float64(value)
	case float64:
		n = value
	default:
		return fmt.Errorf("%s expects a number, got %T", f.Key, v)
	}

	if math.IsNaN(n) || n < f.Range.Min || n > f.Range.Max {
		return fmt.Errorf("%s must be %s, got %v", f.Key, f.Range, v)
	}
	return nil
}

// Range bounds a numeric field, both ends inclusive.
type Range struct {
	Min, Max float64
}

func (r Range) String() string {
	if math.IsInf(r.Max, 1) {
		return fmt.Sprintf("at least %v", r.Min)
	}
	return fmt.Sprintf("between %v and %v", r.Min, r.Max)
}

type rule func(*Field)

func oneOf(options ...string) rule {
	return func(f *Field) { f.Options = options }
}

func atLeast(min float64) rule {
	return func(f *Field) { f.Range = &Range{Min: min, Max: math.Inf(1)} }
}

func between(min, max float64) rule {
	return func(f *Field) { f.Range = &Range{Min: min, Max: max} }
}

var logLevels = lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string {
	return l.String()
})

var (
	fetchModes    = []string{FetchModeDirect, FetchModeRelay}
	storeBackends = store.Backends()
	iconVariants  = icon.AvailableVariants()
)
