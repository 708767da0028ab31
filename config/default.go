package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/color"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/key"
	"github.com/streamdex/streamdex/store"
	"github.com/streamdex/streamdex/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
	// Options lists the accepted values of an enumerated field.
	Options []string
	// Range bounds a numeric field.
	Range *Range
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Streamdex + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON includes the current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	var bounds string
	if f.Range != nil {
		bounds = f.Range.String()
	}
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Component   string   `json:"component"`
		Options     []string `json:"options,omitempty"`
		Range       string   `json:"range,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Component:   f.Component(),
		Options:     f.Options,
		Range:       bounds,
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds every registered configuration field keyed by name.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string, rules ...rule) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key: " + k)
		}
		field := Field{Key: k, Value: v, Description: desc}
		for _, r := range rules {
			r(&field)
		}
		if err := field.Validate(v); err != nil {
			panic("invalid default: " + err.Error())
		}
		Default[k] = field
		EnvExposed = append(EnvExposed, k)
	}

	register(key.FetchRetries, 3, "Maximum number of attempts per scrape", atLeast(1))
	register(key.FetchBaseDelayMs, 1000, "Base retry delay in milliseconds.\nAttempt n waits base*n, tripled on HTTP 403/429", atLeast(0))
	register(key.FetchTimeoutMs, 15000, "Per-request timeout in milliseconds", atLeast(1))
	register(key.FetchCacheTTLMinutes, 60, "Lifetime of cached scrape results in minutes", atLeast(0))
	register(key.FetchCachePersist, false, "Persist scrape results to the cache directory")
	register(key.FetchFollowRedirects, true, "Follow HTTP redirects")
	register(key.FetchMode, FetchModeDirect, "Transport mode", oneOf(fetchModes...))
	register(key.FetchRelayURL, "", "Forwarding endpoint used in relay mode.\nThe target is appended as ?url=")
	register(key.FetchTLSFingerprint, false, "Use a Chrome TLS fingerprint for direct requests")
	register(key.FetchConcurrency, 1, "Maximum number of pages scraped at once.\n1 keeps the sequential behaviour", atLeast(1))
	register(key.CatalogCacheMinutes, 30, "Freshness window of the catalog in minutes", atLeast(0))
	register(key.CatalogPages, []string{}, "Pages scraped to build the catalog")
	register(key.CatalogProviders, []string{}, "Lua providers queried to build the catalog.\nType \"streamdex providers list\" to show available providers")
	register(key.CatalogDemoFallback, true, "Serve the embedded demo catalog when every provider fails")
	register(key.StoreBackend, store.BackendFile, "Persistent store backend", oneOf(storeBackends...))
	register(key.StoreRedisAddr, "localhost:6379", "Redis address for the redis backend")
	register(key.StoreRedisDB, 0, "Redis database for the redis backend", atLeast(0))
	register(key.StoreSQLitePath, "", "Database file for the sqlite backend.\nDefaults to the cache directory")
	register(key.RankWeightGenre, 0.4, "Weight of the genre affinity factor", between(0, 1))
	register(key.RankWeightActor, 0.2, "Weight of the actor affinity factor", between(0, 1))
	register(key.RankWeightDirector, 0.1, "Weight of the director affinity factor", between(0, 1))
	register(key.RankWeightRecency, 0.2, "Weight of the recency factor", between(0, 1))
	register(key.RankWeightPopularity, 0.1, "Weight of the popularity factor", between(0, 1))
	register(key.RankWatchedThreshold, 80, "Percentage required to treat a title as watched", between(1, 100))
	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching")
	register(key.IconsVariant, "plain", "Icons variant", oneOf(iconVariants...))
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Log level, from least to most verbose", oneOf(logLevels...))
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"join":     strings.Join,
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}
{{ blue "Feeds:" }}   {{ .Component }}{{ if .Options }}
{{ blue "Options:" }} {{ join .Options ", " }}{{ end }}{{ if .Range }}
{{ blue "Range:" }}   {{ .Range }}{{ end }}`))
