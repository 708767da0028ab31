package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/streamdex/streamdex/auth"
	"github.com/streamdex/streamdex/catalog"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/config"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/history"
	"github.com/streamdex/streamdex/internal/cache"
	"github.com/streamdex/streamdex/key"
	"github.com/streamdex/streamdex/provider"
	"github.com/streamdex/streamdex/query"
	"github.com/streamdex/streamdex/rank"
	"github.com/streamdex/streamdex/store"
	"github.com/streamdex/streamdex/where"
)

const (
	modeDirect = config.FetchModeDirect
	modeRelay  = config.FetchModeRelay
)

func minutes(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Minute
}

func millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

func newTransport() (fetch.Transport, error) {
	switch mode := viper.GetString(key.FetchMode); mode {
	case modeDirect, "":
		return fetch.NewDirect(viper.GetBool(key.FetchTLSFingerprint)), nil
	case modeRelay:
		endpoint := viper.GetString(key.FetchRelayURL)
		if endpoint == "" {
			return nil, fmt.Errorf("%s is required in relay mode", key.FetchRelayURL)
		}
		token, err := auth.GetToken()
		if err != nil {
			warn(fmt.Errorf("read relay token: %w", err))
		}
		return fetch.NewRelay(endpoint, token.OrEmpty()), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q, expected %s or %s", mode, modeDirect, modeRelay)
	}
}

func newEngine() (*fetch.Engine, error) {
	transport, err := newTransport()
	if err != nil {
		return nil, err
	}

	cfg := fetch.Config{
		Policy: fetch.Policy{
			MaxRetries: viper.GetInt(key.FetchRetries),
			BaseDelay:  millis(key.FetchBaseDelayMs),
			Penalty:    fetch.DefaultPolicy.Penalty,
		},
		Transport: transport,
		Timeout:   millis(key.FetchTimeoutMs),
		CacheTTL:  minutes(key.FetchCacheTTLMinutes),
	}
	if viper.GetBool(key.FetchCachePersist) {
		cfg.Disk = cache.NewDisk[fetch.Result](where.Scrapes(), cfg.CacheTTL, nil)
	}

	return fetch.New(cfg), nil
}

func newStore(ctx context.Context) (store.Store, error) {
	path := viper.GetString(key.StoreSQLitePath)
	if path == "" {
		path = where.SQLite()
	}

	return store.Open(ctx, store.Config{
		Backend:    viper.GetString(key.StoreBackend),
		Dir:        where.Store(),
		RedisAddr:  viper.GetString(key.StoreRedisAddr),
		RedisDB:    viper.GetInt(key.StoreRedisDB),
		SQLitePath: path,
	})
}

func weights() rank.Weights {
	return rank.Weights{
		Genre:      viper.GetFloat64(key.RankWeightGenre),
		Actor:      viper.GetFloat64(key.RankWeightActor),
		Director:   viper.GetFloat64(key.RankWeightDirector),
		Recency:    viper.GetFloat64(key.RankWeightRecency),
		Popularity: viper.GetFloat64(key.RankWeightPopularity),
	}
}

// app holds every component a command may need.
type app struct {
	engine      *fetch.Engine
	categorizer *categorize.Categorizer
	store       store.Store
	catalog     *catalog.Manager
	ranker      *rank.Engine
	history     *history.History
	queries     *query.Queries
}

func newApp(ctx context.Context) (*app, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}

	st, err := newStore(ctx)
	if err != nil {
		return nil, err
	}

	categorizer := categorize.New(nil)
	deps := provider.Deps{
		Scraper:         engine,
		Categorizer:     categorizer,
		Pages:           viper.GetStringSlice(key.CatalogPages),
		Concurrency:     viper.GetInt(key.FetchConcurrency),
		FollowRedirects: viper.GetBool(key.FetchFollowRedirects),
	}

	upstream, err := provider.Resolve(where.Providers(), viper.GetStringSlice(key.CatalogProviders), deps)
	if err != nil {
		return nil, err
	}

	var fallback content.Provider = content.NoProvider{}
	if viper.GetBool(key.CatalogDemoFallback) {
		fallback = provider.NewDemo(categorizer)
	}

	return &app{
		engine:      engine,
		categorizer: categorizer,
		store:       st,
		catalog: catalog.New(catalog.Config{
			Provider:      upstream,
			Fallback:      fallback,
			Store:         st,
			CacheDuration: minutes(key.CatalogCacheMinutes),
		}),
		ranker:  rank.New(rank.WithWatchedThreshold(viper.GetFloat64(key.RankWatchedThreshold))),
		history: history.New(where.History()),
		queries: query.New(where.Queries()),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// mustApp builds the app or exits.
func mustApp(ctx context.Context) *app {
	a, err := newApp(ctx)
	handleErr(err)
	return a
}
