// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Fetch Engine - these keys govern retries, transports and the scrape result cache.
const (
	FetchRetries         = "fetch.retries"
	FetchBaseDelayMs     = "fetch.base_delay_ms"
	FetchTimeoutMs       = "fetch.timeout_ms"
	FetchCacheTTLMinutes = "fetch.cache_ttl_minutes"
	FetchCachePersist    = "fetch.cache_persist"
	FetchFollowRedirects = "fetch.follow_redirects"
	FetchMode            = "fetch.mode"
	FetchRelayURL        = "fetch.relay_url"
	FetchTLSFingerprint  = "fetch.tls_fingerprint"
	FetchConcurrency     = "fetch.concurrency"
)

// Catalog - these keys configure the record cache and its upstream providers.
const (
	CatalogCacheMinutes = "catalog.cache_minutes"
	CatalogPages        = "catalog.pages"
	CatalogProviders    = "catalog.providers"
	CatalogDemoFallback = "catalog.demo_fallback"
)

// Persistent Store - these keys select and address the key-value backend.
const (
	StoreBackend    = "store.backend"
	StoreRedisAddr  = "store.redis_addr"
	StoreRedisDB    = "store.redis_db"
	StoreSQLitePath = "store.sqlite_path"
)

// Ranking - these keys hold the personalization weights.
const (
	RankWeightGenre      = "rank.weight_genre"
	RankWeightActor      = "rank.weight_actor"
	RankWeightDirector   = "rank.weight_director"
	RankWeightRecency    = "rank.weight_recency"
	RankWeightPopularity = "rank.weight_popularity"
	RankWatchedThreshold = "rank.watched_threshold"
)

// Search Interaction - these keys define the query suggestion behaviour.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored = "cli.colored"
)
