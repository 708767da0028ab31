// Package fetch scrapes pages with bounded retries, rotating identities and a
// result cache shared by concurrent callers.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/extract"
	"github.com/streamdex/streamdex/internal/cache"
	"github.com/streamdex/streamdex/internal/flight"
	"github.com/streamdex/streamdex/log"
)

// DefaultCacheTTL is how long a successful result is served from cache.
const DefaultCacheTTL = time.Hour

// Options tune a single scrape.
type Options struct {
	UseCache bool
	// ParseContent parses the body as HTML. Selector and IncludeMetadata imply it.
	ParseContent    bool
	Selector        string
	IncludeMetadata bool
	FollowRedirects bool
	// Timeout bounds each attempt. Zero uses the engine default.
	Timeout time.Duration
}

// DefaultOptions caches, follows redirects and parses nothing.
func DefaultOptions() Options {
	return Options{UseCache: true, FollowRedirects: true}
}

func (o Options) parses() bool {
	return o.ParseContent || o.Selector != "" || o.IncludeMetadata
}

func (o Options) key(url string) string {
	return strings.Join([]string{
		url,
		strconv.FormatBool(o.ParseContent),
		o.Selector,
		strconv.FormatBool(o.IncludeMetadata),
		strconv.FormatBool(o.FollowRedirects),
	}, "|")
}

// Result is a successful scrape.
type Result struct {
	URL      string            `json:"url"`
	Status   int               `json:"status"`
	Content  string            `json:"content"`
	Elements []string          `json:"elements,omitempty"`
	Metadata *extract.Metadata `json:"metadata,omitempty"`
	// Attempts is the number of requests the scrape needed.
	Attempts int `json:"attempts"`
	// Trace holds every state the scrape went through.
	Trace []Attempt `json:"-"`
}

func (r *Result) clone() *Result {
	c := *r
	c.Elements = append([]string(nil), r.Elements...)
	c.Trace = append([]Attempt(nil), r.Trace...)
	if r.Metadata != nil {
		m := *r.Metadata
		m.Keywords = append([]string(nil), r.Metadata.Keywords...)
		m.OpenGraph = lo.Assign(r.Metadata.OpenGraph)
		c.Metadata = &m
	}
	return &c
}

// Config assembles an Engine. Zero fields take defaults.
type Config struct {
	Policy    Policy
	Transport Transport
	Parser    extract.Parser
	Timeout   time.Duration
	CacheTTL  time.Duration
	// Disk, when set, persists results across runs.
	Disk  *cache.Disk[Result]
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
	Seed  int64
}

// Engine performs scrapes. It is safe for concurrent use.
type Engine struct {
	policy    Policy
	transport Transport
	parser    extract.Parser
	timeout   time.Duration
	memory    *cache.Memory[*Result]
	disk      *cache.Disk[Result]
	sleep     func(ctx context.Context, d time.Duration) error
	rotator   *rotator
	group     flight.Group[*Result]
}

// New returns an Engine built from cfg.
func New(cfg Config) *Engine {
	if cfg.Policy.MaxRetries == 0 && cfg.Policy.BaseDelay == 0 {
		cfg.Policy = DefaultPolicy
	}
	if cfg.Transport == nil {
		cfg.Transport = NewDirect(false)
	}
	if cfg.Parser == nil {
		cfg.Parser = extract.HTMLParser{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	return &Engine{
		policy:    cfg.Policy,
		transport: cfg.Transport,
		parser:    cfg.Parser,
		timeout:   cfg.Timeout,
		memory:    cache.NewMemory[*Result](cfg.CacheTTL, cfg.Now),
		disk:      cfg.Disk,
		sleep:     cfg.Sleep,
		rotator:   newRotator(cfg.Seed),
	}
}

// Scrape fetches url. A cached result for the same url and options is
// returned without network I/O. Concurrent calls for the same key share one
// request. After the last failed attempt a *FetchError is returned.
func (e *Engine) Scrape(ctx context.Context, url string, opts Options) (*Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}
	if opts.Selector != "" {
		if _, err := extract.CompileSelector(opts.Selector); err != nil {
			return nil, &ParseError{URL: url, Err: err}
		}
	}

	key := opts.key(url)
	if opts.UseCache {
		if hit, ok := e.cached(key); ok {
			log.Fields(map[string]any{"component": "fetch", "url": url}).Debug("cache hit")
			return hit.clone(), nil
		}
	}

	shared := key + "|cache=" + strconv.FormatBool(opts.UseCache)
	result, err := e.group.Do(ctx, shared, func(ctx context.Context) (*Result, error) {
		result, err := e.scrape(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		if opts.UseCache {
			e.store(key, result)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return result.clone(), nil
}

// ClearCache drops cached results from memory and, when persisted, from disk.
func (e *Engine) ClearCache() error {
	e.memory.Clear()
	if e.disk != nil {
		return e.disk.Clear()
	}
	return nil
}

func (e *Engine) cached(key string) (*Result, bool) {
	if hit, ok := e.memory.Get(key).Get(); ok {
		return hit, true
	}
	if e.disk == nil {
		return nil, false
	}
	entry, ok := e.disk.Get(key).Get()
	if !ok {
		return nil, false
	}
	result := entry.Value
	e.memory.Put(cache.Entry[*Result]{Key: key, Value: &result, WrittenAt: entry.WrittenAt, TTL: entry.TTL})
	return &result, true
}

func (e *Engine) store(key string, result *Result) {
	e.memory.Set(key, result)
	if e.disk == nil {
		return
	}
	if err := e.disk.Set(key, *result); err != nil {
		log.Warnf("persist scrape of %s: %v", result.URL, err)
	}
}

func (e *Engine) scrape(ctx context.Context, url string, opts Options) (*Result, error) {
	var (
		trace    []Attempt
		response *Response
	)

	a := e.policy.Start(url)
	trace = append(trace, a)
	for {
		a = e.policy.Next(a, Outcome{})
		trace = append(trace, a)

		resp, outcome := e.attempt(ctx, url, opts, a.Number)
		a = e.policy.Next(a, outcome)
		trace = append(trace, a)

		logger := log.Fields(map[string]any{
			"component": "fetch",
			"url":       url,
			"attempt":   a.Number,
			"state":     a.State.String(),
			"status":    a.Status,
		})

		if a.State == Success {
			logger.Debug("attempt succeeded")
			response = resp
			break
		}
		if a.State == Failed {
			logger.WithError(a.Err).Warn("scrape failed")
			return nil, &FetchError{URL: url, Attempts: a.Number, Trace: trace, Err: a.Err}
		}

		logger.WithError(a.Err).Infof("retrying in %s", a.NextDelay)
		if err := e.sleep(ctx, a.NextDelay); err != nil {
			a.State, a.Err = Failed, err
			trace = append(trace, a)
			return nil, &FetchError{URL: url, Attempts: a.Number, Trace: trace, Err: err}
		}
	}

	result := &Result{
		URL:      url,
		Status:   response.Status,
		Content:  string(response.Body),
		Attempts: a.Number,
		Trace:    trace,
	}

	if !opts.parses() {
		return result, nil
	}

	doc, err := e.parser.Parse(bytes.NewReader(response.Body))
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}
	if opts.Selector != "" {
		elements, err := extract.Select(doc, opts.Selector)
		if err != nil {
			return nil, &ParseError{URL: url, Err: err}
		}
		result.Elements = elements
	}
	if opts.IncludeMetadata {
		meta := extract.ExtractMetadata(doc)
		result.Metadata = &meta
	}

	return result, nil
}

// attempt issues one request and classifies its outcome.
func (e *Engine) attempt(ctx context.Context, url string, opts Options, number int) (*Response, Outcome) {
	if err := ctx.Err(); err != nil {
		return nil, Outcome{Err: err}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.transport.Do(attemptCtx, &Request{
		URL:             url,
		Header:          e.rotator.For(number).Header(),
		FollowRedirects: opts.FollowRedirects,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, Outcome{Err: ctxErr}
		}
		return nil, Outcome{Err: &NetworkError{URL: url, Err: err}}
	}

	if resp.Status >= http.StatusBadRequest {
		return resp, Outcome{
			Status: resp.Status,
			Err:    &HTTPStatusError{URL: url, StatusCode: resp.Status, Location: resp.Header.Get("Location")},
		}
	}

	return resp, Outcome{Status: resp.Status}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsFetchError reports whether err is a terminal scrape failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func (r *Result) String() string {
	return fmt.Sprintf("%s [%d] %d bytes", r.URL, r.Status, len(r.Content))
}
