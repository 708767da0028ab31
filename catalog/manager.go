// Package catalog owns the canonical record set: it reads through memory,
// the persistent store and the upstream provider, keeps secondary indexes and
// serves stale data when a refresh fails.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/mo"
	"github.com/streamdex/streamdex/constant"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/event"
	"github.com/streamdex/streamdex/internal/flight"
	"github.com/streamdex/streamdex/log"
	"github.com/streamdex/streamdex/store"
)

// DefaultCacheDuration is the freshness window of a snapshot.
const DefaultCacheDuration = 30 * time.Minute

// ErrEmptyUpstream is returned when a provider succeeds without any record.
var ErrEmptyUpstream = errors.New("upstream returned no records")

// Config assembles a Manager. Nil collaborators are replaced with null objects.
type Config struct {
	Provider content.Provider
	// Fallback serves records when both upstream and every cache fail.
	Fallback      content.Provider
	Store         store.Store
	CacheDuration time.Duration
	Now           func() time.Time
}

// ReadOptions tune GetAll.
type ReadOptions struct {
	ForceRefresh bool
}

// ClearOptions select the tiers ClearCache empties. Both false clears both.
type ClearOptions struct {
	Memory     bool
	Persistent bool
}

// Status describes the snapshot currently served.
type Status struct {
	Loaded    bool
	Records   int
	FetchedAt time.Time
	Origin    Origin
	Stale     bool
}

// Manager is safe for concurrent use.
type Manager struct {
	provider content.Provider
	fallback content.Provider
	store    store.Store
	ttl      time.Duration
	now      func() time.Time

	current atomic.Pointer[snapshot]
	group   flight.Group[*snapshot]
	events  *event.Bus[Event]
}

// New returns a Manager built from cfg.
func New(cfg Config) *Manager {
	if cfg.Provider == nil {
		cfg.Provider = content.NoProvider{}
	}
	if cfg.Fallback == nil {
		cfg.Fallback = content.NoProvider{}
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	if cfg.CacheDuration <= 0 {
		cfg.CacheDuration = DefaultCacheDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Manager{
		provider: cfg.Provider,
		fallback: cfg.Fallback,
		store:    cfg.Store,
		ttl:      cfg.CacheDuration,
		now:      cfg.Now,
		events:   event.NewBus[Event](),
	}
}

// Subscribe registers fn for catalog events.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	return m.events.Subscribe(fn)
}

// Status reports on the snapshot in memory.
func (m *Manager) Status() Status {
	snap := m.current.Load()
	if snap == nil {
		return Status{}
	}
	return Status{
		Loaded:    true,
		Records:   len(snap.records),
		FetchedAt: snap.fetchedAt,
		Origin:    snap.origin,
		Stale:     snap.stale || !m.fresh(snap.fetchedAt),
	}
}

// GetAll returns every record. See snapshot for the read path.
func (m *Manager) GetAll(ctx context.Context, opts ReadOptions) ([]content.Record, error) {
	snap, err := m.snapshot(ctx, opts)
	if err != nil {
		return nil, err
	}
	return content.CloneAll(snap.records), nil
}

// GetByID looks a record up by id.
func (m *Manager) GetByID(ctx context.Context, id string) (mo.Option[content.Record], error) {
	snap, err := m.snapshot(ctx, ReadOptions{})
	if err != nil {
		return mo.None[content.Record](), err
	}
	i, ok := snap.byID[id]
	if !ok {
		return mo.None[content.Record](), nil
	}
	return mo.Some(snap.records[i].Clone()), nil
}

// GetByType returns the records of type t.
func (m *Manager) GetByType(ctx context.Context, t content.Type) ([]content.Record, error) {
	snap, err := m.snapshot(ctx, ReadOptions{})
	if err != nil {
		return nil, err
	}
	return snap.pick(snap.byType[t]), nil
}

// GetByCategory returns the records whose main category is category.
func (m *Manager) GetByCategory(ctx context.Context, category string) ([]content.Record, error) {
	snap, err := m.snapshot(ctx, ReadOptions{})
	if err != nil {
		return nil, err
	}
	return snap.pick(snap.byCategory[strings.ToLower(strings.TrimSpace(category))]), nil
}

// Categories returns every category label present in the catalog.
func (m *Manager) Categories(ctx context.Context) ([]string, error) {
	snap, err := m.snapshot(ctx, ReadOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(snap.byCategory))
	for c := range snap.byCategory {
		out = append(out, c)
	}
	return out, nil
}

// ClearCache empties the selected tiers.
func (m *Manager) ClearCache(ctx context.Context, opts ClearOptions) error {
	if !opts.Memory && !opts.Persistent {
		opts.Memory, opts.Persistent = true, true
	}

	if opts.Memory {
		m.current.Store(nil)
	}
	if opts.Persistent {
		if err := m.store.Remove(ctx, constant.StoreKeyContent); err != nil {
			return fmt.Errorf("remove %s: %w", constant.StoreKeyContent, err)
		}
		if err := m.store.Remove(ctx, constant.StoreKeyTimestamp); err != nil {
			return fmt.Errorf("remove %s: %w", constant.StoreKeyTimestamp, err)
		}
	}

	m.publish(Event{Kind: EventCleared})
	return nil
}

func (m *Manager) fresh(fetchedAt time.Time) bool {
	return m.now().Sub(fetchedAt) < m.ttl
}

// snapshot resolves the record set: a fresh in-memory snapshot, else a
// fresh persisted one, else a refresh from upstream.
func (m *Manager) snapshot(ctx context.Context, opts ReadOptions) (*snapshot, error) {
	if !opts.ForceRefresh {
		if snap := m.current.Load(); snap != nil && !snap.stale && m.fresh(snap.fetchedAt) {
			return snap, nil
		}
		if snap, ok := m.loadPersisted(ctx); ok && m.fresh(snap.fetchedAt) {
			m.current.Store(snap)
			return snap, nil
		}
	}

	return m.group.Do(ctx, "refresh", m.refresh)
}

// refresh asks upstream for a new record set. On failure it falls back to
// the last snapshot in memory, then the persisted one, then the fallback
// provider, and only then gives up.
func (m *Manager) refresh(ctx context.Context) (*snapshot, error) {
	logger := log.Fields(map[string]any{"component": "catalog", "provider": m.provider.Name()})

	records, err := m.provider.Records(ctx)
	if err == nil && len(records) == 0 {
		err = ErrEmptyUpstream
	}
	if err == nil {
		snap := newSnapshot(records, m.now(), FromUpstream)
		m.current.Store(snap)
		if perr := m.persist(ctx, snap); perr != nil {
			logger.WithError(perr).Warn("persist catalog")
		}
		logger.Infof("refreshed %d records", len(snap.records))
		m.publish(Event{Kind: EventRefreshed, Records: len(snap.records), Origin: FromUpstream})
		return snap, nil
	}

	if ctx.Err() != nil {
		// Every reader gave up; the cached tiers are left as they were.
		return nil, ctx.Err()
	}

	logger.WithError(err).Warn("refresh failed")
	m.publish(Event{Kind: EventFailed, Err: err})

	if cur := m.current.Load(); cur != nil {
		return m.serveStale(cur.markStale(), err), nil
	}
	if persisted, ok := m.loadPersisted(ctx); ok {
		return m.serveStale(persisted.markStale(), err), nil
	}

	fallback, ferr := m.fallback.Records(ctx)
	if ferr == nil && len(fallback) > 0 {
		snap := newSnapshot(fallback, m.now(), FromFallback).markStale()
		return m.serveStale(snap, err), nil
	}

	return nil, fmt.Errorf("refresh catalog: %w", err)
}

func (m *Manager) serveStale(snap *snapshot, cause error) *snapshot {
	m.current.Store(snap)
	m.publish(Event{Kind: EventStale, Records: len(snap.records), Origin: snap.origin, Err: cause})
	return snap
}

func (m *Manager) persist(ctx context.Context, snap *snapshot) error {
	data, err := json.Marshal(snap.records)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, constant.StoreKeyContent, data); err != nil {
		return err
	}
	ts := strconv.FormatInt(snap.fetchedAt.UnixMilli(), 10)
	return m.store.Set(ctx, constant.StoreKeyTimestamp, []byte(ts))
}

func (m *Manager) loadPersisted(ctx context.Context) (*snapshot, bool) {
	logger := log.Fields(map[string]any{"component": "catalog"})

	rawTS, err := m.store.Get(ctx, constant.StoreKeyTimestamp)
	if err != nil {
		logger.WithError(err).Warn("read persisted timestamp")
		return nil, false
	}
	ts, ok := rawTS.Get()
	if !ok {
		return nil, false
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(string(ts)), 10, 64)
	if err != nil {
		return nil, false
	}

	rawContent, err := m.store.Get(ctx, constant.StoreKeyContent)
	if err != nil {
		logger.WithError(err).Warn("read persisted catalog")
		return nil, false
	}
	data, ok := rawContent.Get()
	if !ok {
		return nil, false
	}

	var records []content.Record
	if err := json.Unmarshal(data, &records); err != nil {
		logger.WithError(err).Warn("decode persisted catalog")
		return nil, false
	}

	return newSnapshot(records, time.UnixMilli(millis), FromStore), true
}

func (m *Manager) publish(e Event) {
	if e.At.IsZero() {
		e.At = m.now()
	}
	m.events.Publish(e)
}
