// Package history keeps track of what the user watched and how far they got.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/filesystem"
	"github.com/streamdex/streamdex/rank"
)

// Entry is the saved progress on one record.
type Entry struct {
	ContentID    string       `json:"content_id"`
	Title        string       `json:"title"`
	Type         content.Type `json:"type"`
	Genres       []string     `json:"genres,omitempty"`
	Actors       []string     `json:"actors,omitempty"`
	Directors    []string     `json:"directors,omitempty"`
	EpisodeCount int          `json:"episode_count,omitempty"`
	LastEpisode  int          `json:"last_episode,omitempty"`
	Percentage   float64      `json:"watched_percentage"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewEntry captures the traits of r the ranking engine learns from.
func NewEntry(r content.Record, percentage float64, lastEpisode int) Entry {
	return Entry{
		ContentID:    r.ID,
		Title:        r.Title,
		Type:         r.Type,
		Genres:       append([]string(nil), r.Genres...),
		Actors:       append([]string(nil), r.Actors...),
		Directors:    append([]string(nil), r.Directors...),
		EpisodeCount: r.EpisodeCount,
		LastEpisode:  lastEpisode,
		Percentage:   percentage,
	}
}

func (e Entry) record() content.Record {
	return content.Record{ID: e.ContentID, Genres: e.Genres, Actors: e.Actors, Directors: e.Directors}
}

// History is a disk-backed registry of entries keyed by content id.
type History struct {
	mu     sync.Mutex
	cacher *gache.Cache[map[string]Entry]
	now    func() time.Time
}

// New opens the registry stored at path.
func New(path string) *History {
	return &History{
		cacher: gache.New[map[string]Entry](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

func (h *History) load() (map[string]Entry, error) {
	cached, expired, err := h.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]Entry), nil
	}
	return cached, nil
}

// Get returns every entry by content id.
func (h *History) Get() (map[string]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

// Save stores entry. Progress already saved for the same record is never
// lowered, so re-watching the start of a film keeps it marked as seen.
func (h *History) Save(entry Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	saved, err := h.load()
	if err != nil {
		return err
	}

	if existing, ok := saved[entry.ContentID]; ok {
		entry.Percentage = max(entry.Percentage, existing.Percentage)
		entry.LastEpisode = max(entry.LastEpisode, existing.LastEpisode)
	}
	entry.UpdatedAt = h.now()
	saved[entry.ContentID] = entry

	return h.cacher.Set(saved)
}

// Remove deletes the entry of contentID. Unknown ids are ignored.
func (h *History) Remove(contentID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	saved, err := h.load()
	if err != nil {
		return err
	}

	delete(saved, contentID)
	return h.cacher.Set(saved)
}

// List returns the entries, most recently updated first.
func (h *History) List() ([]Entry, error) {
	saved, err := h.Get()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(saved))
	for _, e := range saved {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].ContentID < entries[j].ContentID
	})
	return entries, nil
}

// Profile turns the history into the preference signal of the ranking engine.
func (h *History) Profile() (rank.Profile, error) {
	entries, err := h.List()
	if err != nil {
		return rank.Profile{}, err
	}

	profile := rank.NewProfile()
	for _, e := range entries {
		profile.Observe(e.record())
		profile.Watch(rank.WatchState{
			ContentID:   e.ContentID,
			Percentage:  e.Percentage,
			LastEpisode: e.LastEpisode,
		})
	}
	return profile, nil
}
