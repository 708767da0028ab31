package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/categorize"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/extract"
	"github.com/streamdex/streamdex/fetch"
	"github.com/streamdex/streamdex/log"
	"golang.org/x/sync/errgroup"
)

// WebID names the provider scraping configured pages.
const WebID = "web"

// Scraper is the part of the fetch engine providers use.
type Scraper interface {
	Scrape(ctx context.Context, url string, opts fetch.Options) (*fetch.Result, error)
}

// Web turns each configured page into one record: it scrapes the page,
// extracts its video sources and metadata, and categorizes the result.
type Web struct {
	scraper     Scraper
	categorizer *categorize.Categorizer
	pages       []string
	limit       int
	follow      bool
}

// WebConfig assembles a Web provider. Concurrency below 1 runs pages one
// after the other.
type WebConfig struct {
	Scraper         Scraper
	Categorizer     *categorize.Categorizer
	Pages           []string
	Concurrency     int
	FollowRedirects bool
}

// NewWeb returns a Web provider for the distinct non-empty pages of cfg.
func NewWeb(cfg WebConfig) *Web {
	if cfg.Categorizer == nil {
		cfg.Categorizer = categorize.New(nil)
	}
	return &Web{
		scraper:     cfg.Scraper,
		categorizer: cfg.Categorizer,
		pages:       lo.Uniq(lo.Compact(cfg.Pages)),
		limit:       max(cfg.Concurrency, 1),
		follow:      cfg.FollowRedirects,
	}
}

func (w *Web) Name() string {
	return WebID
}

// Records scrapes every page. A failing page is logged and skipped; an error
// is returned only when no page could be scraped.
func (w *Web) Records(ctx context.Context) ([]content.Record, error) {
	if len(w.pages) == 0 {
		return nil, errors.New("no pages configured")
	}

	records := make([]*content.Record, len(w.pages))
	errs := make([]error, len(w.pages))

	var g errgroup.Group
	g.SetLimit(w.limit)
	for i, page := range w.pages {
		i, page := i, page
		g.Go(func() error {
			record, err := w.scrape(ctx, page)
			if err != nil {
				log.Fields(map[string]any{"component": "provider", "provider": WebID, "url": page}).
					WithError(err).
					Warn("page skipped")
				errs[i] = err
				return nil
			}
			records[i] = &record
			return nil
		})
	}
	_ = g.Wait()

	out := make([]content.Record, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, *r)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("all %d pages failed: %w", len(w.pages), errors.Join(errs...))
	}
	return out, nil
}

// scrape parses the page once and reads both its sources and its metadata
// from that document.
func (w *Web) scrape(ctx context.Context, page string) (content.Record, error) {
	result, err := w.scraper.Scrape(ctx, page, fetch.Options{
		UseCache:        true,
		FollowRedirects: w.follow,
	})
	if err != nil {
		return content.Record{}, err
	}

	doc, err := extract.ParseString(result.Content)
	if err != nil {
		return content.Record{}, &fetch.ParseError{URL: page, Err: err}
	}

	info := extract.ExtractVideoInfo(doc, result.URL)
	if err := info.Err(); err != nil {
		log.Fields(map[string]any{"component": "provider", "provider": WebID, "url": page}).
			Warn(err.Error())
	}

	return w.categorizer.Categorize(rawFromPage(page, info, extract.ExtractMetadata(doc))), nil
}

// rawFromPage maps page metadata onto a raw item, og:* properties first.
func rawFromPage(page string, info extract.VideoInfo, meta extract.Metadata) categorize.RawItem {
	og := meta.OpenGraph
	item := categorize.RawItem{
		Title:       lo.CoalesceOrEmpty(og["og:title"], info.Title),
		Description: lo.CoalesceOrEmpty(og["og:description"], info.Description),
		Type:        ogType(og["og:type"]),
		Tags:        meta.Keywords,
		Sources:     info.Sources,
		URL:         page,
		SourceName:  WebID,
		Images:      make(map[string]string),
	}

	if info.Thumbnail != "" {
		item.Images["poster"] = info.Thumbnail
	}
	if date := og["og:video:release_date"]; len(date) >= 4 {
		item.Year, _ = strconv.Atoi(date[:4])
	}
	if secs, err := strconv.Atoi(og["og:video:duration"]); err == nil && secs > 0 {
		item.Duration = fmt.Sprintf("%d min", secs/60)
	}
	if item.Title == "" {
		item.Title = page
	}

	return item
}

// ogType maps "video.tv_show" style values onto type keywords.
func ogType(t string) string {
	t = strings.TrimPrefix(strings.ToLower(t), "video.")
	switch t {
	case "", "website", "article":
		return ""
	}
	return strings.ReplaceAll(t, "_", " ")
}
