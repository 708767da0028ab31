package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/streamdex/streamdex/content"
	"github.com/streamdex/streamdex/log"
)

// Multi merges several providers. Records are deduplicated by id, the first
// provider to report one wins.
type Multi struct {
	providers []content.Provider
}

// NewMulti merges providers, earlier ones taking precedence.
func NewMulti(providers ...content.Provider) *Multi {
	return &Multi{providers: providers}
}

func (m *Multi) Name() string {
	return strings.Join(lo.Map(m.providers, func(p content.Provider, _ int) string {
		return p.Name()
	}), "+")
}

// Records asks each provider in turn. A failing provider never stops the
// others; an error is returned only when every one failed.
func (m *Multi) Records(ctx context.Context) ([]content.Record, error) {
	if len(m.providers) == 0 {
		return nil, content.ErrNoProvider
	}

	var (
		out  []content.Record
		seen = make(map[string]struct{})
		errs []error
	)
	for _, p := range m.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := p.Records(ctx)
		if err != nil {
			log.Fields(map[string]any{"component": "provider", "provider": p.Name()}).
				WithError(err).
				Warn("provider skipped")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		for _, r := range records {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			out = append(out, r)
		}
	}

	if len(out) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
