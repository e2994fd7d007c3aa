// Package ingest orchestrates a single search-and-save action: fetch a
// results page, decode it, deduplicate the candidates, let the user pick
// one and persist the pick.
package ingest

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/literalura/internal/cache"
	"github.com/lepinkainen/literalura/internal/catalog"
	lerrors "github.com/lepinkainen/literalura/internal/errors"
	"github.com/lepinkainen/literalura/internal/gutendex"
)

// Fetcher is the catalog API surface the service needs.
type Fetcher interface {
	Search(ctx context.Context, term string) ([]byte, error)
}

// SelectionAction represents the user's action in the selection view.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected a candidate.
	ActionSelected
	// ActionSkipped indicates the user discarded all candidates.
	ActionSkipped
	// ActionStopped indicates the user stopped processing entirely.
	ActionStopped
)

// Selection holds the outcome of presenting candidates to the user.
// Index is only meaningful when Action is ActionSelected.
type Selection struct {
	Action SelectionAction
	Index  int
}

// Selector presents an order-stable candidate list and reports the pick.
type Selector interface {
	Select(term string, candidates []gutendex.BookRecord) (Selection, error)
}

// Service wires the catalog client, decoder, mapper and store together for
// one user-initiated search.
type Service struct {
	fetcher  Fetcher
	store    *catalog.Store
	selector Selector
	cache    *cache.DB // nil disables response caching
}

// NewService creates an ingestion service. cacheDB may be nil to always hit
// the API.
func NewService(fetcher Fetcher, store *catalog.Store, selector Selector, cacheDB *cache.DB) *Service {
	return &Service{
		fetcher:  fetcher,
		store:    store,
		selector: selector,
		cache:    cacheDB,
	}
}

// Run performs one search-and-save action and returns the saved record, or
// nil when nothing matched or the user declined every candidate. A user
// stop surfaces as a StopProcessingError.
func (s *Service) Run(ctx context.Context, term string) (*gutendex.BookRecord, error) {
	raw, fromCache, err := cache.GetOrFetch(s.cache, gutendex.EncodeTerm(term), func() (string, error) {
		body, err := s.fetcher.Search(ctx, term)
		if err != nil {
			return "", err
		}
		return string(body), nil
	})
	if err != nil {
		return nil, err
	}
	if fromCache {
		slog.Debug("Serving search from cache", "term", term)
	}

	records, err := gutendex.Decode([]byte(raw))
	if err != nil {
		return nil, err
	}

	candidates := Dedupe(records)
	if len(candidates) == 0 {
		slog.Info("No books matched the search", "term", term)
		return nil, nil
	}

	selection, err := s.selector.Select(term, candidates)
	if err != nil {
		return nil, err
	}

	switch selection.Action {
	case ActionSelected:
		chosen := candidates[selection.Index]
		if err := s.store.Save(catalog.ToEntity(chosen)); err != nil {
			return nil, err
		}
		slog.Info("Book saved", "title", chosen.Title)
		return &chosen, nil
	case ActionStopped:
		return nil, lerrors.NewStopProcessingError("selection stopped by user")
	default:
		return nil, nil
	}
}

// Dedupe collapses records that are equal under record identity (title,
// authors, languages), keeping the first occurrence of each and preserving
// order. Repeated identical records within one API page differ only in
// volatile fields like download count.
func Dedupe(records []gutendex.BookRecord) []gutendex.BookRecord {
	seen := make(map[string]struct{}, len(records))
	var unique []gutendex.BookRecord
	for _, record := range records {
		key := record.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, record)
	}
	return unique
}
