package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/literalura/internal/cache"
	"github.com/lepinkainen/literalura/internal/catalog"
	lerrors "github.com/lepinkainen/literalura/internal/errors"
	"github.com/lepinkainen/literalura/internal/gutendex"
	"github.com/lepinkainen/literalura/internal/testutil"
)

type fakeFetcher struct {
	payload string
	err     error
	calls   int
}

func (f *fakeFetcher) Search(ctx context.Context, term string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.payload), nil
}

type stubSelector struct {
	selection  Selection
	candidates []gutendex.BookRecord
}

func (s *stubSelector) Select(term string, candidates []gutendex.BookRecord) (Selection, error) {
	s.candidates = candidates
	return s.selection, nil
}

const dantePayload = `{"count": 2, "results": [
	{
		"title": "Divina Commedia",
		"authors": [{"name": "Dante Alighieri", "birth_year": 1265, "death_year": 1321}],
		"languages": ["it"],
		"formats": {"text/html": "https://example.org/commedia-a"},
		"download_count": 100
	},
	{
		"title": "Divina Commedia",
		"authors": [{"name": "Dante Alighieri", "birth_year": 1265, "death_year": 1321}],
		"languages": ["it"],
		"formats": {"text/html": "https://example.org/commedia-b"},
		"download_count": 250
	}
]}`

func TestRunCollapsesIdenticalCandidates(t *testing.T) {
	store := testutil.OpenStore(t)
	fetcher := &fakeFetcher{payload: dantePayload}
	selector := &stubSelector{selection: Selection{Action: ActionSkipped}}

	service := NewService(fetcher, store, selector, nil)
	saved, err := service.Run(context.Background(), "dante")
	require.NoError(t, err)
	require.Nil(t, saved)

	// Two results differing only in link and download count collapse to one
	// presented candidate.
	require.Len(t, selector.candidates, 1)
	require.Equal(t, "Divina Commedia", selector.candidates[0].Title)
}

func TestRunSavesSelection(t *testing.T) {
	store := testutil.OpenStore(t)
	fetcher := &fakeFetcher{payload: dantePayload}
	selector := &stubSelector{selection: Selection{Action: ActionSelected, Index: 0}}

	service := NewService(fetcher, store, selector, nil)
	saved, err := service.Run(context.Background(), "dante")
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, "Divina Commedia", saved.Title)

	books, err := store.AllBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Divina Commedia", books[0].Title)
	// The single author had no existing person row, so it was dropped, not
	// inserted.
	require.Empty(t, books[0].Authors)

	persons, err := store.AllPersons()
	require.NoError(t, err)
	require.Empty(t, persons)
}

func TestRunSavesSelectionWithKnownAuthor(t *testing.T) {
	store := testutil.OpenStore(t)
	_, err := store.AddPerson(catalog.Person{Name: "Dante Alighieri", BirthYear: 1265, DeathYear: 1321})
	require.NoError(t, err)

	fetcher := &fakeFetcher{payload: dantePayload}
	selector := &stubSelector{selection: Selection{Action: ActionSelected, Index: 0}}

	service := NewService(fetcher, store, selector, nil)
	_, err = service.Run(context.Background(), "dante")
	require.NoError(t, err)

	books, err := store.AllBooks()
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Len(t, books[0].Authors, 1)
	require.Equal(t, "Dante Alighieri", books[0].Authors[0].Name)
}

func TestRunStopSurfacesStopError(t *testing.T) {
	store := testutil.OpenStore(t)
	fetcher := &fakeFetcher{payload: dantePayload}
	selector := &stubSelector{selection: Selection{Action: ActionStopped}}

	service := NewService(fetcher, store, selector, nil)
	_, err := service.Run(context.Background(), "dante")
	require.Error(t, err)
	require.True(t, lerrors.IsStopProcessingError(err))
}

func TestRunMalformedResponseLeavesStoreUntouched(t *testing.T) {
	store := testutil.OpenStore(t)
	fetcher := &fakeFetcher{payload: `{"count": 0}`}
	selector := &stubSelector{selection: Selection{Action: ActionSelected}}

	service := NewService(fetcher, store, selector, nil)
	_, err := service.Run(context.Background(), "dante")
	require.Error(t, err)
	require.True(t, lerrors.IsMalformedResponseError(err))
	require.Nil(t, selector.candidates)

	books, err := store.AllBooks()
	require.NoError(t, err)
	require.Empty(t, books)
}

func TestRunEmptyResultsSavesNothing(t *testing.T) {
	store := testutil.OpenStore(t)
	fetcher := &fakeFetcher{payload: `{"count": 0, "results": []}`}
	selector := &stubSelector{selection: Selection{Action: ActionSelected}}

	service := NewService(fetcher, store, selector, nil)
	saved, err := service.Run(context.Background(), "nothing here")
	require.NoError(t, err)
	require.Nil(t, saved)
	require.Nil(t, selector.candidates)
}

func TestRunTransportErrorPropagates(t *testing.T) {
	store := testutil.OpenStore(t)
	fetcher := &fakeFetcher{err: lerrors.NewTransportError("gutendex request failed", nil)}
	selector := &stubSelector{}

	service := NewService(fetcher, store, selector, nil)
	_, err := service.Run(context.Background(), "dante")
	require.Error(t, err)
	require.True(t, lerrors.IsTransportError(err))
}

func TestRunServesRepeatSearchFromCache(t *testing.T) {
	store := testutil.OpenStore(t)
	cacheDB, err := cache.Open(testutil.TempDBPath(t, "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cacheDB.Close() })

	fetcher := &fakeFetcher{payload: dantePayload}
	selector := &stubSelector{selection: Selection{Action: ActionSkipped}}

	service := NewService(fetcher, store, selector, cacheDB)

	_, err = service.Run(context.Background(), "dante")
	require.NoError(t, err)
	_, err = service.Run(context.Background(), "Dante")
	require.NoError(t, err)

	// The second search normalizes to the same term and is served from cache.
	require.Equal(t, 1, fetcher.calls)
	require.Len(t, selector.candidates, 1)
}

func TestDedupePreservesFirstOccurrenceOrder(t *testing.T) {
	records := []gutendex.BookRecord{
		{Title: "B", Languages: []string{"en"}},
		{Title: "A", Languages: []string{"en"}},
		{Title: "B", Languages: []string{"en"}, DownloadCount: 7},
		{Title: "C", Languages: []string{"en"}},
		{Title: "A", Languages: []string{"en"}, HTMLLink: "other"},
	}

	unique := Dedupe(records)
	require.Len(t, unique, 3)
	require.Equal(t, "B", unique[0].Title)
	require.Equal(t, "A", unique[1].Title)
	require.Equal(t, "C", unique[2].Title)
}
