package gutendex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	lerrors "github.com/lepinkainen/literalura/internal/errors"
)

func TestEncodeTerm(t *testing.T) {
	require.Equal(t, "divina%20commedia", EncodeTerm("Divina Commedia"))
	require.Equal(t, "dante", EncodeTerm("DANTE"))
	require.Equal(t, "", EncodeTerm(""))
}

func TestSearchRequestShape(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	raw, err := client.Search(context.Background(), "Divina Commedia")
	require.NoError(t, err)
	require.Equal(t, "/books/", gotPath)
	require.Equal(t, "search=divina%20commedia", gotQuery)
	require.JSONEq(t, `{"results": []}`, string(raw))
}

func TestSearchReturnsRawBodyUnparsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	raw, err := client.Search(context.Background(), "dante")
	require.NoError(t, err)
	// The client does not interpret the payload; decoding happens elsewhere.
	require.Equal(t, `{"unexpected": true}`, string(raw))
}

func TestSearchConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, 2*time.Second)
	_, err := client.Search(context.Background(), "dante")
	require.Error(t, err)
	require.True(t, lerrors.IsTransportError(err))
}

func TestSearchContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Search(ctx, "dante")
	require.Error(t, err)
}
