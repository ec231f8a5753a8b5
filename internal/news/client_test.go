package news_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"news-etl/internal/news"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := news.NewClient("  ")
	assert.ErrorIs(t, err, news.ErrMissingAPIKey)
}

func TestParams_Set(t *testing.T) {
	p := news.NewParams()

	require.NoError(t, p.Set("q", "climate"))
	require.NoError(t, p.Set("country", []string{"us", "gb"}))
	require.NoError(t, p.Set("full_content", true))
	require.NoError(t, p.Set("image", false))
	require.NoError(t, p.Set("size", 10))

	assert.Equal(t, "climate", p.Get("q"))
	assert.Equal(t, "us,gb", p.Get("country"))
	assert.Equal(t, "1", p.Get("full_content"))
	assert.Equal(t, "0", p.Get("image"))
	assert.Equal(t, "10", p.Get("size"))

	assert.Error(t, p.Set("hello", "world"), "unknown parameter")
	assert.Error(t, p.Set("q", 3))
	assert.Error(t, p.Set("video", "yes"))
	assert.Error(t, p.Set("timeframe", "24"))
	assert.Error(t, p.Set("size", 10.5))
}

func TestFetch_SendsKeyAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/1/news", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-ACCESS-KEY"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "24", r.URL.Query().Get("timeframe"))
		assert.Empty(t, r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"status":"success","totalResults":1,"results":[{"title":"T","link":"https://x/1","language":"english"}]}`)
	}))
	defer srv.Close()

	c, err := news.NewClient("secret", news.WithBaseURL(srv.URL+"/api/1"))
	require.NoError(t, err)

	p := news.NewParams()
	require.NoError(t, p.Set("language", "en"))
	require.NoError(t, p.Set("timeframe", 24))

	resp, err := c.Fetch(context.Background(), news.EndpointNews, p, "")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://x/1", resp.Results[0].Link)
	assert.Empty(t, resp.NextPage)
}

func TestFetch_InvalidEndpoint(t *testing.T) {
	c, err := news.NewClient("k")
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), "latest", nil, "")
	assert.ErrorContains(t, err, "invalid endpoint")
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","results":{"message":"API key invalid"}}`)
	}))
	defer srv.Close()

	c, err := news.NewClient("bad", news.WithBaseURL(srv.URL))
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), news.EndpointCrypto, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "API key invalid")
}

func TestFetchPages_FollowsCursor(t *testing.T) {
	pages := map[string]news.Response{
		"":   {Status: "success", Results: []news.Article{{Link: "a"}, {Link: "b"}}, NextPage: "p2"},
		"p2": {Status: "success", Results: []news.Article{{Link: "c"}}, NextPage: "p3"},
		"p3": {Status: "success", Results: []news.Article{{Link: "d"}}},
	}
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		mu.Lock()
		seen = append(seen, page)
		mu.Unlock()
		json.NewEncoder(w).Encode(pages[page])
	}))
	defer srv.Close()

	c, err := news.NewClient("k", news.WithBaseURL(srv.URL))
	require.NoError(t, err)

	all, err := c.FetchPages(context.Background(), news.EndpointNews, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	mu.Lock()
	assert.Equal(t, []string{"", "p2", "p3"}, seen)
	seen = nil
	mu.Unlock()
	limited, err := c.FetchPages(context.Background(), news.EndpointNews, nil, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
	mu.Lock()
	assert.Equal(t, []string{"", "p2"}, seen)
	mu.Unlock()
}
