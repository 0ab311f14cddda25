package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Immo News</title>
  <link>https://news.example.com</link>
  <item>
    <title>Rents rise in &lt;b&gt;Dakar&lt;/b&gt;</title>
    <link>https://news.example.com/rents</link>
    <guid>rents-2024</guid>
    <category>Market</category>
    <description>&lt;p&gt;Rents rose 8% over the year.&lt;/p&gt;</description>
    <pubDate>Mon, 04 Mar 2024 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title></title>
    <link>https://news.example.com/untitled</link>
  </item>
  <item>
    <title>New bridge in Ziguinchor</title>
    <link>https://news.example.com/bridge</link>
  </item>
</channel>
</rss>`

func TestParseFeed(t *testing.T) {
	items, err := ParseFeed(rssSample)
	require.NoError(t, err)
	require.Len(t, items, 2)

	a := items[0]
	assert.Equal(t, "Rents rise in Dakar", a.Title)
	assert.Equal(t, "Rents rose 8% over the year.", a.Excerpt)
	assert.Equal(t, "Market", a.Category)
	assert.Equal(t, "https://news.example.com/rents", a.Link)
	assert.Equal(t, 2024, a.Date.Year())
	assert.NotEmpty(t, a.ID)

	// ids are stable across parses
	again, err := ParseFeed(rssSample)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestParseFeed_Invalid(t *testing.T) {
	_, err := ParseFeed("this is not a feed")
	assert.Error(t, err)
}

func TestBuiltinList(t *testing.T) {
	s := New("", time.Minute)
	ctx := context.Background()

	all := s.List(ctx, "")
	assert.Len(t, all, 7)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Date.After(all[i-1].Date), "articles must be newest first")
	}

	market := s.List(ctx, "market")
	require.Len(t, market, 1)
	assert.Equal(t, "market-growth-2024", market[0].ID)

	assert.Empty(t, s.List(ctx, "Sports"))
	assert.Equal(t, []string{"Market", "Regulation", "Investment", "Innovation", "Analysis", "Sustainability", "Financing"}, s.Categories(ctx))

	a, ok := s.Get(ctx, "saly-destination")
	require.True(t, ok)
	assert.Equal(t, "Investment", a.Category)
	_, ok = s.Get(ctx, "missing")
	assert.False(t, ok)

	rel := s.Related(ctx, a, 2)
	require.Len(t, rel, 2)
	for _, r := range rel {
		assert.NotEqual(t, a.ID, r.ID)
	}
}

func TestList_CallerCannotMutate(t *testing.T) {
	s := New("", time.Minute)
	list := s.List(context.Background(), "")
	list[0].Title = "changed"
	assert.NotEqual(t, "changed", s.List(context.Background(), "")[0].Title)
}

func TestFeedFailureFallsBack(t *testing.T) {
	// loopback targets are refused by the SSRF-safe client
	s := New("http://127.0.0.1/feed.xml", time.Minute)
	all := s.List(context.Background(), "")
	assert.Len(t, all, len(builtin))

	s = New("ftp://news.example.com/feed", time.Minute)
	assert.Len(t, s.List(context.Background(), ""), len(builtin))
}

func TestFeedCache(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New("https://news.example.com/feed.xml", time.Hour)
	s.now = func() time.Time { return now }
	s.cached = []Article{{ID: "cached", Title: "From cache"}}
	s.fetchedAt = now.Add(-time.Minute)

	got := s.List(context.Background(), "")
	require.Len(t, got, 1)
	assert.Equal(t, "cached", got[0].ID)
}

func TestFeedFailureNotRetriedWithinTTL(t *testing.T) {
	var hits atomic.Int32
	fail := atomic.Bool{}
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(rssSample))
	}))
	defer srv.Close()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(srv.URL, time.Hour)
	s.client = srv.Client()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.Len(t, s.List(ctx, ""), len(builtin))
		s.Categories(ctx)
	}
	assert.Equal(t, int32(1), hits.Load(), "one fetch per TTL window")

	// the feed recovers; the next window fetches again
	fail.Store(false)
	now = now.Add(time.Hour)
	got := s.List(ctx, "")
	require.Len(t, got, 2)
	assert.Equal(t, "Rents rise in Dakar", got[0].Title)
	assert.Equal(t, int32(2), hits.Load())

	// a later failure keeps serving the last good items without refetching
	fail.Store(true)
	now = now.Add(2 * time.Hour)
	assert.Len(t, s.List(ctx, ""), 2)
	assert.Len(t, s.List(ctx, ""), 2)
	assert.Equal(t, int32(3), hits.Load())
}
