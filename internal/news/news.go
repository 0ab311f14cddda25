// Package news serves the articles shown on the news pages, either from the
// built-in list or from an RSS/Atom feed.
package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"immoportal/internal/log"
	"immoportal/internal/validate"

	"github.com/doyensec/safeurl"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

const (
	maxFeedBytes = 2 << 20
	maxItems     = 30
	fetchTimeout = 10 * time.Second
)

type Article struct {
	ID       string
	Title    string
	Excerpt  string
	Body     string
	Category string
	Author   string
	ReadTime string
	Image    string
	Link     string // set for feed items
	Date     time.Time
}

// Service returns articles. With a feed URL it refreshes from the feed at
// most once per TTL and falls back to the built-in list on any failure.
type Service struct {
	feedURL string
	ttl     time.Duration
	client  *http.Client
	now     func() time.Time

	mu        sync.Mutex
	cached    []Article
	fetchedAt time.Time
	failedAt  time.Time
}

func New(feedURL string, ttl time.Duration) *Service {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(fetchTimeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return &Service{
		feedURL: strings.TrimSpace(feedURL),
		ttl:     ttl,
		client:  safeurl.Client(cfg).Client,
		now:     time.Now,
	}
}

// List returns articles newest first, optionally limited to one category.
func (s *Service) List(ctx context.Context, category string) []Article {
	all := s.articles(ctx)
	if category == "" {
		return all
	}
	out := []Article{}
	for _, a := range all {
		if strings.EqualFold(a.Category, category) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Service) Get(ctx context.Context, id string) (Article, bool) {
	for _, a := range s.articles(ctx) {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}

// Categories lists the distinct categories in first-seen order.
func (s *Service) Categories(ctx context.Context) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, a := range s.articles(ctx) {
		if a.Category != "" && !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	return out
}

// Related returns up to n other articles, same category first.
func (s *Service) Related(ctx context.Context, a Article, n int) []Article {
	var same, other []Article
	for _, x := range s.articles(ctx) {
		switch {
		case x.ID == a.ID:
		case x.Category == a.Category:
			same = append(same, x)
		default:
			other = append(other, x)
		}
	}
	out := append(same, other...)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *Service) articles(ctx context.Context) []Article {
	if s.feedURL == "" {
		return builtinCopy()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.cached != nil && now.Sub(s.fetchedAt) < s.ttl {
		return append([]Article(nil), s.cached...)
	}
	// a failed refresh is not retried until the TTL has passed
	if !s.failedAt.IsZero() && now.Sub(s.failedAt) < s.ttl {
		return s.fallback()
	}

	items, err := s.fetch(ctx)
	if err != nil || len(items) == 0 {
		log.Background("error", "news_feed_fetch", err, map[string]any{"url": s.feedURL, "items": len(items)})
		s.failedAt = now
		return s.fallback()
	}
	s.cached = items
	s.fetchedAt = now
	s.failedAt = time.Time{}
	return append([]Article(nil), items...)
}

// fallback is the last good feed content, or the built-in list. Callers hold s.mu.
func (s *Service) fallback() []Article {
	if s.cached != nil {
		return append([]Article(nil), s.cached...)
	}
	return builtinCopy()
}

func builtinCopy() []Article { return append([]Article(nil), builtin...) }

func (s *Service) fetch(ctx context.Context) ([]Article, error) {
	u, err := url.Parse(s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("disallowed feed scheme: %s", u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "immoportal/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return ParseFeed(string(body))
}

// ParseFeed converts an RSS or Atom document into articles.
func ParseFeed(body string) ([]Article, error) {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	out := make([]Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		if len(out) == maxItems {
			break
		}
		if it == nil || strings.TrimSpace(it.Title) == "" {
			continue
		}
		key := it.GUID
		if key == "" {
			key = it.Link + "|" + it.Title
		}
		a := Article{
			ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String(),
			Title:   validate.Clean(it.Title),
			Excerpt: excerpt(validate.Clean(it.Description), 240),
			Body:    validate.Clean(firstNonEmpty(it.Content, it.Description)),
			Link:    it.Link,
		}
		if len(it.Categories) > 0 {
			a.Category = validate.Clean(it.Categories[0])
		}
		if it.Author != nil {
			a.Author = it.Author.Name
		} else if len(it.Authors) > 0 && it.Authors[0] != nil {
			a.Author = it.Authors[0].Name
		}
		if it.Image != nil {
			a.Image = it.Image.URL
		}
		switch {
		case it.PublishedParsed != nil:
			a.Date = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			a.Date = *it.UpdatedParsed
		}
		out = append(out, a)
	}
	return out, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func excerpt(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
