package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"immoportal/internal/config"
	"immoportal/internal/repos"
	"immoportal/internal/server"
	"immoportal/internal/services"
)

// testApp wraps a fully wired server on a seeded in-memory database.
type testApp struct {
	t    *testing.T
	app  *fiber.App
	srv  *server.Server
	db   *sqlx.DB
	csrf string
}

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.TemplatesDir = "../../web/templates"
	cfg.StaticDir = "../../web/static"
	return cfg
}

func newTestApp(t *testing.T, tweak ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := testConfig()
	for _, fn := range tweak {
		fn(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.Seed(context.Background(), db, services.HashPassword); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := server.New(cfg, db)
	return &testApp{t: t, app: srv.App, srv: srv, db: db}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// token fetches (once) a CSRF token from the sign-in page.
func (a *testApp) token() string {
	a.t.Helper()
	if a.csrf != "" {
		return a.csrf
	}
	resp, err := a.app.Test(httptest.NewRequest("GET", "/auth/signin", nil))
	if err != nil {
		a.t.Fatal(err)
	}
	a.csrf = extractCookie(resp, "csrf_")
	if a.csrf == "" {
		a.t.Fatal("csrf token missing")
	}
	return a.csrf
}

// get issues a GET, optionally as the holder of a session cookie.
func (a *testApp) get(path, session string) *http.Response {
	a.t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: session})
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		a.t.Fatal(err)
	}
	return resp
}

// post submits a form with a valid CSRF token.
func (a *testApp) post(path, session string, form url.Values) *http.Response {
	a.t.Helper()
	return a.postWithHeaders(path, session, form, nil)
}

// postWithHeaders is post with extra request headers.
func (a *testApp) postWithHeaders(path, session string, form url.Values, headers map[string]string) *http.Response {
	a.t.Helper()
	tok := a.token()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", tok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: session})
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		a.t.Fatal(err)
	}
	return resp
}

// signIn logs in with the demo password and returns the session cookie.
func (a *testApp) signIn(email string) string {
	a.t.Helper()
	resp := a.post("/auth/signin", "", url.Values{"email": {email}, "password": {repos.DemoPassword}})
	if resp.StatusCode != http.StatusFound {
		a.t.Fatalf("sign in %s: expected 302, got %d", email, resp.StatusCode)
	}
	sess := extractCookie(resp, "session")
	if sess == "" {
		a.t.Fatalf("sign in %s: no session cookie", email)
	}
	return sess
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func location(resp *http.Response) string {
	return resp.Header.Get("Location")
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

// captureLogs collects the JSON log lines written while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
