package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"immoportal/internal/config"
	"immoportal/internal/repos"
)

// Seeded passwords are stored as bcrypt hashes, never plaintext.
func TestPasswordsSeededAreHashed(t *testing.T) {
	a := newTestApp(t)
	var hashes []string
	if err := a.db.Select(&hashes, `SELECT password_hash FROM profiles`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no profiles seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, repos.DemoPassword) {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte(repos.DemoPassword)); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestSignInSuccessFailAndThrottle(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.LoginRateLimit = 2 })

	// bad password -> 401
	resp := a.post("/auth/signin", "", url.Values{"email": {"awa@immoportal.test"}, "password": {"wrongpass!"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "Invalid email or password") {
		t.Fatal("expected generic credentials message")
	}

	// good password -> redirect to the dashboard with a session cookie
	resp = a.post("/auth/signin", "", url.Values{"email": {"AWA@immoportal.test"}, "password": {repos.DemoPassword}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", resp.StatusCode)
	}
	if location(resp) != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", location(resp))
	}
	if extractCookie(resp, "session") == "" {
		t.Fatal("session cookie missing")
	}

	// throttle after 2 attempts
	resp = a.post("/auth/signin", "", url.Values{"email": {"awa@immoportal.test"}, "password": {"wrongpass!"}})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	a := newTestApp(t)
	resp := a.post("/auth/signin", "", url.Values{"email": {"nobody@immoportal.test"}, "password": {repos.DemoPassword}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "Invalid email or password") {
		t.Fatal("expected generic credentials message")
	}
}

func TestSignUpCreatesClient(t *testing.T) {
	a := newTestApp(t)
	form := url.Values{
		"full_name":        {"Ndeye Diop"},
		"email":            {"ndeye@example.com"},
		"phone":            {"+221 77 123 45 67"},
		"role":             {"client"},
		"password":         {"N3w!passw0rd"},
		"confirm_password": {"N3w!passw0rd"},
		"terms":            {"on"},
	}
	resp := a.post("/auth/signup", "", form)
	if resp.StatusCode != http.StatusFound || location(resp) != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d %q", resp.StatusCode, location(resp))
	}
	sess := extractCookie(resp, "session")
	if sess == "" {
		t.Fatal("new account is not signed in")
	}

	var role string
	if err := a.db.Get(&role, `SELECT role FROM profiles WHERE email = 'ndeye@example.com'`); err != nil {
		t.Fatalf("profile not stored: %v", err)
	}
	if role != "client" {
		t.Fatalf("expected client role, got %s", role)
	}

	// same email again is rejected
	resp = a.post("/auth/signup", "", form)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate email expected 400, got %d", resp.StatusCode)
	}
}

func TestSignUpRejections(t *testing.T) {
	a := newTestApp(t)
	base := func() url.Values {
		return url.Values{
			"full_name":        {"Ndeye Diop"},
			"email":            {"ndeye@example.com"},
			"role":             {"client"},
			"password":         {"N3w!passw0rd"},
			"confirm_password": {"N3w!passw0rd"},
			"terms":            {"on"},
		}
	}
	tests := []struct {
		name  string
		tweak func(url.Values)
	}{
		{"admin role", func(v url.Values) { v.Set("role", "admin") }},
		{"password mismatch", func(v url.Values) { v.Set("confirm_password", "Other!passw0rd") }},
		{"terms not accepted", func(v url.Values) { v.Del("terms") }},
		{"weak password", func(v url.Values) { v.Set("password", "short"); v.Set("confirm_password", "short") }},
		{"bad email", func(v url.Values) { v.Set("email", "not-an-email") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := base()
			tt.tweak(form)
			resp := a.post("/auth/signup", "", form)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}

	var n int
	if err := a.db.Get(&n, `SELECT COUNT(*) FROM profiles WHERE email = 'ndeye@example.com'`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("rejected sign-ups must not create a profile, found %d", n)
	}
}

func TestSignOutRevokesSession(t *testing.T) {
	a := newTestApp(t)
	sess := a.signIn("fatou@immoportal.test")

	if resp := a.get("/dashboard", sess); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard 200, got %d", resp.StatusCode)
	}

	resp := a.post("/auth/signout", sess, nil)
	if resp.StatusCode != http.StatusFound || location(resp) != "/" {
		t.Fatalf("expected redirect home, got %d %q", resp.StatusCode, location(resp))
	}

	// the old token no longer opens the dashboard
	resp = a.get("/dashboard", sess)
	if resp.StatusCode != http.StatusFound || location(resp) != "/auth/signin" {
		t.Fatalf("revoked session should redirect to sign-in, got %d %q", resp.StatusCode, location(resp))
	}
}

func TestSessionAPIAcceptsBearer(t *testing.T) {
	a := newTestApp(t)

	resp := a.get("/api/v1/session", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous session expected 401, got %d", resp.StatusCode)
	}

	sess := a.signIn("moussa@immoportal.test")
	req, _ := http.NewRequest("GET", "/api/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+sess)
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Authenticated bool `json:"authenticated"`
		Profile       struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"profile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Authenticated || out.Profile.ID != repos.DemoAgent2ID || out.Profile.Role != "agent" {
		t.Fatalf("unexpected session payload: %+v", out)
	}
}
