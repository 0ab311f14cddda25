package validate

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"immoportal/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9 ().-]{6,20}$`)

	// strict strips every tag; listing and profile text is plain text.
	strict = bluemonday.StrictPolicy()
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return strings.ToLower(s), reEmail.MatchString(s)
}

// MaxQuery is the longest accepted search query, in runes.
const MaxQuery = 80

// Q validates a free-text search query. Any printable text is fine since it
// is only matched by substring; control characters, invalid UTF-8 and
// over-long queries are rejected.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !utf8.ValidString(s) || utf8.RuneCountInString(s) > MaxQuery {
		return "", false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	return s, true
}

// ID validates a simple resource identifier (listing/profile ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = Clean(s)
	if s == "" || utf8.RuneCountInString(s) > 60 {
		return "", false
	}
	return s, true
}

// Phone is optional: an empty value is valid.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, rePhone.MatchString(s)
}

// Password enforces length and character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

func Role(s string) (domain.Role, bool) {
	s = strings.TrimSpace(s)
	return domain.Role(s), domain.ValidRole(s)
}

func PropertyType(s string) (domain.PropertyType, bool) {
	s = strings.TrimSpace(s)
	return domain.PropertyType(s), domain.ValidPropertyType(s)
}

func PropertyStatus(s string) (domain.PropertyStatus, bool) {
	s = strings.TrimSpace(s)
	return domain.PropertyStatus(s), domain.ValidPropertyStatus(s)
}

func Region(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, domain.ValidRegion(s)
}

// Price parses a strictly positive amount. Spaces used as thousands
// separators are accepted.
func Price(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), " ", ""), 64)
	if err != nil || f <= 0 || f > 1e13 {
		return 0, false
	}
	return f, true
}

// PriceBound parses an optional filter bound; empty means unset (0).
func PriceBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, " ", ""), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// Surface is optional; empty or zero means unknown.
func Surface(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1e7 {
		return nil, false
	}
	if f == 0 {
		return nil, true
	}
	return &f, true
}

// Count parses a room count; empty means 0.
func Count(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 50 {
		return 0, false
	}
	return n, true
}

// Text cleans s and requires 1..max runes.
func Text(s string, max int) (string, bool) {
	s = Clean(s)
	if s == "" || utf8.RuneCountInString(s) > max {
		return "", false
	}
	return s, true
}

// Clean strips markup and surrounding whitespace from user-entered text.
// The result is plain text; templates escape it on output.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Images splits a newline or comma separated list of image references and
// keeps http(s) URLs and site-relative paths.
func Images(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == ',' || r == '\r' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if strings.HasPrefix(f, "https://") || strings.HasPrefix(f, "http://") || strings.HasPrefix(f, "/") {
			out = append(out, f)
		}
	}
	return out
}
