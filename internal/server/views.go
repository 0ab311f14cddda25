package server

import (
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	html "github.com/gofiber/template/html/v2"
)

// NewEngine loads the HTML templates under dir with the view helpers.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFuncMap(viewFuncs())
	return engine
}

// viewFuncs are the helpers available to every template.
func viewFuncs() template.FuncMap {
	return template.FuncMap{
		"cfa":     FormatCFA,
		"num":     groupThousands,
		"deref":   deref,
		"date":    func(t time.Time) string { return t.Format("2 January 2006") },
		"isoDate": isoDate,
		"first":   truncate,
	}
}

// FormatCFA renders an amount in CFA francs with space-grouped thousands,
// e.g. 450000000 -> "450 000 000 FCFA".
func FormatCFA(v float64) string {
	return groupThousands(v) + " FCFA"
}

func groupThousands(v float64) string {
	neg := v < 0
	s := strconv.FormatInt(int64(math.Round(math.Abs(v))), 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// isoDate shortens a stored RFC3339 timestamp to its date part.
func isoDate(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01-02")
	}
	return ts
}
