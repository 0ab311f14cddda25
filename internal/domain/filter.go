package domain

import "strings"

// PropertyFilter scopes the visible subset of listings. Empty strings and
// zero prices mean "not set"; every set criterion must hold.
type PropertyFilter struct {
	Type     string
	Region   string
	Status   string
	MinPrice float64
	MaxPrice float64
	Search   string
	AgentID  string
}

func (f PropertyFilter) IsZero() bool {
	return f == PropertyFilter{}
}

func (f PropertyFilter) Match(p Property) bool {
	if f.Type != "" && string(p.Type) != f.Type {
		return false
	}
	if f.Region != "" && p.Region != f.Region {
		return false
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.AgentID != "" && p.AgentID != f.AgentID {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return containsFold(q, p.Title, p.Location, p.Description)
	}
	return true
}

// FilterProperties keeps the listings matching f in their original order.
// The input slice is never modified.
func FilterProperties(list []Property, f PropertyFilter) []Property {
	out := make([]Property, 0, len(list))
	for _, p := range list {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// SearchAvailable is the client dashboard search: available listings whose
// title, location or region contains q.
func SearchAvailable(list []Property, q string) []Property {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Property, 0, len(list))
	for _, p := range list {
		if p.Status != StatusAvailable {
			continue
		}
		if q == "" || containsFold(q, p.Title, p.Location, p.Region) {
			out = append(out, p)
		}
	}
	return out
}

// q must already be lower-cased.
func containsFold(q string, fields ...string) bool {
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
