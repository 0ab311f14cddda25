package handlers

import (
	"fmt"
	"strings"

	"immoportal/internal/domain"
	"immoportal/internal/log"
	"immoportal/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// parseFilter reads the listing filter from the query string. A non-empty
// message means one of the criteria was rejected.
func parseFilter(c *fiber.Ctx) (domain.PropertyFilter, string) {
	var f domain.PropertyFilter
	reject := func(field, msg string) (domain.PropertyFilter, string) {
		log.Security(c, "validation.fail", map[string]any{"field": field})
		return domain.PropertyFilter{}, msg
	}

	if v := strings.TrimSpace(c.Query("type")); v != "" {
		t, ok := validate.PropertyType(v)
		if !ok {
			return reject("type", "Unknown property type")
		}
		f.Type = string(t)
	}
	if v := strings.TrimSpace(c.Query("region")); v != "" {
		r, ok := validate.Region(v)
		if !ok {
			return reject("region", "Unknown region")
		}
		f.Region = r
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		s, ok := validate.PropertyStatus(v)
		if !ok {
			return reject("status", "Unknown status")
		}
		f.Status = string(s)
	}
	min, ok := validate.PriceBound(c.Query("min_price"))
	if !ok {
		return reject("min_price", "Minimum price must be a number")
	}
	max, ok := validate.PriceBound(c.Query("max_price"))
	if !ok {
		return reject("max_price", "Maximum price must be a number")
	}
	f.MinPrice, f.MaxPrice = min, max
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return reject("q", badQueryMsg)
		}
		f.Search = q
	}
	return f, ""
}

var badQueryMsg = fmt.Sprintf("Search text must be at most %d characters, without control characters", validate.MaxQuery)

// filterOptions is the select-box data shared by the listing pages.
func filterOptions(f domain.PropertyFilter) fiber.Map {
	return fiber.Map{
		"Filter":   f,
		"Types":    domain.PropertyTypes,
		"Statuses": domain.PropertyStatuses,
		"Regions":  domain.Regions,
	}
}

func merge(dst fiber.Map, srcs ...fiber.Map) fiber.Map {
	for _, src := range srcs {
		for k, v := range src {
			dst[k] = v
		}
	}
	return dst
}
