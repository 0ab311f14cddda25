package domain

import (
	"encoding/json"
	"strings"
)

type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeHouse      PropertyType = "house"
	TypeLand       PropertyType = "land"
	TypeOffice     PropertyType = "office"
	TypeCommercial PropertyType = "commercial"
)

var PropertyTypes = []PropertyType{TypeApartment, TypeHouse, TypeLand, TypeOffice, TypeCommercial}

func ValidPropertyType(s string) bool {
	for _, t := range PropertyTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

func (t PropertyType) Label() string {
	switch t {
	case TypeApartment:
		return "Apartment"
	case TypeHouse:
		return "House"
	case TypeLand:
		return "Land"
	case TypeOffice:
		return "Office"
	case TypeCommercial:
		return "Commercial"
	}
	return string(t)
}

type PropertyStatus string

const (
	StatusAvailable   PropertyStatus = "available"
	StatusRented      PropertyStatus = "rented"
	StatusSold        PropertyStatus = "sold"
	StatusNegotiating PropertyStatus = "under_negotiation"
)

var PropertyStatuses = []PropertyStatus{StatusAvailable, StatusRented, StatusSold, StatusNegotiating}

func ValidPropertyStatus(s string) bool {
	for _, st := range PropertyStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

func (s PropertyStatus) Label() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusRented:
		return "Rented"
	case StatusSold:
		return "Sold"
	case StatusNegotiating:
		return "Under negotiation"
	}
	return string(s)
}

// Regions served by the agency.
var Regions = []string{"Dakar", "Thiès", "Saint-Louis", "Kaolack", "Ziguinchor"}

func ValidRegion(s string) bool {
	for _, r := range Regions {
		if r == s {
			return true
		}
	}
	return false
}

type Property struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Type        PropertyType   `db:"type" json:"type"`
	Price       float64        `db:"price" json:"price"`
	Surface     *float64       `db:"surface" json:"surface,omitempty"`
	Bedrooms    int            `db:"bedrooms" json:"bedrooms"`
	Bathrooms   int            `db:"bathrooms" json:"bathrooms"`
	Location    string         `db:"location" json:"location"`
	District    string         `db:"district" json:"district"`
	Region      string         `db:"region" json:"region"`
	Status      PropertyStatus `db:"status" json:"status"`
	ImagesJSON  string         `db:"images_json" json:"-"`
	AgentID     string         `db:"agent_id" json:"agent_id,omitempty"`
	CreatedAt   string         `db:"created_at" json:"created_at"`
	UpdatedAt   string         `db:"updated_at" json:"updated_at"`
}

// Images decodes the stored image list; malformed or empty JSON yields nil.
func (p Property) Images() []string {
	if strings.TrimSpace(p.ImagesJSON) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(p.ImagesJSON), &out); err != nil {
		return nil
	}
	return out
}

// Cover returns the first image reference, if any.
func (p Property) Cover() string {
	if imgs := p.Images(); len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

// EncodeImages is the inverse of Images. Blank entries are dropped.
func EncodeImages(images []string) string {
	clean := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			clean = append(clean, img)
		}
	}
	if len(clean) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(clean)
	return string(b)
}

// MarshalJSON exposes the decoded image list instead of the raw column.
func (p Property) MarshalJSON() ([]byte, error) {
	type alias Property
	return json.Marshal(struct {
		alias
		Images []string `json:"images"`
	}{alias: alias(p), Images: p.Images()})
}
