package repos

import (
	"time"

	"immoportal/internal/domain"
)

// Fixed ids so demo data can be linked to from docs and tests.
const (
	DemoAdminID  = "u-admin"
	DemoAgentID  = "u-awa"
	DemoAgent2ID = "u-moussa"
	DemoClientID = "u-fatou"
)

func demoProfiles(hash string) []domain.Profile {
	ts := now()
	mk := func(id, name, email, phone string, role domain.Role) domain.Profile {
		return domain.Profile{ID: id, FullName: name, Email: email, Phone: phone,
			Role: role, Hash: hash, CreatedAt: ts, UpdatedAt: ts}
	}
	return []domain.Profile{
		mk(DemoAdminID, "Admin Immo", "admin@immoportal.test", "", domain.RoleAdmin),
		mk(DemoAgentID, "Awa Diop", "awa@immoportal.test", "+221 77 123 45 67", domain.RoleAgent),
		mk(DemoAgent2ID, "Moussa Fall", "moussa@immoportal.test", "+221 76 234 56 78", domain.RoleAgent),
		mk(DemoClientID, "Fatou Sarr", "fatou@immoportal.test", "", domain.RoleClient),
	}
}

func demoProperties() []domain.Property {
	// staggered creation times keep "latest first" ordering stable
	base := time.Now().UTC().Add(-time.Hour)
	at := func(i int) string { return base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339) }
	f := func(v float64) *float64 { return &v }

	return []domain.Property{
		{ID: "p-almadies-villa", Title: "Villa with pool in Les Almadies", Type: domain.TypeHouse,
			Description: "Five-bedroom villa a short walk from the ocean, with garden, pool and staff quarters.",
			Price: 450000000, Surface: f(520), Bedrooms: 5, Bathrooms: 4,
			Location: "Route des Almadies", District: "Les Almadies", Region: "Dakar",
			Status: domain.StatusAvailable, ImagesJSON: "[]", AgentID: DemoAgentID, CreatedAt: at(0), UpdatedAt: at(0)},
		{ID: "p-plateau-office", Title: "Office floor in the Plateau", Type: domain.TypeOffice,
			Description: "Open-plan office floor with meeting rooms and parking in the business district.",
			Price: 2500000, Surface: f(300), Bedrooms: 0, Bathrooms: 2,
			Location: "Avenue Léopold Sédar Senghor", District: "Plateau", Region: "Dakar",
			Status: domain.StatusRented, ImagesJSON: "[]", AgentID: DemoAgentID, CreatedAt: at(1), UpdatedAt: at(1)},
		{ID: "p-saly-apartment", Title: "Sea-view apartment in Saly", Type: domain.TypeApartment,
			Description: "Furnished two-bedroom apartment in a gated residence with beach access.",
			Price: 65000000, Surface: f(95), Bedrooms: 2, Bathrooms: 1,
			Location: "Saly Portudal", District: "Saly", Region: "Thiès",
			Status: domain.StatusNegotiating, ImagesJSON: "[]", AgentID: DemoAgent2ID, CreatedAt: at(2), UpdatedAt: at(2)},
		{ID: "p-stlouis-house", Title: "Colonial house on Saint-Louis island", Type: domain.TypeHouse,
			Description: "Restored colonial house with balconies over the river.",
			Price: 120000000, Surface: f(240), Bedrooms: 4, Bathrooms: 2,
			Location: "Rue Blaise Diagne", District: "Île de Saint-Louis", Region: "Saint-Louis",
			Status: domain.StatusSold, ImagesJSON: "[]", AgentID: DemoAgent2ID, CreatedAt: at(3), UpdatedAt: at(3)},
		{ID: "p-kaolack-land", Title: "Building plot near Kaolack market", Type: domain.TypeLand,
			Description: "Serviced plot with title deed, ready to build.",
			Price: 15000000, Surface: f(400),
			Location: "Quartier Médina Baye", District: "Médina Baye", Region: "Kaolack",
			Status: domain.StatusAvailable, ImagesJSON: "[]", AgentID: DemoAgentID, CreatedAt: at(4), UpdatedAt: at(4)},
		{ID: "p-ziguinchor-shop", Title: "Shop on the main street of Ziguinchor", Type: domain.TypeCommercial,
			Description: "Ground-floor retail space with storage room.",
			Price: 350000, Surface: f(60), Bathrooms: 1,
			Location: "Rue du Commerce", District: "Escale", Region: "Ziguinchor",
			Status: domain.StatusAvailable, ImagesJSON: "[]", AgentID: DemoAgent2ID, CreatedAt: at(5), UpdatedAt: at(5)},
	}
}
