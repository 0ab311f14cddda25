package handlers

import (
	"errors"
	"strings"
	"unicode/utf8"

	"immoportal/internal/domain"
	"immoportal/internal/log"
	"immoportal/internal/metrics"
	"immoportal/internal/repos"
	"immoportal/internal/services"
	"immoportal/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type PropertyHandler struct {
	Properties *services.PropertyStore
	Users      *services.UserStore
	Favorites  *services.FavoriteService
	Metrics    *metrics.Collector
}

const goneMsg = "This listing is no longer available"

// GET /properties
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	f, errMsg := parseFilter(c)
	if errMsg != "" {
		c.Status(fiber.StatusBadRequest)
		return render(c, "properties", merge(fiber.Map{"Properties": []domain.Property{}, "Count": 0, "Err": errMsg}, filterOptions(f)))
	}
	list, err := h.Properties.Filtered(c.UserContext(), f)
	if err != nil {
		log.Error(c, "properties.list.fail", err, nil)
		return err
	}
	return render(c, "properties", merge(fiber.Map{
		"Properties": list, "Count": len(list), "Favorites": h.favoriteIDs(c),
	}, filterOptions(f)))
}

// GET /properties/:id and GET /dashboard/properties/:id
func (h *PropertyHandler) Detail(c *fiber.Ctx) error {
	p, err := h.load(c)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound(c, goneMsg)
	}
	data := fiber.Map{
		"P":         p,
		"CanEdit":   services.CanEdit(currentUser(c), *p),
		"Dashboard": strings.HasPrefix(c.Path(), "/dashboard"),
		"Favorite":  h.favoriteIDs(c)[p.ID],
	}
	if p.AgentID != "" {
		if agent, err := h.Users.Get(c.UserContext(), p.AgentID); err == nil {
			data["Agent"] = agent
		}
	}
	return render(c, "property", data)
}

// load resolves :id to a listing. A nil listing with nil error means not found.
func (h *PropertyHandler) load(c *fiber.Ctx) (*domain.Property, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "property"})
		return nil, nil
	}
	p, err := h.Properties.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Error(c, "properties.get.fail", err, map[string]any{"property_id": id})
		return nil, err
	}
	return p, nil
}

func (h *PropertyHandler) favoriteIDs(c *fiber.Ctx) map[string]bool {
	u := currentUser(c)
	if u == nil || u.Role != domain.RoleClient || h.Favorites == nil {
		return nil
	}
	ids, err := h.Favorites.IDs(c.UserContext(), u.ID)
	if err != nil {
		log.Error(c, "favorites.ids.fail", err, nil)
		return nil
	}
	return ids
}

// GET /dashboard/properties
// Admins see every listing, agents their own, clients what is available.
func (h *PropertyHandler) DashboardList(c *fiber.Ctx) error {
	u := currentUser(c)
	f, errMsg := parseFilter(c)
	if errMsg != "" {
		c.Status(fiber.StatusBadRequest)
		return render(c, "dashboard_properties", merge(fiber.Map{"Properties": []domain.Property{}, "Err": errMsg}, filterOptions(f)))
	}
	switch u.Role {
	case domain.RoleAgent:
		f.AgentID = u.ID
	case domain.RoleClient:
		f.Status = string(domain.StatusAvailable)
	}
	if _, err := h.Properties.Fetch(c.UserContext()); err != nil {
		log.Error(c, "properties.fetch.fail", err, nil)
		return err
	}
	list, err := h.Properties.Filtered(c.UserContext(), f)
	if err != nil {
		return err
	}
	return render(c, "dashboard_properties", merge(fiber.Map{
		"Properties": list, "Count": len(list), "Favorites": h.favoriteIDs(c),
	}, filterOptions(f)))
}

// GET /dashboard/properties/new
func (h *PropertyHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "property_form", formData(fiber.Map{
		"Title": "New listing", "Action": "/dashboard/properties",
		"Form": services.PropertyInput{Type: domain.TypeApartment, Status: domain.StatusAvailable, Region: domain.Regions[0]},
	}))
}

// POST /dashboard/properties
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	in, field, msg := parsePropertyForm(c)
	if msg != "" {
		log.Security(c, "validation.fail", map[string]any{"form": "property", "field": field})
		c.Status(fiber.StatusBadRequest)
		return render(c, "property_form", formData(fiber.Map{
			"Title": "New listing", "Action": "/dashboard/properties", "Form": in, "Err": msg, "ImagesText": c.FormValue("images"),
		}))
	}
	p, err := h.Properties.Add(c.UserContext(), currentUser(c), in)
	if err != nil {
		return h.writeFailed(c, "properties.create", err, "/dashboard/properties/new")
	}
	h.Metrics.RecordListingChange("create")
	log.Audit(c, "properties.create", map[string]any{"property_id": p.ID, "title": p.Title})
	return redirectWith(c, "/dashboard/properties", "success", "Listing created.")
}

// GET /dashboard/properties/:id/edit
func (h *PropertyHandler) EditForm(c *fiber.Ctx) error {
	p, err := h.load(c)
	if err != nil {
		return err
	}
	if p == nil {
		return notFound(c, goneMsg)
	}
	if !services.CanEdit(currentUser(c), *p) {
		log.Security(c, "access.denied.property", map[string]any{"property_id": p.ID})
		return redirectWith(c, "/dashboard/properties", "error", "You can only edit your own listings.")
	}
	in := services.InputFrom(*p)
	return render(c, "property_form", formData(fiber.Map{
		"Title": "Edit listing", "Action": "/dashboard/properties/" + p.ID, "Form": in,
		"ImagesText": strings.Join(in.Images, "\n"), "Editing": true,
	}))
}

// POST /dashboard/properties/:id
func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, goneMsg)
	}
	in, field, msg := parsePropertyForm(c)
	if msg != "" {
		log.Security(c, "validation.fail", map[string]any{"form": "property", "field": field})
		c.Status(fiber.StatusBadRequest)
		return render(c, "property_form", formData(fiber.Map{
			"Title": "Edit listing", "Action": "/dashboard/properties/" + id, "Form": in, "Err": msg,
			"ImagesText": c.FormValue("images"), "Editing": true,
		}))
	}
	p, err := h.Properties.Update(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		return h.writeFailed(c, "properties.update", err, "/dashboard/properties/"+id+"/edit")
	}
	h.Metrics.RecordListingChange("update")
	log.Audit(c, "properties.update", map[string]any{"property_id": p.ID, "status": p.Status})
	return redirectWith(c, "/dashboard/properties", "success", "Listing updated.")
}

// POST /dashboard/properties/:id/delete
func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, goneMsg)
	}
	if err := h.Properties.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return h.writeFailed(c, "properties.delete", err, "/dashboard/properties")
	}
	h.Metrics.RecordListingChange("delete")
	log.Audit(c, "properties.delete", map[string]any{"property_id": id})
	return redirectWith(c, "/dashboard/properties", "success", "Listing deleted.")
}

// writeFailed maps a store error to a flash message on the previous page.
func (h *PropertyHandler) writeFailed(c *fiber.Ctx, action string, err error, back string) error {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrForbidden):
		log.Security(c, "access.denied.property", map[string]any{"action": action, "property_id": c.Params("id")})
		return redirectWith(c, "/dashboard/properties", "error", "You can only change your own listings.")
	case errors.Is(err, repos.ErrNotFound):
		return redirectWith(c, "/dashboard/properties", "error", goneMsg+".")
	case errors.As(err, &ve):
		return redirectWith(c, back, "error", ve.Msg)
	}
	log.Error(c, action+".fail", err, map[string]any{"property_id": c.Params("id")})
	return redirectWith(c, back, "error", "Could not save the listing. Please try again.")
}

func formData(m fiber.Map) fiber.Map {
	return merge(m, fiber.Map{
		"Types":    domain.PropertyTypes,
		"Statuses": domain.PropertyStatuses,
		"Regions":  domain.Regions,
	})
}

// parsePropertyForm returns the parsed input and, on failure, the first
// offending field with a message for the user.
func parsePropertyForm(c *fiber.Ctx) (services.PropertyInput, string, string) {
	var in services.PropertyInput
	var ok bool

	in.Title, ok = validate.Text(c.FormValue("title"), 120)
	if !ok {
		return in, "title", "Title is required (max 120 characters)."
	}
	in.Description = validate.Clean(c.FormValue("description"))
	if utf8.RuneCountInString(in.Description) > 4000 {
		return in, "description", "Description is too long."
	}
	if in.Type, ok = validate.PropertyType(c.FormValue("type")); !ok {
		return in, "type", "Please choose a property type."
	}
	if in.Price, ok = validate.Price(c.FormValue("price")); !ok {
		return in, "price", "Price must be a positive number."
	}
	if in.Surface, ok = validate.Surface(c.FormValue("surface")); !ok {
		return in, "surface", "Surface must be a number of square metres."
	}
	if in.Bedrooms, ok = validate.Count(c.FormValue("bedrooms")); !ok {
		return in, "bedrooms", "Bedrooms must be between 0 and 50."
	}
	if in.Bathrooms, ok = validate.Count(c.FormValue("bathrooms")); !ok {
		return in, "bathrooms", "Bathrooms must be between 0 and 50."
	}
	in.Location, ok = validate.Text(c.FormValue("location"), 120)
	if !ok {
		return in, "location", "Location is required."
	}
	in.District = validate.Clean(c.FormValue("district"))
	if utf8.RuneCountInString(in.District) > 120 {
		return in, "district", "District is too long."
	}
	if in.Region, ok = validate.Region(c.FormValue("region")); !ok {
		return in, "region", "Please choose a region."
	}
	if in.Status, ok = validate.PropertyStatus(c.FormValue("status")); !ok {
		return in, "status", "Please choose a status."
	}
	in.Images = validate.Images(c.FormValue("images"))
	return in, "", ""
}
