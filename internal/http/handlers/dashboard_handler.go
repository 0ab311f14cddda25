package handlers

import (
	"errors"
	"net/url"
	"strings"

	"immoportal/internal/domain"
	"immoportal/internal/log"
	"immoportal/internal/repos"
	"immoportal/internal/services"
	"immoportal/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Auth       *services.AuthService
	Properties *services.PropertyStore
	Users      *services.UserStore
	Favorites  *services.FavoriteService
	Inbox      *services.InboxService
}

// GET /dashboard
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	u := currentUser(c)
	ctx := c.UserContext()
	all, err := h.Properties.Fetch(ctx)
	if err != nil {
		log.Error(c, "dashboard.fetch.fail", err, nil)
		return err
	}

	switch u.Role {
	case domain.RoleAdmin:
		users, err := h.Users.Stats(ctx)
		if err != nil {
			return err
		}
		msgs, err := h.Inbox.Recent(ctx, 5)
		if err != nil {
			log.Error(c, "dashboard.inbox.fail", err, nil)
		}
		latest := all
		if len(latest) > 5 {
			latest = latest[:5]
		}
		return render(c, "dashboard_admin", fiber.Map{
			"Stats": domain.ComputeStats(all, 5), "Users": users, "Latest": latest, "Messages": msgs,
		})

	case domain.RoleAgent:
		mine := domain.FilterProperties(all, domain.PropertyFilter{AgentID: u.ID})
		return render(c, "dashboard_agent", fiber.Map{
			"Stats": domain.ComputeStats(mine, 3), "Properties": mine,
		})
	}

	var errMsg string
	q := c.Query("q")
	if strings.TrimSpace(q) != "" {
		if clean, ok := validate.Q(q); ok {
			q = clean
		} else {
			log.Security(c, "validation.fail", map[string]any{"field": "q"})
			c.Status(fiber.StatusBadRequest)
			q, errMsg = "", badQueryMsg
		}
	} else {
		q = ""
	}
	favs, err := h.Favorites.List(ctx, u.ID)
	if err != nil {
		return err
	}
	ids := make(map[string]bool, len(favs))
	for _, p := range favs {
		ids[p.ID] = true
	}
	avail := domain.SearchAvailable(all, q)
	return render(c, "dashboard_client", fiber.Map{
		"Available": avail, "AvailableCount": len(avail), "Q": q,
		"FavoriteList": favs, "Favorites": ids, "Err": errMsg,
	})
}

// POST /dashboard/favorites/:id
func (h *DashboardHandler) ToggleFavorite(c *fiber.Ctx) error {
	back := c.Get(fiber.HeaderReferer)
	if back == "" || !isLocalPath(back, c) {
		back = "/dashboard"
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, goneMsg)
	}
	on, err := h.Favorites.Toggle(c.UserContext(), currentUser(c), id)
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return redirectWith(c, back, "error", goneMsg+".")
	case errors.Is(err, services.ErrForbidden):
		return redirectWith(c, back, "error", "Only clients can save favorites.")
	case err != nil:
		log.Error(c, "favorites.toggle.fail", err, map[string]any{"property_id": id})
		return redirectWith(c, back, "error", "Could not update your favorites.")
	}
	log.Audit(c, "favorites.toggle", map[string]any{"property_id": id, "saved": on})
	if on {
		return redirectWith(c, back, "success", "Added to your favorites.")
	}
	return redirectWith(c, back, "info", "Removed from your favorites.")
}

// GET /dashboard/profile
func (h *DashboardHandler) ProfileForm(c *fiber.Ctx) error {
	return render(c, "profile", fiber.Map{"Form": currentUser(c)})
}

// POST /dashboard/profile
func (h *DashboardHandler) UpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)
	fail := func(field, msg string) error {
		log.Security(c, "validation.fail", map[string]any{"form": "profile", "field": field})
		c.Status(fiber.StatusBadRequest)
		form := *u
		form.FullName = c.FormValue("full_name")
		form.Phone = c.FormValue("phone")
		return render(c, "profile", fiber.Map{"Form": &form, "Err": msg})
	}
	name, ok := validate.Name(c.FormValue("full_name"))
	if !ok {
		return fail("full_name", "Please enter your full name.")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		return fail("phone", "Please enter a valid phone number.")
	}

	if next := c.FormValue("new_password"); next != "" {
		if !validate.Password(next) {
			return fail("new_password", "Password must be 8-64 characters with upper and lower case letters, a digit and a symbol.")
		}
		if next != c.FormValue("confirm_password") {
			return fail("confirm_password", "Passwords do not match.")
		}
		if err := h.Auth.ChangePassword(c.UserContext(), u.ID, c.FormValue("current_password"), next); err != nil {
			if errors.Is(err, services.ErrBadCreds) {
				return fail("current_password", "Current password is incorrect.")
			}
			return err
		}
		log.Audit(c, "profile.password.change", nil)
	}

	if _, err := h.Auth.UpdateProfile(c.UserContext(), u.ID, services.ProfileUpdate{FullName: name, Phone: phone}); err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return fail(ve.Field, ve.Msg)
		}
		log.Error(c, "profile.update.fail", err, nil)
		return err
	}
	log.Audit(c, "profile.update", nil)
	return redirectWith(c, "/dashboard/profile", "success", "Profile updated.")
}

// isLocalPath accepts only same-site redirect targets: a rooted path, or an
// absolute URL whose scheme and host are exactly this server's.
func isLocalPath(ref string, c *fiber.Ctx) bool {
	u, err := url.Parse(ref)
	if err != nil || u.User != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(u.Path, "/") && !strings.HasPrefix(ref, "//") && !strings.HasPrefix(ref, "/\\")
	}
	return u.Scheme == c.Protocol() && u.Host == c.Hostname()
}
