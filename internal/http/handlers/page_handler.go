package handlers

import (
	"errors"
	"strings"

	"immoportal/internal/domain"
	"immoportal/internal/log"
	"immoportal/internal/services"
	"immoportal/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the public marketing pages and their forms.
type PageHandler struct {
	Properties *services.PropertyStore
	Inbox      *services.InboxService
}

// GET /
func (h *PageHandler) Home(c *fiber.Ctx) error {
	all, err := h.Properties.All(c.UserContext())
	if err != nil {
		log.Error(c, "home.list.fail", err, nil)
		return err
	}
	featured := domain.FilterProperties(all, domain.PropertyFilter{Status: string(domain.StatusAvailable)})
	if len(featured) > 6 {
		featured = featured[:6]
	}
	return render(c, "home", merge(fiber.Map{
		"Featured": featured, "Stats": domain.ComputeStats(all, 5),
	}, filterOptions(domain.PropertyFilter{})))
}

func (h *PageHandler) Services(c *fiber.Ctx) error { return render(c, "services", nil) }

func (h *PageHandler) About(c *fiber.Ctx) error { return render(c, "about", nil) }

// GET /contact
func (h *PageHandler) ContactForm(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{"Form": services.ContactInput{Subject: c.Query("subject")}})
}

// POST /contact
func (h *PageHandler) Contact(c *fiber.Ctx) error {
	in := services.ContactInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Phone:   c.FormValue("phone"),
		Subject: c.FormValue("subject"),
		Message: c.FormValue("message"),
	}
	fail := func(field, msg string) error {
		log.Security(c, "validation.fail", map[string]any{"form": "contact", "field": field})
		c.Status(fiber.StatusBadRequest)
		return render(c, "contact", fiber.Map{"Form": in, "Err": msg})
	}

	clean := in
	var ok bool
	if clean.Name, ok = validate.Name(in.Name); !ok {
		return fail("name", "Please enter your name.")
	}
	if clean.Email, ok = validate.Email(in.Email); !ok {
		return fail("email", "Please enter a valid email address.")
	}
	if clean.Phone, ok = validate.Phone(in.Phone); !ok {
		return fail("phone", "Please enter a valid phone number.")
	}
	if clean.Subject, ok = validate.Text(in.Subject, 120); !ok {
		return fail("subject", "Please enter a subject.")
	}
	if clean.Message, ok = validate.Text(in.Message, 4000); !ok {
		return fail("message", "Please enter a message (max 4000 characters).")
	}

	m, err := h.Inbox.Contact(c.UserContext(), clean)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return fail(ve.Field, ve.Msg)
		}
		log.Error(c, "contact.save.fail", err, nil)
		return err
	}
	log.Audit(c, "contact.send", map[string]any{"message_id": m.ID})
	return redirectWith(c, "/contact", "success", "Thank you! Your message has been sent. We will get back to you shortly.")
}

// GET /newsletter
func (h *PageHandler) NewsletterForm(c *fiber.Ctx) error { return render(c, "newsletter", nil) }

// POST /newsletter
func (h *PageHandler) Subscribe(c *fiber.Ctx) error {
	raw := c.FormValue("email")
	email, ok := validate.Email(raw)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"form": "newsletter", "field": "email"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "newsletter", fiber.Map{"Err": "Please enter a valid email address.", "Email": strings.TrimSpace(raw)})
	}
	added, err := h.Inbox.Subscribe(c.UserContext(), email)
	if err != nil {
		log.Error(c, "newsletter.subscribe.fail", err, nil)
		return err
	}
	if !added {
		return redirectWith(c, "/newsletter", "info", "You are already subscribed.")
	}
	log.Audit(c, "newsletter.subscribe", nil)
	return redirectWith(c, "/newsletter", "success", "Thanks for subscribing to our newsletter!")
}
