package handlers

import (
	"errors"
	"time"

	"immoportal/internal/domain"
	"immoportal/internal/log"
	"immoportal/internal/metrics"
	"immoportal/internal/services"
	"immoportal/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth         *services.AuthService
	Metrics      *metrics.Collector
	SecureCookie bool
}

func (h *AuthHandler) setSession(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
	})
}

func (h *AuthHandler) SignInForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/dashboard")
	}
	return render(c, "signin", fiber.Map{"Err": ""})
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	fail := func(reason string) error {
		log.Security(c, "auth.signin.fail", map[string]any{"email": email, "reason": reason})
		h.Metrics.RecordSignIn(false)
		c.Status(fiber.StatusUnauthorized)
		return render(c, "signin", fiber.Map{"Err": "Invalid email or password", "Email": email})
	}
	if _, ok := validate.Email(email); !ok {
		return fail("bad_format")
	}
	if pass == "" || len(pass) > 64 {
		return fail("bad_password_format")
	}

	res, err := h.Auth.SignIn(c.UserContext(), email, pass)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			return fail("bad_credentials")
		}
		log.Error(c, "auth.signin.error", err, nil)
		return err
	}

	h.setSession(c, res.Token, res.Expires)
	h.Metrics.RecordSignIn(true)
	c.Locals(log.UserIDKey, res.Profile.ID)
	log.Audit(c, "auth.signin.success", map[string]any{"email": res.Profile.Email, "role": res.Profile.Role})
	return redirectWith(c, "/dashboard", "success", "Welcome back, "+res.Profile.FullName+"!")
}

func (h *AuthHandler) SignUpForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/dashboard")
	}
	return render(c, "signup", fiber.Map{"Form": fiber.Map{"Role": "client"}, "Roles": signUpRoles})
}

var signUpRoles = []domain.Role{domain.RoleClient, domain.RoleAgent}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	form := fiber.Map{
		"FullName": c.FormValue("full_name"),
		"Email":    c.FormValue("email"),
		"Phone":    c.FormValue("phone"),
		"Role":     c.FormValue("role"),
	}
	fail := func(field, msg string) error {
		log.Security(c, "validation.fail", map[string]any{"form": "signup", "field": field})
		c.Status(fiber.StatusBadRequest)
		return render(c, "signup", fiber.Map{"Err": msg, "Form": form, "Roles": signUpRoles})
	}

	name, ok := validate.Name(c.FormValue("full_name"))
	if !ok {
		return fail("full_name", "Please enter your full name.")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return fail("email", "Please enter a valid email address.")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		return fail("phone", "Please enter a valid phone number.")
	}
	role, ok := validate.Role(c.FormValue("role"))
	if !ok {
		return fail("role", "Please choose a client or agent account.")
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return fail("password", "Password must be 8-64 characters with upper and lower case letters, a digit and a symbol.")
	}

	res, err := h.Auth.SignUp(c.UserContext(), services.SignUpInput{
		FullName:    name,
		Email:       email,
		Phone:       phone,
		Password:    pass,
		Confirm:     c.FormValue("confirm_password"),
		Role:        role,
		AcceptTerms: c.FormValue("terms") != "",
	})
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			return fail(ve.Field, ve.Msg)
		case errors.Is(err, services.ErrEmailTaken):
			return fail("email", err.Error()+".")
		}
		log.Error(c, "auth.signup.error", err, nil)
		return err
	}

	h.setSession(c, res.Token, res.Expires)
	c.Locals(log.UserIDKey, res.Profile.ID)
	log.Audit(c, "auth.signup", map[string]any{"email": res.Profile.Email, "role": res.Profile.Role})
	return redirectWith(c, "/dashboard", "success", "Your account has been created.")
}

func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if err := h.Auth.SignOut(c.UserContext(), sessionToken(c)); err != nil {
		log.Error(c, "auth.signout.fail", err, nil)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.signout", nil)
	return redirectWith(c, "/", "info", "You have been signed out.")
}
