package handlers

import (
	"errors"

	"immoportal/internal/domain"
	"immoportal/internal/log"
	"immoportal/internal/repos"
	"immoportal/internal/services"
	"immoportal/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the admin user management pages.
type UserHandler struct {
	Users *services.UserStore
}

type userForm struct {
	ID       string
	FullName string
	Email    string
	Phone    string
	Role     domain.Role
}

// GET /dashboard/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.Fetch(c.UserContext())
	if err != nil {
		log.Error(c, "users.list.fail", err, nil)
		return err
	}
	if role := c.Query("role"); role != "" {
		if r, ok := validate.Role(role); ok {
			kept := users[:0]
			for _, u := range users {
				if u.Role == r {
					kept = append(kept, u)
				}
			}
			users = kept
		}
	}
	return render(c, "users", fiber.Map{
		"Users": users, "Stats": domain.CountRoles(users), "Roles": domain.Roles, "RoleFilter": c.Query("role"),
	})
}

// GET /dashboard/users/new
func (h *UserHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "user_form", fiber.Map{
		"Title": "New user", "Action": "/dashboard/users", "Form": userForm{Role: domain.RoleClient}, "Roles": domain.Roles,
	})
}

// POST /dashboard/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	form, field, msg := parseUserForm(c)
	if msg == "" && !validate.Password(c.FormValue("password")) {
		field, msg = "password", "Password must be 8-64 characters with upper and lower case letters, a digit and a symbol."
	}
	if msg != "" {
		return h.formFailed(c, form, "New user", "/dashboard/users", field, msg)
	}
	p, err := h.Users.Add(c.UserContext(), services.NewUser{
		FullName: form.FullName, Email: form.Email, Phone: form.Phone, Role: form.Role,
		Password: c.FormValue("password"),
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrInvalidInput) {
			return h.formFailed(c, form, "New user", "/dashboard/users", "email", err.Error())
		}
		log.Error(c, "users.create.fail", err, nil)
		return err
	}
	log.Audit(c, "users.create", map[string]any{"target_id": p.ID, "role": p.Role})
	return redirectWith(c, "/dashboard/users", "success", "User created.")
}

// GET /dashboard/users/:id/edit
func (h *UserHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "User not found")
	}
	p, err := h.Users.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return notFound(c, "User not found")
	}
	if err != nil {
		return err
	}
	return render(c, "user_form", fiber.Map{
		"Title": "Edit user", "Action": "/dashboard/users/" + p.ID, "Editing": true, "Roles": domain.Roles,
		"Form": userForm{ID: p.ID, FullName: p.FullName, Email: p.Email, Phone: p.Phone, Role: p.Role},
	})
}

// POST /dashboard/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "User not found")
	}
	form, field, msg := parseUserForm(c)
	form.ID = id
	if msg != "" {
		return h.formFailed(c, form, "Edit user", "/dashboard/users/"+id, field, msg)
	}
	if id == currentUser(c).ID && form.Role != domain.RoleAdmin {
		return h.formFailed(c, form, "Edit user", "/dashboard/users/"+id, "role", "You cannot remove your own admin role.")
	}
	_, err := h.Users.Update(c.UserContext(), id, services.UserUpdate{
		FullName: form.FullName, Email: form.Email, Phone: form.Phone, Role: form.Role,
	})
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return notFound(c, "User not found")
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrInvalidInput):
		return h.formFailed(c, form, "Edit user", "/dashboard/users/"+id, "email", err.Error())
	case err != nil:
		log.Error(c, "users.update.fail", err, map[string]any{"target_id": id})
		return err
	}
	log.Audit(c, "users.update", map[string]any{"target_id": id, "role": form.Role})
	return redirectWith(c, "/dashboard/users", "success", "User updated.")
}

// POST /dashboard/users/:id/delete
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "User not found")
	}
	err := h.Users.Delete(c.UserContext(), currentUser(c).ID, id)
	switch {
	case errors.Is(err, services.ErrSelfDelete):
		log.Security(c, "users.delete.self", nil)
		return redirectWith(c, "/dashboard/users", "error", "You cannot delete your own account.")
	case errors.Is(err, repos.ErrNotFound):
		return redirectWith(c, "/dashboard/users", "error", "User not found.")
	case err != nil:
		log.Error(c, "users.delete.fail", err, map[string]any{"target_id": id})
		return redirectWith(c, "/dashboard/users", "error", "Could not delete the user.")
	}
	log.Audit(c, "users.delete", map[string]any{"target_id": id})
	return redirectWith(c, "/dashboard/users", "success", "User deleted.")
}

func (h *UserHandler) formFailed(c *fiber.Ctx, form userForm, title, action, field, msg string) error {
	log.Security(c, "validation.fail", map[string]any{"form": "user", "field": field})
	c.Status(fiber.StatusBadRequest)
	return render(c, "user_form", fiber.Map{
		"Title": title, "Action": action, "Editing": form.ID != "", "Form": form, "Roles": domain.Roles, "Err": msg,
	})
}

func parseUserForm(c *fiber.Ctx) (userForm, string, string) {
	form := userForm{
		FullName: c.FormValue("full_name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
		Role:     domain.Role(c.FormValue("role")),
	}
	name, ok := validate.Name(form.FullName)
	if !ok {
		return form, "full_name", "Please enter a full name."
	}
	email, ok := validate.Email(form.Email)
	if !ok {
		return form, "email", "Please enter a valid email address."
	}
	phone, ok := validate.Phone(form.Phone)
	if !ok {
		return form, "phone", "Please enter a valid phone number."
	}
	role, ok := validate.Role(string(form.Role))
	if !ok {
		return form, "role", "Please choose a role."
	}
	return userForm{FullName: name, Email: email, Phone: phone, Role: role}, "", ""
}
