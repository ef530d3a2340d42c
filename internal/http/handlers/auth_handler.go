package handlers

import (
	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// defaultAvatar is sent with registrations when the form leaves it blank;
// the store API requires an avatar URL.
const defaultAvatar = "https://i.imgur.com/6VBx3io.png"

type AuthHandler struct {
	Session *services.SessionService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")
	if !ok || pass == "" {
		log.Security(c, "auth.login.fail", map[string]any{"email": c.FormValue("email"), "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Err": "Please enter a valid email and password", "CSRFToken": c.Cookies("csrf_"),
		})
	}

	_, err := h.Session.Login(c.Context(), domain.Credentials{Email: email, Password: pass})
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		// API error text is shown verbatim for explicit logins.
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{
			"Err": err.Error(), "CSRFToken": c.Cookies("csrf_"),
		})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name, nameOK := validate.Name(c.FormValue("name"))
	email, emailOK := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	errMsg := ""
	switch {
	case !nameOK:
		errMsg = "Please enter your name"
	case !emailOK:
		errMsg = "Please enter a valid email"
	case !validate.Password(pass):
		errMsg = "Password must be 8-20 characters with upper and lower case letters and a digit"
	case pass != confirm:
		errMsg = "Passwords do not match"
	}
	if errMsg != "" {
		log.Security(c, "auth.register.fail", map[string]any{"email": c.FormValue("email"), "reason": "validation"})
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Err": errMsg, "Name": c.FormValue("name"), "Email": c.FormValue("email"),
			"CSRFToken": c.Cookies("csrf_"),
		})
	}

	avatar := c.FormValue("avatar")
	if avatar == "" {
		avatar = defaultAvatar
	}
	_, err := h.Session.Register(c.Context(), domain.Registration{
		Name: name, Email: email, Password: pass, Avatar: avatar,
	})
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{
			"Err": err.Error(), "Name": name, "Email": email,
			"CSRFToken": c.Cookies("csrf_"),
		})
	}

	log.Audit(c, "auth.register.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Session.Logout()
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	u := h.Session.CurrentUser()
	if u == nil {
		return c.Redirect("/login")
	}
	return render(c, "profile", fiber.Map{"Profile": u})
}

// UpdateProfile applies a local-only merge; the change is not synced to the
// store API.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	upd := services.ProfileUpdate{
		Name:   c.FormValue("name"),
		Email:  c.FormValue("email"),
		Avatar: c.FormValue("avatar"),
	}
	u, err := h.Session.UpdateProfile(upd)
	if err != nil {
		log.Error(c, "profile.update.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).Render("profile", fiber.Map{
			"Err": err.Error(), "CSRFToken": c.Cookies("csrf_"),
		})
	}
	log.Audit(c, "profile.update", map[string]any{"user_id": u.ID})
	return render(c, "profile", fiber.Map{"Profile": u, "Saved": true})
}
