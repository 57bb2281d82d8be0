package handlers

import (
	"github.com/broarr/soma-security-prototype/internal/models"
	"github.com/broarr/soma-security-prototype/internal/services"
	"github.com/broarr/soma-security-prototype/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

const (
	sessionUserKey  = "username"
	flashErrorKey   = "flash_error"
	flashSuccessKey = "flash_success"
)

// Handler carries the portal's HTTP surface: the form pages, the
// session-gated landing page and the Twilio webhook.
type Handler struct {
	svc     services.PortalService
	store   *session.Store
	logger  *zap.Logger
	phoneNo string
}

func NewHandler(svc services.PortalService, store *session.Store, logger *zap.Logger, phoneNo string) *Handler {
	return &Handler{svc: svc, store: store, logger: logger, phoneNo: phoneNo}
}

// flash stores a one-shot message on the session, mirroring connect-flash.
func (h *Handler) flash(c *fiber.Ctx, key, message string) {
	sess, err := h.store.Get(c)
	if err != nil {
		h.logger.Error("session unavailable", zap.Error(err))
		return
	}
	sess.Set(key, message)
	if err := sess.Save(); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
	}
}

// popFlash returns the first pending flash message and clears both slots.
func (h *Handler) popFlash(c *fiber.Ctx) string {
	sess, err := h.store.Get(c)
	if err != nil {
		return ""
	}
	message := ""
	for _, key := range []string{flashErrorKey, flashSuccessKey} {
		if v, ok := sess.Get(key).(string); ok && message == "" {
			message = v
		}
		sess.Delete(key)
	}
	_ = sess.Save()
	return message
}

// currentUsername returns the session's bound username, or "" when the
// request is unauthenticated.
func (h *Handler) currentUsername(c *fiber.Ctx) string {
	sess, err := h.store.Get(c)
	if err != nil {
		return ""
	}
	username, _ := sess.Get(sessionUserKey).(string)
	return username
}

func (h *Handler) bindUser(c *fiber.Ctx, username string) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserKey, username)
	return sess.Save()
}

// ShowLogin renders the login form with any pending flash message.
func (h *Handler) ShowLogin(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{"message": h.popFlash(c)})
}

// Login authenticates a participant and opens a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var form models.LoginForm
	if err := c.BodyParser(&form); err != nil {
		h.flash(c, flashErrorKey, "Invalid form submission")
		return c.Redirect("/", fiber.StatusFound)
	}
	if err := utils.ValidateStruct(&form); err != nil {
		h.flash(c, flashErrorKey, err.Error())
		return c.Redirect("/", fiber.StatusFound)
	}

	account, err := h.svc.Login(c.Context(), form.Username, form.Password)
	if err != nil {
		h.flash(c, flashErrorKey, err.Error())
		return c.Redirect("/", fiber.StatusFound)
	}

	if err := h.bindUser(c, account.Username); err != nil {
		h.logger.Error("failed to bind session", zap.Error(err))
		h.flash(c, flashErrorKey, "Login failed")
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Redirect("/secure", fiber.StatusFound)
}

// ShowRegister renders the registration form.
func (h *Handler) ShowRegister(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{"message": h.popFlash(c)})
}

// Register activates a pre-provisioned account and, like the original portal,
// logs the participant in so /verify can show their token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var form models.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		h.flash(c, flashErrorKey, "Invalid form submission")
		return c.Redirect("/register", fiber.StatusFound)
	}
	if err := utils.ValidateStruct(&form); err != nil {
		h.flash(c, flashErrorKey, err.Error())
		return c.Redirect("/register", fiber.StatusFound)
	}

	account, err := h.svc.Register(c.Context(), form.Username, form.Password, form.PhoneNo)
	if err != nil {
		h.flash(c, flashErrorKey, err.Error())
		return c.Redirect("/register", fiber.StatusFound)
	}

	if err := h.bindUser(c, account.Username); err != nil {
		h.logger.Error("failed to bind session", zap.Error(err))
	}
	return c.Redirect("/verify", fiber.StatusFound)
}

// ShowVerify tells the participant how to verify: which token to text and to
// which number.
func (h *Handler) ShowVerify(c *fiber.Ctx) error {
	token := ""
	if username := h.currentUsername(c); username != "" {
		if account, err := h.svc.CurrentAccount(c.Context(), username); err == nil {
			token = account.VerificationToken
		}
	}
	return c.Render("verify", fiber.Map{"token": token, "phoneNo": h.phoneNo})
}

// ShowReset renders the reset form with the token from the SMS link stashed
// in a hidden input.
func (h *Handler) ShowReset(c *fiber.Ctx) error {
	return c.Render("reset", fiber.Map{"token": c.Query("token")})
}

// CompleteReset consumes the reset token and sets the new password.
func (h *Handler) CompleteReset(c *fiber.Ctx) error {
	var form models.ResetForm
	if err := c.BodyParser(&form); err != nil {
		h.flash(c, flashErrorKey, "Invalid form submission")
		return c.Redirect("/", fiber.StatusFound)
	}
	if err := utils.ValidateStruct(&form); err != nil {
		h.flash(c, flashErrorKey, err.Error())
		return c.Redirect("/", fiber.StatusFound)
	}

	if _, err := h.svc.CompleteReset(c.Context(), form.Token, form.Password); err != nil {
		h.flash(c, flashErrorKey, err.Error())
		return c.Redirect("/", fiber.StatusFound)
	}

	h.flash(c, flashSuccessKey, "Password reset successful")
	return c.Redirect("/", fiber.StatusFound)
}

// Secure is the authenticated landing page. Anything without a resolvable
// session bounces back to the login form.
func (h *Handler) Secure(c *fiber.Ctx) error {
	username := h.currentUsername(c)
	if username == "" {
		return c.Redirect("/", fiber.StatusFound)
	}
	account, err := h.svc.CurrentAccount(c.Context(), username)
	if err != nil {
		// Stale session referencing an unknown participant.
		h.logger.Warn("session resolution failed", zap.Error(err))
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Render("secure", fiber.Map{"username": account.Username})
}

// Logout destroys the session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if sess, err := h.store.Get(c); err == nil {
		if err := sess.Destroy(); err != nil {
			h.logger.Error("failed to destroy session", zap.Error(err))
		}
	}
	return c.Redirect("/", fiber.StatusFound)
}
