package routes

import (
	"github.com/broarr/soma-security-prototype/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

// Setup registers the portal's routes. Forms drive registration, login and
// reset completion; the /sms webhook drives verification and reset-token
// issuance.
func Setup(app *fiber.App, h *handlers.Handler) {
	app.Get("/", h.ShowLogin)
	app.Post("/", h.Login)

	app.Get("/register", h.ShowRegister)
	app.Post("/register", h.Register)

	app.Get("/verify", h.ShowVerify)

	app.Get("/reset", h.ShowReset)
	app.Post("/reset", h.CompleteReset)

	app.Get("/secure", h.Secure)
	app.Get("/logout", h.Logout)

	app.Post("/sms", h.SMS)
}
