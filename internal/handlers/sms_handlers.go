package handlers

import (
	"github.com/broarr/soma-security-prototype/internal/models"
	"github.com/broarr/soma-security-prototype/internal/twilio"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SMS is the webhook Twilio posts inbound text messages to. Every branch
// answers 200 with a TwiML document carrying exactly one reply message;
// delivery problems are Twilio's to retry, not ours.
func (h *Handler) SMS(c *fiber.Ctx) error {
	var msg models.InboundSMS
	if err := c.BodyParser(&msg); err != nil {
		h.logger.Warn("unparseable SMS webhook payload", zap.Error(err))
	}

	reply := h.svc.HandleInboundSMS(c.Context(), msg.From, msg.Body)

	var twiml twilio.MessagingResponse
	twiml.Message(reply)

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Status(fiber.StatusOK).SendString(twiml.String())
}
