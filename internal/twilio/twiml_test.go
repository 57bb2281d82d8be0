package twilio_test

import (
	"testing"

	"github.com/broarr/soma-security-prototype/internal/twilio"
	"github.com/stretchr/testify/assert"
)

func TestMessagingResponse(t *testing.T) {
	var r twilio.MessagingResponse
	r.Message("Unknown user")

	out := r.String()
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, "<Response><Message>Unknown user</Message></Response>")
}

func TestMessagingResponseEscapesBody(t *testing.T) {
	var r twilio.MessagingResponse
	r.Message("Unknown request: <script>")

	assert.Contains(t, r.String(), "Unknown request: &lt;script&gt;")
}
