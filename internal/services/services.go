package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/broarr/soma-security-prototype/internal/models"
)

// The error strings below are shown to participants verbatim as flash
// messages, so they are sentences rather than lowercase error fragments.
var (
	ErrAlreadyRegistered = errors.New("That participant has already been registered")
	ErrPhoneRequired     = errors.New("Phone number required")
	ErrNoUserFound       = errors.New("No user found")
	ErrNotRegistered     = errors.New("Participant has not registered")
	ErrWrongPassword     = errors.New("Wrong password")
	ErrNotVerified       = errors.New("Please verify account before logging in")
	ErrResetNotFound     = errors.New("User not found")
)

// UnknownParticipantError is returned when a registration names a participant
// id that was never provisioned.
type UnknownParticipantError struct {
	Username string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("Unknown participant id %s", e.Username)
}

// PortalService is the portal's account lifecycle: activate a pre-provisioned
// account, verify it over SMS, authenticate it, and recover its password.
type PortalService interface {
	// Register binds a password and a hashed phone number to an existing,
	// unregistered account and issues a verification token.
	Register(ctx context.Context, username, password, phoneNo string) (*models.Account, error)

	// Login validates a username/password pair. Unverified accounts are
	// rejected even with the correct password.
	Login(ctx context.Context, username, password string) (*models.Account, error)

	// CurrentAccount resolves a session's stored username back to an account.
	// A miss means the session is stale and the caller should treat the
	// request as unauthenticated.
	CurrentAccount(ctx context.Context, username string) (*models.Account, error)

	// CompleteReset consumes a reset token together with a new password.
	// Tokens are single-use: the token is cleared on success, so a replay
	// fails the lookup.
	CompleteReset(ctx context.Context, token, newPassword string) (*models.Account, error)

	// HandleInboundSMS routes an inbound text message (verification token,
	// reset request, or anything else) and always produces exactly one reply.
	HandleInboundSMS(ctx context.Context, from, body string) string
}
