package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/broarr/soma-security-prototype/internal/models"
	"github.com/broarr/soma-security-prototype/internal/repository"
	"github.com/broarr/soma-security-prototype/internal/twilio"
	"github.com/broarr/soma-security-prototype/internal/utils"
	"go.uber.org/zap"
)

const resetRequestText = "reset password"

// portalService implements PortalService over an AccountRepository.
type portalService struct {
	repo          repository.AccountRepository
	tokens        utils.TokenGenerator
	creds         CredentialChecker
	smsClient     twilio.Client
	logger        *zap.Logger
	baseURL       string
	portalPhoneNo string
}

// NewPortalService wires the portal logic. baseURL is the externally
// reachable "http://host:port" used to build reset links; portalPhoneNo is the
// number participants text their tokens to.
func NewPortalService(
	repo repository.AccountRepository,
	tokens utils.TokenGenerator,
	creds CredentialChecker,
	smsClient twilio.Client,
	logger *zap.Logger,
	baseURL string,
	portalPhoneNo string,
) PortalService {
	return &portalService{
		repo:          repo,
		tokens:        tokens,
		creds:         creds,
		smsClient:     smsClient,
		logger:        logger,
		baseURL:       baseURL,
		portalPhoneNo: portalPhoneNo,
	}
}

// Register activates a pre-provisioned account. The precondition checks run
// in a fixed order so each failure mode keeps its own message.
func (s *portalService) Register(ctx context.Context, username, password, phoneNo string) (*models.Account, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, &UnknownParticipantError{Username: username}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up participant: %w", err)
	}

	if account.Registered() {
		return nil, ErrAlreadyRegistered
	}

	if phoneNo == "" {
		return nil, ErrPhoneRequired
	}

	stored, err := s.creds.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password: %w", err)
	}

	account.Password = stored
	account.PhoneHash = utils.HashPhoneNumber(phoneNo)
	account.VerificationToken = s.tokens.VerificationToken()
	if err := s.repo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.logger.Info("participant registered",
		zap.String("username", account.Username),
		zap.String("verification_token", account.VerificationToken),
	)

	// Courtesy text with the verification instructions. The participant can
	// always read the token off the /verify page instead, so a send failure
	// is logged and swallowed.
	s.notify(ctx, phoneNo, fmt.Sprintf(
		"Text %s to %s to verify your account", account.VerificationToken, s.portalPhoneNo))

	return account, nil
}

// Login checks username then password then verification status, in that
// order, each with a distinct failure message.
func (s *portalService) Login(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrNoUserFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up participant: %w", err)
	}

	if !account.Registered() {
		return nil, ErrNotRegistered
	}

	if !s.creds.Compare(account.Password, password) {
		return nil, ErrWrongPassword
	}

	if !account.Verified {
		return nil, ErrNotVerified
	}

	return account, nil
}

// CurrentAccount resolves the username a session carries. The error text
// matches the stale-session lookup failure of the original portal.
func (s *portalService) CurrentAccount(ctx context.Context, username string) (*models.Account, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up participant: %w", err)
	}
	return account, nil
}

// CompleteReset looks the account up by reset token, overwrites the password
// and revokes the token so it cannot be used twice.
func (s *portalService) CompleteReset(ctx context.Context, token, newPassword string) (*models.Account, error) {
	account, err := s.repo.FindByResetToken(ctx, token)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrResetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	stored, err := s.creds.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password: %w", err)
	}

	account.Password = stored
	account.ResetToken = ""
	if err := s.repo.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.logger.Info("password reset completed", zap.String("username", account.Username))
	return account, nil
}

// HandleInboundSMS classifies an inbound text and dispatches it. Every branch
// ends in a reply; nothing propagates to the webhook as an error.
func (s *portalService) HandleInboundSMS(ctx context.Context, from, body string) string {
	switch {
	case strings.HasPrefix(body, "v-"):
		return s.verify(ctx, from)
	case body == resetRequestText:
		return s.requestReset(ctx, from)
	default:
		return fmt.Sprintf("Unknown request: %s", body)
	}
}

// verify marks the sender's account verified. The account is derived purely
// from the sender's phone hash; the inbound token value is not compared to
// the stored one, matching the original flow.
func (s *portalService) verify(ctx context.Context, from string) string {
	account, err := s.repo.FindByPhoneHash(ctx, utils.HashPhoneNumber(from))
	if err != nil {
		return "Unknown user"
	}

	account.Verified = true
	account.VerificationToken = ""
	if err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to save verified account", zap.Error(err))
		return "Unknown user"
	}

	s.logger.Info("participant verified", zap.String("username", account.Username))
	return "Congrats you're verified! \U0001F389"
}

// requestReset issues a fresh single-use reset token and replies with the
// reset link.
func (s *portalService) requestReset(ctx context.Context, from string) string {
	account, err := s.repo.FindByPhoneHash(ctx, utils.HashPhoneNumber(from))
	if err != nil {
		return "Unknown user"
	}

	account.ResetToken = s.tokens.ResetToken()
	if err := s.repo.Save(ctx, account); err != nil {
		s.logger.Error("failed to save reset token", zap.Error(err))
		return "Unknown user"
	}

	url := fmt.Sprintf("%s/reset?token=%s", s.baseURL, account.ResetToken)
	s.logger.Info("reset token issued", zap.String("username", account.Username))
	return fmt.Sprintf("Reset password at %s", url)
}

func (s *portalService) notify(ctx context.Context, phoneNo, message string) {
	if s.smsClient == nil || !s.smsClient.IsConfigured() {
		return
	}
	if err := s.smsClient.SendSMS(ctx, phoneNo, message); err != nil {
		s.logger.Warn("outbound SMS failed", zap.Error(err))
	}
}
