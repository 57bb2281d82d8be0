package handlers_test

import (
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/broarr/soma-security-prototype/internal/config"
	"github.com/broarr/soma-security-prototype/internal/handlers"
	"github.com/broarr/soma-security-prototype/internal/repository"
	"github.com/broarr/soma-security-prototype/internal/server"
	"github.com/broarr/soma-security-prototype/internal/services"
	"github.com/broarr/soma-security-prototype/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testUsername = "p1337"
	testPassword = "secret1"
	testPhoneNo  = "+15551234567"
)

var (
	verificationTokenRe = regexp.MustCompile(`v-[0-9a-z]{4}`)
	resetTokenRe        = regexp.MustCompile(`p-[0-9a-z]{4}`)
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		App: config.AppCfg{
			Env:          "development",
			Host:         "127.0.0.1",
			Port:         1337,
			PhoneNo:      "+15550000000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}

	repo := repository.NewMemoryAccountRepo([]string{testUsername})
	svc := services.NewPortalService(
		repo,
		utils.NewTokenGenerator(rand.NewSource(1)),
		services.PlaintextChecker{},
		nil,
		zap.NewNop(),
		cfg.BaseURL(),
		cfg.App.PhoneNo,
	)

	store := server.NewSessionStore(nil)
	h := handlers.NewHandler(svc, store, zap.NewNop(), cfg.App.PhoneNo)
	return server.New(cfg, h, zap.NewNop())
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	return nil
}

func doGet(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func doPost(t *testing.T, app *fiber.App, path string, form url.Values, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestLoginPage(t *testing.T) {
	app := newTestApp(t)

	resp, body := doGet(t, app, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Participant Login")
}

func TestSecureRequiresSession(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doGet(t, app, "/secure", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestSMSWebhookUnknownRequest(t *testing.T) {
	app := newTestApp(t)

	resp, body := doPost(t, app, "/sms", url.Values{
		"Body": {"hello"},
		"From": {testPhoneNo},
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/xml", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, body, "<Message>Unknown request: hello</Message>")
}

func TestSMSWebhookUnknownUser(t *testing.T) {
	app := newTestApp(t)

	_, body := doPost(t, app, "/sms", url.Values{
		"Body": {"v-abcd"},
		"From": {"+15550009999"},
	}, nil)
	assert.Contains(t, body, "<Message>Unknown user</Message>")
}

// TestEndToEnd walks the full participant lifecycle: register, read the
// verification token off the verify page, text it in, log in, then reset the
// password over SMS and log in with the new one.
func TestEndToEnd(t *testing.T) {
	app := newTestApp(t)

	// Register the pre-provisioned account.
	resp, _ := doPost(t, app, "/register", url.Values{
		"username": {testUsername},
		"password": {testPassword},
		"phoneNo":  {testPhoneNo},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/verify", resp.Header.Get("Location"))
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)

	// The verify page shows the token to text in.
	resp, body := doGet(t, app, "/verify", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := verificationTokenRe.FindString(body)
	require.NotEmpty(t, token)

	// Logging in before verification fails.
	resp, _ = doPost(t, app, "/", url.Values{
		"username": {testUsername},
		"password": {testPassword},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	failedCookie := sessionCookie(resp)
	require.NotNil(t, failedCookie)
	_, body = doGet(t, app, "/", failedCookie)
	assert.Contains(t, body, "Please verify account before logging in")

	// Text the token in from the registered number.
	resp, body = doPost(t, app, "/sms", url.Values{
		"Body": {token},
		"From": {testPhoneNo},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "verified")

	// Now login succeeds and /secure greets the participant.
	resp, _ = doPost(t, app, "/", url.Values{
		"username": {testUsername},
		"password": {testPassword},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/secure", resp.Header.Get("Location"))
	cookie = sessionCookie(resp)
	require.NotNil(t, cookie)

	resp, body = doGet(t, app, "/secure", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, testUsername)

	// Request a password reset over SMS and follow the link.
	_, body = doPost(t, app, "/sms", url.Values{
		"Body": {"reset password"},
		"From": {testPhoneNo},
	}, nil)
	require.Contains(t, body, "Reset password at")
	resetToken := resetTokenRe.FindString(body)
	require.NotEmpty(t, resetToken)

	resp, body = doGet(t, app, "/reset?token="+resetToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, resetToken)

	resp, _ = doPost(t, app, "/reset", url.Values{
		"token":    {resetToken},
		"password": {"newsecret"},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	resetCookie := sessionCookie(resp)
	require.NotNil(t, resetCookie)
	_, body = doGet(t, app, "/", resetCookie)
	assert.Contains(t, body, "Password reset successful")

	// The consumed token cannot be replayed.
	resp, _ = doPost(t, app, "/reset", url.Values{
		"token":    {resetToken},
		"password": {"evilpass"},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// Old password no longer works, new one does.
	resp, _ = doPost(t, app, "/", url.Values{
		"username": {testUsername},
		"password": {testPassword},
	}, nil)
	require.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = doPost(t, app, "/", url.Values{
		"username": {testUsername},
		"password": {"newsecret"},
	}, nil)
	require.Equal(t, "/secure", resp.Header.Get("Location"))

	// Logout destroys the session.
	cookie = sessionCookie(resp)
	require.NotNil(t, cookie)
	resp, _ = doGet(t, app, "/logout", cookie)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, _ = doGet(t, app, "/secure", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}
