package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
	"github.com/motorhaus/storefront-auth/internal/core/ports"
)

// stubAuth records calls and returns canned results.
type stubAuth struct {
	loginEmail    string
	loginPassword string
	loginResult   *ports.AuthResult
	loginErr      error

	registered   *domain.User
	registerErr  error
	logoutToken  string
	resetEmail   string
	resetToken   string
	resetPass    string
	confirmToken string
}

func (s *stubAuth) Register(_ context.Context, email, username, password string) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = &domain.User{ID: "u1", Email: email, Username: username, Role: domain.RoleUser, Active: true}
	return s.registered, nil
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*ports.AuthResult, error) {
	s.loginEmail, s.loginPassword = email, password
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResult, nil
}

func (s *stubAuth) Refresh(_ context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken != "good-refresh" {
		return nil, domain.ErrInvalidSession
	}
	return s.loginResult, nil
}

func (s *stubAuth) Logout(_ context.Context, refreshToken string) error {
	s.logoutToken = refreshToken
	return nil
}

func (s *stubAuth) RequestPasswordReset(_ context.Context, email string) error {
	s.resetEmail = email
	return nil
}

func (s *stubAuth) ResetPassword(_ context.Context, tok, newPassword string) error {
	s.resetToken, s.resetPass = tok, newPassword
	if tok == "burnt" {
		return domain.ErrTokenInvalid
	}
	return nil
}

func (s *stubAuth) RequestEmailVerification(_ context.Context, email string) error { return nil }

func (s *stubAuth) ConfirmEmail(_ context.Context, tok string) error {
	s.confirmToken = tok
	return nil
}

func (s *stubAuth) Authorize(context.Context, string, domain.Permission) (ports.Decision, error) {
	return ports.Decision{}, nil
}

func (s *stubAuth) ChangeRole(context.Context, domain.Role, string, domain.Role) error { return nil }

func (s *stubAuth) ListUsers(context.Context) ([]*domain.User, error) { return nil, nil }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func doJSON(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginHandler_Success(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{loginResult: &ports.AuthResult{
		Tokens: ports.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
	}}
	h := NewAuthHandler(auth)

	c, rec := doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"Secret123!"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth.loginEmail != "a@b.com" {
		t.Fatalf("email not passed through: %q", auth.loginEmail)
	}

	var got ports.AuthResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Tokens.AccessToken != "acc" || got.Tokens.RefreshToken != "ref" {
		t.Fatalf("unexpected token pair: %+v", got.Tokens)
	}
}

func TestLoginHandler_RejectsMalformedPayload(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuth{})

	for name, body := range map[string]string{
		"not json":      `{{{`,
		"missing email": `{"password":"x"}`,
		"bad email":     `{"email":"not-an-email","password":"x"}`,
	} {
		c, _ := doJSON(e, http.MethodPost, "/auth/login", body)
		err := h.Login(c)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", name, err)
		}
	}
}

func TestLoginHandler_PropagatesServiceError(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuth{loginErr: domain.ErrInvalidCredentials})

	c, _ := doJSON(e, http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to pass through, got %v", err)
	}
}

func TestRegisterHandler_Created(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{}
	h := NewAuthHandler(auth)

	c, rec := doJSON(e, http.MethodPost, "/auth/register", `{"email":"new@b.com","username":"newbie","password":"Secret123!"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if auth.registered == nil || auth.registered.Email != "new@b.com" {
		t.Fatalf("register not called with email")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	e := newEcho()
	h := NewAuthHandler(&stubAuth{})

	c, _ := doJSON(e, http.MethodPost, "/auth/register", `{"email":"new@b.com","password":"short"}`)
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLogoutHandler_PassesToken(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{}
	h := NewAuthHandler(auth)

	c, rec := doJSON(e, http.MethodPost, "/auth/logout", `{"refresh_token":"ref-123"}`)
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth.logoutToken != "ref-123" {
		t.Fatalf("token not passed through: %q", auth.logoutToken)
	}
}

func TestPasswordResetHandlers(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{}
	h := NewAuthHandler(auth)

	c, rec := doJSON(e, http.MethodPost, "/auth/password-reset", `{"email":"a@b.com"}`)
	if err := h.RequestPasswordReset(c); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if rec.Code != http.StatusOK || auth.resetEmail != "a@b.com" {
		t.Fatalf("request reset: code=%d email=%q", rec.Code, auth.resetEmail)
	}

	c, rec = doJSON(e, http.MethodPost, "/auth/password-reset/confirm", `{"token":"tok","new_password":"Secret123!"}`)
	if err := h.ConfirmPasswordReset(c); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}
	if rec.Code != http.StatusOK || auth.resetToken != "tok" || auth.resetPass != "Secret123!" {
		t.Fatalf("confirm reset did not pass arguments through")
	}

	// A consumed token surfaces as a domain error for the error handler.
	c, _ = doJSON(e, http.MethodPost, "/auth/password-reset/confirm", `{"token":"burnt","new_password":"Secret123!"}`)
	if err := h.ConfirmPasswordReset(c); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestEmailVerificationHandlers(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{}
	h := NewAuthHandler(auth)

	c, rec := doJSON(e, http.MethodPost, "/auth/verify-email", `{"email":"a@b.com"}`)
	if err := h.RequestEmailVerification(c); err != nil {
		t.Fatalf("request verification: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = doJSON(e, http.MethodPost, "/auth/verify-email/confirm", `{"token":"vt"}`)
	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("confirm email: %v", err)
	}
	if rec.Code != http.StatusOK || auth.confirmToken != "vt" {
		t.Fatalf("confirm email did not pass token through")
	}
}

func TestRefreshHandler(t *testing.T) {
	e := newEcho()
	auth := &stubAuth{loginResult: &ports.AuthResult{
		Tokens: ports.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"},
	}}
	h := NewAuthHandler(auth)

	c, rec := doJSON(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"good-refresh"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = doJSON(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"stale"}`)
	if err := h.Refresh(c); err != domain.ErrInvalidSession {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
