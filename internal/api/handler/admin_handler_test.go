package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/motorhaus/storefront-auth/internal/api/middleware"
	"github.com/motorhaus/storefront-auth/internal/core/domain"
)

// adminStub adds call recording for the admin operations.
type adminStub struct {
	stubAuth

	users []*domain.User

	changeActor  domain.Role
	changeTarget string
	changeRole   domain.Role
	changeErr    error
}

func (s *adminStub) ListUsers(context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func (s *adminStub) ChangeRole(_ context.Context, actorRole domain.Role, targetID string, newRole domain.Role) error {
	s.changeActor, s.changeTarget, s.changeRole = actorRole, targetID, newRole
	return s.changeErr
}

func TestListUsersHandler(t *testing.T) {
	e := newEcho()
	auth := &adminStub{users: []*domain.User{
		{ID: "u1", Email: "a@b.com", Role: domain.RoleUser},
		{ID: "u2", Email: "c@d.com", Role: domain.RoleAdmin},
	}}
	h := NewAdminHandler(auth)

	c, rec := doJSON(e, http.MethodGet, "/admin/users", "")
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("list users: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got userListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Total != 2 || len(got.Users) != 2 {
		t.Fatalf("expected 2 users, got %+v", got)
	}
}

func TestChangeRoleHandler_Success(t *testing.T) {
	e := newEcho()
	auth := &adminStub{}
	h := NewAdminHandler(auth)

	c, rec := doJSON(e, http.MethodPut, "/admin/users/u42/role", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u42")
	c.Set(middleware.CtxRole, string(domain.RoleSuperAdmin))

	if err := h.ChangeRole(c); err != nil {
		t.Fatalf("change role: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth.changeActor != domain.RoleSuperAdmin || auth.changeTarget != "u42" || auth.changeRole != domain.RoleAdmin {
		t.Fatalf("arguments not passed through: %q %q %q", auth.changeActor, auth.changeTarget, auth.changeRole)
	}
}

func TestChangeRoleHandler_MissingClaims(t *testing.T) {
	e := newEcho()
	h := NewAdminHandler(&adminStub{})

	c, _ := doJSON(e, http.MethodPut, "/admin/users/u42/role", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u42")

	err := h.ChangeRole(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestChangeRoleHandler_PropagatesPolicyError(t *testing.T) {
	e := newEcho()
	auth := &adminStub{changeErr: domain.ErrForbidden}
	h := NewAdminHandler(auth)

	c, _ := doJSON(e, http.MethodPut, "/admin/users/u42/role", `{"role":"super_admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u42")
	c.Set(middleware.CtxRole, string(domain.RoleAdmin))

	if err := h.ChangeRole(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden to pass through, got %v", err)
	}
}

func TestChangeRoleHandler_RejectsEmptyRole(t *testing.T) {
	e := newEcho()
	h := NewAdminHandler(&adminStub{})

	c, _ := doJSON(e, http.MethodPut, "/admin/users/u42/role", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("u42")
	c.Set(middleware.CtxRole, string(domain.RoleSuperAdmin))

	err := h.ChangeRole(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
