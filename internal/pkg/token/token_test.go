package token

import (
	"testing"
	"time"

	"github.com/motorhaus/storefront-auth/internal/core/domain"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(Config{
		AccessSecret:  "access-secret-for-tests-0123456789ab",
		RefreshSecret: "refresh-secret-for-tests-0123456789a",
	})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	c := newTestCodec(t)

	signed, expiresAt, err := c.IssueAccess("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	res := c.Verify(signed, PurposeAccess)
	if res.Status != StatusOK {
		t.Fatalf("expected StatusOK, got %v", res.Status)
	}
	if res.Claims.UserID != "user-1" {
		t.Fatalf("expected uid user-1, got %s", res.Claims.UserID)
	}
	if res.Claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %s", res.Claims.Role)
	}
}

func TestVerifyRejectsWrongPurpose(t *testing.T) {
	c := newTestCodec(t)

	access, _, err := c.IssueAccess("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if res := c.Verify(access, PurposeRefresh); res.Status != StatusInvalid {
		t.Fatalf("access token verified under refresh purpose: %v", res.Status)
	}

	refresh, _, err := c.IssueRefresh("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if res := c.Verify(refresh, PurposeAccess); res.Status != StatusInvalid {
		t.Fatalf("refresh token verified under access purpose: %v", res.Status)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	c := newTestCodec(t)

	signed, _, err := c.IssueAccess("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	// Move the codec clock past the access TTL.
	c.now = func() time.Time { return time.Now().Add(DefaultAccessTTL + time.Minute) }

	res := c.Verify(signed, PurposeAccess)
	if res.Status != StatusExpired {
		t.Fatalf("expected StatusExpired, got %v", res.Status)
	}
	if res.Claims != nil {
		t.Fatalf("expired result must not carry claims")
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	c := newTestCodec(t)

	signed, _, err := c.IssueAccess("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	tampered := signed[:len(signed)-2] + "xx"
	if res := c.Verify(tampered, PurposeAccess); res.Status != StatusInvalid {
		t.Fatalf("expected StatusInvalid for tampered token, got %v", res.Status)
	}
	if res := c.Verify("not-a-token", PurposeAccess); res.Status != StatusInvalid {
		t.Fatalf("expected StatusInvalid for garbage, got %v", res.Status)
	}
}

func TestNewCodecRequiresSecrets(t *testing.T) {
	if _, err := NewCodec(Config{AccessSecret: "a"}); err == nil {
		t.Fatalf("expected error for missing refresh secret")
	}
	if _, err := NewCodec(Config{RefreshSecret: "r"}); err == nil {
		t.Fatalf("expected error for missing access secret")
	}
}

func TestIssuedTokensAreUnique(t *testing.T) {
	c := newTestCodec(t)

	a, _, err := c.IssueRefresh("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	b, _, err := c.IssueRefresh("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if a == b {
		t.Fatalf("two tokens for the same user must not collide")
	}
}

func TestDefaultLifetimes(t *testing.T) {
	c := newTestCodec(t)
	if c.accessTTL != DefaultAccessTTL {
		t.Fatalf("expected default access TTL, got %v", c.accessTTL)
	}
	if c.refreshTTL != DefaultRefreshTTL {
		t.Fatalf("expected default refresh TTL, got %v", c.refreshTTL)
	}
}
