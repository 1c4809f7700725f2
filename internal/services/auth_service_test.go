package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"marketnest/internal/repos"
)

func newAuthService(t *testing.T) (*AuthService, *repos.UserRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:", true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	users := repos.NewUserRepo(db)
	svc, err := NewAuthService(users, "local-secret", true, "idp-secret", "https://idp.example", "")
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	return svc, users
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthService(t)

	u, token, err := svc.Register("alice", "alice@example.com", "Sup3rSecret!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate issued token: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("token resolved to wrong user: %d != %d", got.ID, u.ID)
	}

	if _, _, err := svc.Register("alice2", "alice@example.com", "Sup3rSecret!"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate email: expected ErrUserExists, got %v", err)
	}
	if _, _, err := svc.Register("alice", "alice-two@example.com", "Sup3rSecret!"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate username: expected ErrUserExists, got %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrBadCreds) {
		t.Fatalf("bad password: expected ErrBadCreds, got %v", err)
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	svc, _ := newAuthService(t)
	if _, _, err := svc.Register("bob", "bob@example.com", "Sup3rSecret!"); err != nil {
		t.Fatal(err)
	}

	// Token signed with the wrong key but claiming the local issuer.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "marketnest",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, _ := forged.SignedString([]byte("attacker-key"))
	if _, err := svc.Authenticate(s); !errors.Is(err, ErrBadToken) {
		t.Fatalf("forged token: expected ErrBadToken, got %v", err)
	}

	// Expired token signed with the real key.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "marketnest",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	s, _ = expired.SignedString([]byte("local-secret"))
	if _, err := svc.Authenticate(s); !errors.Is(err, ErrBadToken) {
		t.Fatalf("expired token: expected ErrBadToken, got %v", err)
	}

	if _, err := svc.Authenticate(""); !errors.Is(err, ErrBadToken) {
		t.Fatalf("empty token: expected ErrBadToken, got %v", err)
	}
}

func idpToken(t *testing.T, sub, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":   "https://idp.example",
		"sub":   sub,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("idp-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestIdentityProviderTokenProvisionsAndLinks(t *testing.T) {
	svc, users := newAuthService(t)

	// Unknown subject with a fresh email provisions a local account.
	u1, err := svc.Authenticate(idpToken(t, "ext-123", "carol@example.com"))
	if err != nil {
		t.Fatalf("idp provision: %v", err)
	}
	if u1.Email != "carol@example.com" || u1.Username != "carol" {
		t.Fatalf("provisioned account wrong: %+v", u1)
	}

	// Same subject again resolves to the same account.
	u2, err := svc.Authenticate(idpToken(t, "ext-123", "carol@example.com"))
	if err != nil {
		t.Fatalf("idp repeat: %v", err)
	}
	if u2.ID != u1.ID {
		t.Fatalf("repeat login created a second account: %d != %d", u2.ID, u1.ID)
	}

	// A locally registered user logging in through the provider gets linked
	// by email, not duplicated.
	local, _, err := svc.Register("dave", "dave@example.com", "Sup3rSecret!")
	if err != nil {
		t.Fatal(err)
	}
	u3, err := svc.Authenticate(idpToken(t, "ext-999", "dave@example.com"))
	if err != nil {
		t.Fatalf("idp link: %v", err)
	}
	if u3.ID != local.ID {
		t.Fatalf("email link failed: %d != %d", u3.ID, local.ID)
	}
	linked, err := users.ByExternalID("ext-999")
	if err != nil || linked.ID != local.ID {
		t.Fatalf("external id not stored: %v", err)
	}

	// A short subject with no email claim still provisions an account.
	u4, err := svc.Authenticate(idpToken(t, "abc", ""))
	if err != nil {
		t.Fatalf("short subject: %v", err)
	}
	if u4.Username != "user-abc" {
		t.Fatalf("short subject username: got %q", u4.Username)
	}

	// Wrong issuer is rejected even with a valid signature shape.
	bad := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://evil.example",
		"sub": "ext-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, _ := bad.SignedString([]byte("idp-secret"))
	if _, err := svc.Authenticate(s); !errors.Is(err, ErrBadToken) {
		t.Fatalf("wrong issuer: expected ErrBadToken, got %v", err)
	}
}

func TestLegacySessionIssueAndLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	u, _, err := svc.Register("erin", "erin@example.com", "Sup3rSecret!")
	if err != nil {
		t.Fatal(err)
	}

	tok, err := svc.IssueLegacySession(u.ID)
	if err != nil {
		t.Fatalf("issue legacy: %v", err)
	}
	got, err := svc.Authenticate(tok)
	if err != nil || got.ID != u.ID {
		t.Fatalf("legacy auth: %v", err)
	}

	if err := svc.Logout(tok); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(tok); !errors.Is(err, ErrBadToken) {
		t.Fatalf("after logout: expected ErrBadToken, got %v", err)
	}

	// With the shim disabled the token form is refused outright.
	svc.LegacyTokens = false
	tok2, _ := svc.IssueLegacySession(u.ID)
	if _, err := svc.Authenticate(tok2); !errors.Is(err, ErrBadToken) {
		t.Fatalf("legacy disabled: expected ErrBadToken, got %v", err)
	}
}
