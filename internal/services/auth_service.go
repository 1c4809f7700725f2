package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"marketnest/internal/domain"
	"marketnest/internal/repos"
)

const (
	tokenIssuer = "marketnest"
	tokenTTL    = 30 * 24 * time.Hour
)

type AuthService struct {
	Users *repos.UserRepo

	Secret       string
	LegacyTokens bool

	// Identity-provider tokens: HS* verified with IdpSecret, RS*/ES*
	// verified against the provider's JWKS.
	IdpSecret string
	IdpIssuer string
	JWKS      *keyfunc.JWKS
}

func NewAuthService(users *repos.UserRepo, secret string, legacy bool, idpSecret, idpIssuer, jwksURL string) (*AuthService, error) {
	s := &AuthService{
		Users:        users,
		Secret:       secret,
		LegacyTokens: legacy,
		IdpSecret:    idpSecret,
		IdpIssuer:    idpIssuer,
	}
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}
		s.JWKS = jwks
	}
	return s, nil
}

func (s *AuthService) Register(username, email, password string) (*domain.User, string, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}
	if _, err := s.Users.ByUsername(username); err == nil {
		return nil, "", ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	hash := string(h)
	u, err := s.Users.Create(username, email, &hash, nil)
	if err != nil {
		return nil, "", err
	}
	token, err := s.issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if u.Hash == nil || bcrypt.CompareHashAndPassword([]byte(*u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	token, err := s.issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Logout invalidates a legacy session token. JWTs are stateless and simply
// expire, so logout with a JWT is a no-op on the server.
func (s *AuthService) Logout(token string) error {
	if strings.HasPrefix(token, "token_") {
		return s.Users.DeleteSession(token)
	}
	return nil
}

func (s *AuthService) issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.Secret))
}

// Authenticate resolves a bearer token of any supported form to a local user.
// All failure modes collapse to ErrBadToken.
func (s *AuthService) Authenticate(token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrBadToken
	}
	if strings.HasPrefix(token, "token_") {
		if !s.LegacyTokens {
			return nil, ErrBadToken
		}
		u, err := s.Users.SessionUser(token)
		if err != nil {
			return nil, ErrBadToken
		}
		return u, nil
	}

	parsed, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, s.keyFor)
	if err != nil || !parsed.Valid {
		return nil, ErrBadToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrBadToken
	}

	iss, _ := claims["iss"].(string)
	sub, _ := claims["sub"].(string)
	if iss == tokenIssuer {
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return nil, ErrBadToken
		}
		u, err := s.Users.ByID(id)
		if err != nil {
			return nil, ErrBadToken
		}
		return u, nil
	}

	if s.IdpIssuer != "" && iss != s.IdpIssuer {
		return nil, ErrBadToken
	}
	email, _ := claims["email"].(string)
	u, err := s.resolveExternal(sub, email)
	if err != nil {
		return nil, ErrBadToken
	}
	return u, nil
}

func (s *AuthService) keyFor(t *jwt.Token) (interface{}, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		claims, _ := t.Claims.(jwt.MapClaims)
		if iss, _ := claims["iss"].(string); iss == tokenIssuer {
			return []byte(s.Secret), nil
		}
		if s.IdpSecret == "" {
			return nil, errors.New("no shared secret configured for issuer")
		}
		return []byte(s.IdpSecret), nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
		if s.JWKS == nil {
			return nil, errors.New("jwks not configured")
		}
		return s.JWKS.Keyfunc(t)
	default:
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
}

// resolveExternal maps an identity-provider subject to a local user: by
// stored external id first, then by email (linking the external id), and
// finally by provisioning a fresh account.
func (s *AuthService) resolveExternal(externalID, email string) (*domain.User, error) {
	if externalID == "" {
		return nil, ErrBadToken
	}
	if u, err := s.Users.ByExternalID(externalID); err == nil {
		return u, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if email != "" {
		if u, err := s.Users.ByEmail(email); err == nil {
			if err := s.Users.LinkExternalID(u.ID, externalID); err != nil {
				return nil, err
			}
			return s.Users.ByID(u.ID)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	username := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		username = email[:i]
	}
	if username == "" {
		username = "user-" + shortID(externalID)
	}
	if _, err := s.Users.ByUsername(username); err == nil {
		username += "-" + shortID(externalID)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if email == "" {
		email = externalID + "@external.invalid"
	}
	return s.Users.Create(username, email, nil, &externalID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// IssueLegacySession creates a session-backed opaque token in the historical
// format. Kept for clients that have not migrated to JWTs.
func (s *AuthService) IssueLegacySession(userID int64) (string, error) {
	token := fmt.Sprintf("token_%s_%d", uuid.NewString(), userID)
	sess := &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(tokenTTL).UTC().Format("2006-01-02 15:04:05"),
	}
	if err := s.Users.CreateSession(sess); err != nil {
		return "", err
	}
	return token, nil
}
