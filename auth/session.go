package auth

import (
	"time"

	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie carries the session token in browsers.
const SessionCookie = "gp_session"

type Claims struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

func (c *Claims) User() *User {
	return &User{
		ID:          c.Subject,
		DisplayName: c.Name,
		Email:       c.Email,
		PhotoURL:    c.Picture,
		Provider:    c.Provider,
	}
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Sessions) Issue(u *User) (string, *Claims, error) {
	issued := s.now()
	claims := &Claims{
		Name:     u.DisplayName,
		Email:    u.Email,
		Picture:  u.PhotoURL,
		Provider: u.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, errs.NewInternalErrorWithCause("sign session", err)
	}
	return token, claims, nil
}

func (s *Sessions) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, errs.NewInvalidTokenError()
	}
	return claims, nil
}
