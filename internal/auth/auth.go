package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "scamwatch"

// TokenTTL is the fixed lifetime of every issued token.
const TokenTTL = time.Hour

// Role is the access level carried inside a token. The model is flat:
// admin is not a superset of tenant, endpoints that accept both say so.
type Role string

const (
	RoleTenant Role = "tenant"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a stored or transmitted role value.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleTenant:
		return RoleTenant, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("auth: unknown role %q", raw)
}

// Principal is the authenticated identity attached to a request after a token
// decodes successfully. It lives for exactly one request and is never persisted.
type Principal struct {
	Subject  string
	Role     Role
	TenantID int
}

// Claims is the claim schema shared by both services. Keeping it in one place
// is deliberate: the identity and reports services verify the same wire
// contract instead of each re-declaring claim names informally.
type Claims struct {
	Role     Role `json:"role"`
	TenantID int  `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-lifetime HS256 secret.
// The secret is fixed at construction; there is no mutable global.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a Codec from the shared signing secret.
func NewCodec(secret string) (*Codec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the time source. Only intended for tests.
func (c *Codec) WithClock(fn func() time.Time) *Codec {
	if fn != nil {
		c.now = fn
	}
	return c
}

// Issue signs a token for the given subject. The subject is stored uppercase
// so lookups stay case-insensitive across services. tenantID may be zero for
// principals that are not bound to a tenant row.
func (c *Codec) Issue(subject string, role Role, tenantID int) (string, error) {
	subject = strings.ToUpper(strings.TrimSpace(subject))
	if subject == "" {
		return "", errors.New("auth: subject is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return "", err
	}
	now := c.now().UTC()
	claims := Claims{
		Role:     role,
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and returns the principal it carries. Failures
// are classified so logs can tell a forged token from a stale one, but every
// failure means "no principal".
func (c *Codec) Decode(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignature
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }))
	if err != nil {
		return Principal{}, classifyTokenError(err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Principal{}, ErrTokenMalformed
	}
	if err := validateClaims(claims); err != nil {
		return Principal{}, err
	}
	return Principal{
		Subject:  claims.Subject,
		Role:     claims.Role,
		TenantID: claims.TenantID,
	}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}

func validateClaims(claims *Claims) error {
	if claims.Issuer != issuer {
		return ErrTokenMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ErrTokenMalformed
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return ErrTokenMalformed
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return ErrTokenMalformed
	}
	if _, err := ParseRole(string(claims.Role)); err != nil {
		return ErrTokenMalformed
	}
	return nil
}
