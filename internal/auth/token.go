// Package auth mints and verifies the bearer credentials attached to every
// /quiz request. It is stateless; each Authenticate call is independent.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"campus-quiz-service/internal/domain"
)

// Claims is the decoded identity claim carried by a verified credential.
type Claims struct {
	jwt.RegisteredClaims
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role,omitempty"`
}

// AccountID is the subject id the credential was issued for.
func (c Claims) AccountID() string {
	return c.Subject
}

// Gate issues and verifies HS256-signed tokens with a fixed validity window.
type Gate struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewGate(secret string, ttl time.Duration) *Gate {
	return &Gate{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "campus-quiz-service",
		now:    time.Now,
	}
}

// NewGateWithClock is test-only for deterministic expiry.
func NewGateWithClock(secret string, ttl time.Duration, now func() time.Time) *Gate {
	g := NewGate(secret, ttl)
	g.now = now
	return g
}

// Issue signs a token for the account. Validity is time-boxed by the gate's TTL.
func (g *Gate) Issue(acct domain.Account) (string, error) {
	now := g.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		Name:  acct.Name,
		Email: acct.Email,
		Role:  acct.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// TTL reports the validity window tokens are issued with.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// Authenticate checks a raw Authorization header value and returns the decoded
// claims. The header must be exactly "Bearer <token>": a missing header fails
// with ErrMissingCredential, a different scheme with ErrMalformedCredential,
// and a token that does not verify with ErrInvalidCredential.
func (g *Gate) Authenticate(headerValue string) (Claims, error) {
	if headerValue == "" {
		return Claims{}, domain.ErrMissingCredential
	}
	scheme, raw, found := strings.Cut(headerValue, " ")
	if !found || scheme != "Bearer" {
		return Claims{}, domain.ErrMalformedCredential
	}

	// Claims are validated below against the gate's clock, not the parser's.
	claims := Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidCredential
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return Claims{}, domain.ErrInvalidCredential
	}
	if !claims.VerifyExpiresAt(g.now(), true) {
		return Claims{}, domain.ErrInvalidCredential
	}
	return claims, nil
}
