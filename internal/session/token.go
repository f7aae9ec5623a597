package session

import (
	"time"

	"retailpos/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// parseClaims reads the payload of a JWT without checking its signature. The
// till holds no key; the API verifies the token on every request.
func parseClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *tokenClaims) expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

func (c *tokenClaims) usable() bool {
	return c.Name != "" && c.Role.Valid()
}
