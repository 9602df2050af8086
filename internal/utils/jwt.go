package utils // package utils provides token and password helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meetspace/room-booking/internal/model"
)

// ErrInvalidToken is returned when a bearer token fails verification or
// carries malformed claims.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken signs an HS256 JWT for the user. The claims mirror the
// principal shape (id, role, email, name) plus exp and iat; tokens are
// time-boxed by ttl (8h by default).
func NewAccessToken(secret string, u model.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	name := ""
	if u.Name != nil {
		name = *u.Name
	}
	claims := jwt.MapClaims{
		"id":    u.ID,
		"role":  u.Role,
		"email": u.Email,
		"name":  name,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParsePrincipal verifies a bearer token and extracts the principal from
// its claims. Expired or otherwise invalid tokens yield ErrInvalidToken.
func ParsePrincipal(secret, raw string) (*model.Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return nil, ErrInvalidToken
	}
	p := &model.Principal{ID: uint64(id)}
	if v, ok := claims["role"].(string); ok {
		p.Role = v
	}
	if v, ok := claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		p.Name = v
	}
	return p, nil
}
