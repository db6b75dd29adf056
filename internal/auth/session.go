package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionPayload is the legacy wire shape. Field names match the cookies
// already in circulation, so they must not change.
type sessionPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// LegacyCodec encodes the identity triple as unsigned base64 JSON. Anyone
// who can write the cookie value can forge a session under this scheme; it
// exists only for compatibility with cookies issued before signing was
// introduced. New deployments should use SignedCodec.
type LegacyCodec struct{}

func NewLegacyCodec() *LegacyCodec {
	return &LegacyCodec{}
}

func (c *LegacyCodec) Issue(userID, email, roleName string) (string, error) {
	if userID == "" || email == "" {
		return "", ErrInvalidToken
	}
	payload, err := json.Marshal(sessionPayload{UserID: userID, Email: email, Role: roleName})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

func (c *LegacyCodec) Validate(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrInvalidToken
	}
	if payload.UserID == "" || payload.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: payload.UserID, Email: payload.Email, RoleName: payload.Role}, nil
}

// SessionClaims carries the identity triple inside a signed token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignedCodec issues HS256-signed session tokens with an embedded expiry.
// Validation verifies the signature and expiry rather than merely decoding
// the structure, which makes the cookie tamper-evident.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewSignedCodec(secret string, ttl time.Duration) (*SignedCodec, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret too short: %d bytes", len(secret))
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SignedCodec{secret: []byte(secret), ttl: ttl}, nil
}

func (c *SignedCodec) Issue(userID, email, roleName string) (string, error) {
	if userID == "" || email == "" {
		return "", ErrInvalidToken
	}
	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *SignedCodec) Validate(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email, RoleName: claims.Role}, nil
}

// MigratingCodec issues with the signed codec but accepts legacy cookies
// during a migration window. A legacy token only passes if it looks like
// base64 JSON, so signed tokens never fall through to the weaker path.
type MigratingCodec struct {
	signed *SignedCodec
	legacy *LegacyCodec
}

func NewMigratingCodec(signed *SignedCodec) *MigratingCodec {
	return &MigratingCodec{signed: signed, legacy: NewLegacyCodec()}
}

func (c *MigratingCodec) Issue(userID, email, roleName string) (string, error) {
	return c.signed.Issue(userID, email, roleName)
}

func (c *MigratingCodec) Validate(token string) (*Identity, error) {
	if id, err := c.signed.Validate(token); err == nil {
		return id, nil
	} else if errors.Is(err, ErrTokenExpired) {
		return nil, err
	}
	// JWTs contain two dots; legacy payloads never do.
	if strings.Count(token, ".") == 2 {
		return nil, ErrInvalidToken
	}
	return c.legacy.Validate(token)
}
