package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Identity is the authenticated subject resolved from a valid session.
// RoleName is captured at issuance and is not re-fetched per request.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	RoleName string `json:"role"`
}

// SessionCodec turns an identity into an opaque cookie value and back.
type SessionCodec interface {
	Issue(userID, email, roleName string) (string, error)
	Validate(token string) (*Identity, error)
}

// RoleSource resolves a role name to its normalized permission set.
// A missing role must resolve to an empty set, never an allow.
type RoleSource interface {
	PermissionsForRole(ctx context.Context, roleName string) (PermissionSet, error)
}

// RepositoryAPI is the credential-store read contract used by the service.
type RepositoryAPI interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	RoleSource
}

// Credentials is the subset of the user record the login path needs.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
	RoleName     string
	IsActive     bool
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
	Logout(sessionToken string)
	HashPassword(password string) (string, error)
}

// Session is what a successful login produces: the identity, the opaque
// session token for the HTTP-only cookie, and the CSRF token for the
// client-readable cookie.
type Session struct {
	Identity  Identity
	Token     string
	CSRFToken string
	IssuedAt  time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrTokenExpired       = errors.New("session token expired")
	ErrRoleNotFound       = errors.New("role not found")
)

type ctxKey string

const (
	contextIdentityKey    ctxKey = "identity"
	contextSessionKey     ctxKey = "sessionToken"
	contextPermissionsKey ctxKey = "permissions"
)

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextIdentityKey).(*Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}

func sessionTokenFromContext(ctx context.Context) string {
	if tok, ok := ctx.Value(contextSessionKey).(string); ok {
		return tok
	}
	return ""
}

func contextWithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextSessionKey, token)
}

// permissionsFromContext returns the permission set resolved earlier in the
// same request, so chained gates do not re-fetch the role.
func permissionsFromContext(ctx context.Context) (PermissionSet, bool) {
	set, ok := ctx.Value(contextPermissionsKey).(PermissionSet)
	return set, ok
}

func contextWithPermissions(ctx context.Context, set PermissionSet) context.Context {
	return context.WithValue(ctx, contextPermissionsKey, set)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
