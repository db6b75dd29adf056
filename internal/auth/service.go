package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alhamla/campaign-office/pkg/logger"
)

// Service performs credential checks and session issuance.
type Service struct {
	repo       RepositoryAPI
	codec      SessionCodec
	csrf       *CSRFStore
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, codec SessionCodec, csrf *CSRFStore, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		codec:      codec,
		csrf:       csrf,
		bcryptCost: bcryptCost,
		logger:     logger.LoggerWrapper(),
	}
}

// Login validates credentials and mints a session plus its CSRF binding.
// Credential lookup failures and bad passwords are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.repo.GetCredentials(ctx, dto.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !creds.IsActive {
		return nil, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(creds.UserID, creds.Email, creds.RoleName)
	if err != nil {
		return nil, err
	}
	csrfToken, err := s.csrf.Issue(token)
	if err != nil {
		return nil, err
	}

	return &Session{
		Identity: Identity{
			UserID:   creds.UserID,
			Email:    creds.Email,
			RoleName: creds.RoleName,
		},
		Token:     token,
		CSRFToken: csrfToken,
		IssuedAt:  time.Now(),
	}, nil
}

// Logout revokes the CSRF binding for the session. The session token
// itself is stateless; clearing the client cookie is the handler's job,
// and a replayed stale cookie still decodes (accepted limitation of the
// stateless design).
func (s *Service) Logout(sessionToken string) {
	if sessionToken != "" {
		s.csrf.Revoke(sessionToken)
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
