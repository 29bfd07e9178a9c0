package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"filesmanager/internal/common"
	"filesmanager/internal/server/models"
	"filesmanager/internal/server/repositories/repomanager"
	"filesmanager/internal/server/sessions"
)

// tokenBytes is the entropy of a session token; hex-encoded it is twice as
// many characters.
const tokenBytes = 32

// AuthService implements registration, token issue and revocation, and
// token resolution for the rest of the server.
type AuthService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	sessions   sessions.Cache
	sessionTTL time.Duration
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, cache sessions.Cache, ttl time.Duration) *AuthService {
	return &AuthService{db: db, repos: repos, sessions: cache, sessionTTL: ttl}
}

// Register creates an account. The email must be unused; the password is
// stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("missing email: %w", common.ErrorMissingParameter)
	}
	if password == "" {
		return nil, fmt.Errorf("missing password: %w", common.ErrorMissingParameter)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repos.Users(s.db).Create(ctx, &models.User{
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies a Basic auth payload (the part after "Basic ") and issues
// a session token bound to the account. Malformed payloads and wrong
// credentials are reported distinctly so the transport can map them to 401
// with different messages.
func (s *AuthService) Login(ctx context.Context, basicPayload string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(basicPayload)
	if err != nil {
		return "", fmt.Errorf("decoding credentials: %w", common.ErrorMalformedCredentials)
	}
	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" {
		return "", fmt.Errorf("splitting credentials: %w", common.ErrorMalformedCredentials)
	}

	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	if err := s.sessions.Set(ctx, token, user.ID, s.sessionTTL); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

// Logout revokes a session. Revoking an unknown or expired token reports
// common.ErrorUnauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.sessions.Get(ctx, token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}
	return s.sessions.Delete(ctx, token)
}

// ResolveUser maps a token to the owning user id, or
// common.ErrorUnauthorized when the token is missing, expired, or revoked.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}
	return userID, nil
}

// GetUser loads the account behind a resolved user id. A dangling id (user
// deleted after the session was issued) reads as an auth failure.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	return user, nil
}
