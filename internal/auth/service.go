package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 100
	minPasswordLength = 6
)

// AdminStore is the persistence the service needs.
type AdminStore interface {
	CreateFirst(ctx context.Context, admin *entities.Admin) error
	GetByUsername(ctx context.Context, username string) (*entities.Admin, error)
}

// Credentials is a login or registration request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks length limits on both fields.
func (c Credentials) Validate() error {
	if n := len([]rune(c.Username)); n < minUsernameLength || n > maxUsernameLength {
		return apperr.Validation("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}
	if len([]rune(c.Password)) < minPasswordLength {
		return apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Identity  `json:"user"`
}

// Service handles admin authentication.
type Service struct {
	admins   AdminStore
	tokens   *Tokens
	attempts AttemptStore
	logger   *zap.Logger
}

// NewService creates a new authentication service. attempts may be nil to
// disable login rate limiting.
func NewService(admins AdminStore, tokens *Tokens, attempts AttemptStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{admins: admins, tokens: tokens, attempts: attempts, logger: logger}
}

// Login checks credentials and issues a token. clientIP scopes the failed
// attempt counter.
func (s *Service) Login(ctx context.Context, creds Credentials, clientIP string) (*LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	key := attemptKey(clientIP, creds.Username)
	if s.attempts != nil {
		allowed, retryAfter, err := s.attempts.Allow(ctx, key)
		if err != nil {
			// A broken limiter must not lock the admin out.
			s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, &LockoutError{RetryAfter: retryAfter}
		}
	}

	admin, err := s.admins.GetByUsername(ctx, creds.Username)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return nil, err
		}
		return nil, s.failed(ctx, key)
	}

	if err := CheckPassword(creds.Password, admin.PasswordHash); err != nil {
		if !errors.Is(err, ErrInvalidPassword) {
			s.logger.Error("stored password hash is unreadable", zap.String("username", admin.Username), zap.Error(err))
		}
		return nil, s.failed(ctx, key)
	}

	if s.attempts != nil {
		if err := s.attempts.RecordSuccess(ctx, key); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	identity := Identity{ID: admin.ID, Username: admin.Username}
	token, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: identity}, nil
}

func (s *Service) failed(ctx context.Context, key string) error {
	if s.attempts != nil {
		if _, _, err := s.attempts.RecordFailure(ctx, key); err != nil {
			s.logger.Warn("failed to record login attempt", zap.Error(err))
		}
	}
	return apperr.InvalidCredentials()
}

// RegisterFirstAdmin creates the admin account. It fails with Conflict once
// any admin exists.
func (s *Service) RegisterFirstAdmin(ctx context.Context, creds Credentials) (*entities.Admin, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	admin := &entities.Admin{Username: creds.Username, PasswordHash: hash}
	if err := s.admins.CreateFirst(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// VerifyRequest extracts the identity from an Authorization header value.
func (s *Service) VerifyRequest(header string) (Identity, error) {
	if header == "" {
		return Identity{}, apperr.Unauthorized()
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return Identity{}, apperr.Unauthorized()
	}
	return s.tokens.Verify(strings.TrimSpace(token))
}
