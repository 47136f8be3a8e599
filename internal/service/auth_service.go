package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"readingquest/internal/models"
	"readingquest/internal/repository"
	"readingquest/internal/security"
	"readingquest/internal/validation"
)

// welcomeTimeout bounds the welcome email so sign-up is never held up long
const welcomeTimeout = 10 * time.Second

// Login is a signed-in session and the token that proves it
type Login struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// AuthService handles accounts and sessions
type AuthService struct {
	userRepo        *repository.UserRepository
	tokens          *security.TokenIssuer
	email           *EmailService
	logger          *slog.Logger
	sessionDuration time.Duration
	now             func() time.Time
}

// NewAuthService creates a new auth service. email may be nil.
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer, email *EmailService, logger *slog.Logger, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		tokens:          tokens,
		email:           email,
		logger:          logger,
		sessionDuration: sessionDuration,
		now:             time.Now,
	}
}

// Register creates a password account and signs it in
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*Login, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, email, passwordHash, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", "user_id", user.ID)
	s.sendWelcome(ctx, user)

	return s.startSession(ctx, user)
}

func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeTimeout)
	defer cancel()
	if err := s.email.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		s.logger.Warn("welcome email failed", "user_id", user.ID, "err", err)
	}
}

// Login checks a password and creates a session
func (s *AuthService) Login(ctx context.Context, email, password string) (*Login, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

// OAuthLogin signs in with a provider identity. An unknown identity with a
// known email is linked to that account; otherwise a new account is created.
func (s *AuthService) OAuthLogin(ctx context.Context, provider, subject, email, name string) (*Login, error) {
	if provider == "" || subject == "" {
		return nil, errors.New("missing oauth provider information")
	}
	email = normalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByOAuth(ctx, provider, subject)
	if err != nil {
		return nil, err
	}

	if user == nil {
		existing, err := s.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		switch {
		case existing != nil && existing.OAuthProvider != "" && existing.OAuthProvider != provider:
			return nil, ErrEmailTaken
		case existing != nil:
			if err := s.userRepo.LinkOAuthProvider(ctx, existing.ID, provider, subject); err != nil {
				return nil, err
			}
			user = existing
		default:
			if name = strings.TrimSpace(name); name == "" {
				name, _, _ = strings.Cut(email, "@")
			}
			user, err = s.userRepo.CreateOAuthUser(ctx, email, name, provider, subject)
			if err != nil {
				return nil, err
			}
			s.logger.Info("account created", "user_id", user.ID, "provider", provider)
			s.sendWelcome(ctx, user)
		}
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*Login, error) {
	session, err := s.userRepo.CreateSession(ctx, user.ID, s.now().Add(s.sessionDuration))
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(security.SessionClaims{
		UserID:    user.ID,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &Login{User: user, Session: session, Token: token}, nil
}

// Authenticate turns a session token into an identity. The token must be
// valid and its session row must still exist.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if errors.Is(err, security.ErrTokenExpired) {
		return models.Guest, ErrSessionExpired
	}
	if err != nil {
		return models.Guest, ErrSessionNotFound
	}

	session, err := s.userRepo.GetSession(ctx, claims.SessionID)
	if err != nil {
		return models.Guest, err
	}
	if session == nil || session.UserID != claims.UserID {
		return models.Guest, ErrSessionNotFound
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.userRepo.DeleteSession(ctx, session.ID)
		return models.Guest, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return models.Guest, err
	}
	if user == nil {
		return models.Guest, ErrSessionNotFound
	}

	return models.Identity{
		UserID:        user.ID,
		SessionID:     session.ID,
		Email:         user.Email,
		Name:          user.Name,
		Authenticated: true,
	}, nil
}

// Logout deletes the session row so the token stops working
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.userRepo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	removed, err := s.userRepo.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", "count", removed)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
