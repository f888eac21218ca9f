package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/validator"
)

// authService handles registration and login, and holds the session of the
// acting user.
type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	log    *zap.SugaredLogger

	mu      sync.RWMutex
	current *auth.Session
}

// NewAuthService creates a new AuthServicer. It starts with no session.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer) AuthServicer {
	return &authService{
		users:  users,
		tokens: tokens,
		log:    logger.Named("auth"),
	}
}

// Register creates a new user. It does not log the user in.
func (s *authService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}
	email = strings.TrimSpace(email)
	if err := validator.Var("email", email, "omitempty,email"); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: password,
		Email:    email,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infow("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and, on success, makes the new session the
// current one. Any failure leaves no session behind.
func (s *authService) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	key := auth.NewCredentialKey(username, password)
	if !key.Valid() {
		s.setCurrent(nil)
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, key)
	if err != nil {
		s.setCurrent(nil)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.log.Infow("login rejected", "username", key.Username)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	sess, err := s.tokens.Issue(user)
	if err != nil {
		s.setCurrent(nil)
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}

	s.setCurrent(sess)
	s.log.Infow("user logged in", "user_id", user.ID, "session_id", sess.ID)
	return sess, nil
}

// Logout discards the current session, if any.
func (s *authService) Logout() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		s.log.Infow("user logged out", "user_id", prev.UserID(), "session_id", prev.ID)
	}
}

// CurrentUser returns a copy of the acting user.
func (s *authService) CurrentUser() (*models.User, bool) {
	sess := s.CurrentSession()
	if sess == nil {
		return nil, false
	}
	user := sess.User
	return &user, true
}

// CurrentSession returns the current session, or nil when nobody is logged
// in. An expired session is reported as nil.
func (s *authService) CurrentSession() *auth.Session {
	s.mu.RLock()
	sess := s.current
	s.mu.RUnlock()

	if _, err := auth.OwnerID(sess); err != nil {
		return nil
	}
	return sess
}

// ResumeSession restores the session carried by a token issued by an
// earlier Login and makes it current.
func (s *authService) ResumeSession(ctx context.Context, token string) (*auth.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err)
	}

	user, err := s.users.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "session user no longer exists")
		}
		return nil, err
	}
	if user.Username != claims.Username {
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "session does not match user")
	}

	sess := s.tokens.Restore(claims, user, token)
	s.setCurrent(sess)
	s.log.Infow("session resumed", "user_id", user.ID, "session_id", sess.ID)
	return sess, nil
}

func (s *authService) setCurrent(sess *auth.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}
