package auth

import (
	"time"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

// Session records who is acting. It is created by a successful login and is
// meant to be passed explicitly into owner-scoped service calls.
type Session struct {
	ID        string
	User      models.User
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Token is the signed form of the session, suitable for persisting on the
	// client side and later resuming.
	Token string
}

// UserID returns the acting user's id.
func (s *Session) UserID() uint {
	return s.User.ID
}

// Expired reports whether the session is past its expiry at now. A session
// without an expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// OwnerID returns the user id of an active session, or UNAUTHORIZED when the
// session is nil or expired.
func OwnerID(s *Session) (uint, error) {
	if s == nil {
		return 0, apperrors.ErrUnauthorized
	}
	if s.Expired(time.Now()) {
		return 0, apperrors.WithMessage(apperrors.ErrUnauthorized, "session has expired")
	}
	return s.UserID(), nil
}
