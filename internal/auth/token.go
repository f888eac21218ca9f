package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

const tokenIssuer = "expensetracker"

// Claims represents the claims carried by a session token.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer creates sessions and signs them as HS256 tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. A zero ttl issues sessions that
// never expire.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue starts a new session for user.
func (i *TokenIssuer) Issue(user *models.User) (*Session, error) {
	now := i.now()
	sess := &Session{
		ID:       uuid.New(),
		User:     *user,
		IssuedAt: now,
	}
	// Never hand the credential hash out with the session.
	sess.User.Password = ""

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}
	if i.ttl > 0 {
		sess.ExpiresAt = now.Add(i.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(sess.ExpiresAt)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	sess.Token = token
	return sess, nil
}

// Parse validates a session token and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if !uuid.IsValid(claims.ID) {
		return nil, fmt.Errorf("invalid session token: malformed session id")
	}
	return claims, nil
}

// Restore rebuilds the session described by claims for a freshly loaded user.
func (i *TokenIssuer) Restore(claims *Claims, user *models.User, token string) *Session {
	sess := &Session{
		ID:    claims.ID,
		User:  *user,
		Token: token,
	}
	sess.User.Password = ""
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess
}
