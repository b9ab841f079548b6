package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lithammer/shortuuid/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

var ErrNotFound = errors.New("session not found")

// Session is the authenticated user of one client. It is created when the
// user signs in and removed on logout; every remote call receives it
// explicitly.
type Session struct {
	ID        string             `json:"id"`
	UserID    primitive.ObjectID `json:"userId"`
	Token     string             `json:"token"`
	Role      Role               `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}

func New(userID primitive.ObjectID, token string, role Role, now time.Time) Session {
	if role == "" {
		role = RoleAttendee
	}

	return Session{
		ID:        shortuuid.New(),
		UserID:    userID,
		Token:     token,
		Role:      role,
		CreatedAt: now.UTC(),
	}
}

// ExpiresAt reads the exp claim of the bearer token without verifying the
// signature; verification is the Event Service's job. ok is false for opaque
// tokens and tokens without exp.
func (s Session) ExpiresAt() (exp time.Time, ok bool) {
	if s.Token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

// Usable is false when there is no token or the token's exp has passed.
func (s Session) Usable(now time.Time) bool {
	if s.Token == "" {
		return false
	}

	exp, ok := s.ExpiresAt()
	if !ok {
		return true
	}

	return now.Before(exp)
}

type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Alive reports whether the session with the given id can still serve
// requests. Lookup failures other than ErrNotFound count as alive so that a
// flaky store does not throw away views.
func Alive(store Store, now func() time.Time) func(ctx context.Context, id string) bool {
	return func(ctx context.Context, id string) bool {
		s, err := store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return false
		}
		if err != nil {
			return true
		}

		return s.Usable(now())
	}
}
