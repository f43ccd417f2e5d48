package authcore

import (
	"context"
	"time"
)

// StoredUser is the account record owned by the external [UserStore]. The
// Engine reads it within a single call and holds no copy afterwards.
type StoredUser struct {
	ID           string
	Email        string
	PasswordHash string
}

// RefreshTokenRecord is the durable refresh-token state owned by the external
// [UserStore]. A non-revoked, non-expired record maps to exactly one active
// session; a record past ExpiresAt is invalid regardless of Revoked.
type RefreshTokenRecord struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
}

// TokenPair is returned by Register, Login, and Refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserStore is the interface callers must implement to integrate authcore
// with their user database. Lookup methods return (nil, nil) when the record
// is absent; errors are reserved for backend failures. The store is expected
// to provide at-least atomic per-record read/write — the Engine adds no
// locking of its own.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*StoredUser, error)
	GetUserByID(ctx context.Context, id string) (*StoredUser, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*StoredUser, error)
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error
	SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshTokenRecord, error)
	RevokeRefreshToken(ctx context.Context, token string) (bool, error)
	RevokeAllUserTokens(ctx context.Context, userID string) error
}

// ResetTokenResolver is the external collaborator that persists and resolves
// password-reset tokens. Issue receives the opaque token the Engine generated
// together with its expiry; delivery to the user (email, SMS) is the
// resolver's responsibility. Resolve returns the user ID a token was issued
// for, or an error when the token is unknown, expired, or already used.
type ResetTokenResolver interface {
	Issue(ctx context.Context, userID, token string, expiresAt time.Time) error
	Resolve(ctx context.Context, token string) (string, error)
}
