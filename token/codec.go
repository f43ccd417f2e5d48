package token

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates access tokens from refresh tokens inside the signed
// claims.
type Kind string

const (
	// KindAccess marks short-lived tokens proving identity for one request
	// window.
	KindAccess Kind = "access"
	// KindRefresh marks longer-lived tokens exchanged for new access tokens.
	KindRefresh Kind = "refresh"
)

// SigningMethod selects the signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs with a symmetric secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrInvalid is the single failure value returned by [Codec.Parse]. Expired,
// tampered, and malformed tokens are indistinguishable through it.
var ErrInvalid = errors.New("invalid token")

// Config holds the signing material and lifetimes, fixed for the process
// lifetime.
type Config struct {
	SigningMethod SigningMethod
	Secret        []byte // hs256
	PrivateKey    []byte // ed25519, raw or PEM
	PublicKey     []byte // ed25519, raw or PEM
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims is the decoded payload of a verified token.
type Claims struct {
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}

// Codec signs and verifies tokens. Immutable after construction, safe for
// concurrent use.
type Codec struct {
	config Config
}

// NewCodec validates cfg and returns a Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) == 0 {
			return nil, errors.New("hs256 requires a signing secret")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Codec{config: cfg}, nil
}

// IssueAccess signs an access token for userID with the configured access
// TTL.
func (c *Codec) IssueAccess(userID string) (string, error) {
	return c.issue(userID, KindAccess, c.config.AccessTTL)
}

// IssueRefresh signs a refresh token for userID with the configured refresh
// TTL.
func (c *Codec) IssueRefresh(userID string) (string, error) {
	return c.issue(userID, KindRefresh, c.config.RefreshTTL)
}

func (c *Codec) issue(userID string, kind Kind, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}

	now := time.Now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
			Issuer:    c.config.Issuer,
		},
	}

	signKey, err := c.signKey()
	if err != nil {
		return "", err
	}

	return jwt.NewWithClaims(c.method(), claims).SignedString(signKey)
}

// Parse verifies tokenStr and returns its claims. Any failure — bad
// signature, wrong algorithm, expiry, missing subject or kind — yields
// [ErrInvalid] with no further detail.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.verifyKey()
	})
	if err != nil {
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" {
		return nil, ErrInvalid
	}
	if claims.Kind != KindAccess && claims.Kind != KindRefresh {
		return nil, ErrInvalid
	}

	return claims, nil
}

func (c *Codec) method() jwt.SigningMethod {
	switch c.config.SigningMethod {
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (c *Codec) signKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodEd25519:
		return parseEdPrivateKey(c.config.PrivateKey)
	default:
		return c.config.Secret, nil
	}
}

func (c *Codec) verifyKey() (interface{}, error) {
	switch c.config.SigningMethod {
	case MethodEd25519:
		return parseEdPublicKey(c.config.PublicKey)
	default:
		return c.config.Secret, nil
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
