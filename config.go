package authcore

import (
	"errors"
	"time"

	"github.com/linkbay/authcore/password"
	"github.com/linkbay/authcore/token"
)

// Config is the construction-time configuration surface, fixed for the
// process lifetime.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Reset    ResetConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// TokenConfig holds signing material and token lifetimes.
type TokenConfig struct {
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte // hs256
	PrivateKey    []byte // ed25519, raw or PEM
	PublicKey     []byte // ed25519, raw or PEM
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// PasswordConfig selects the credential-hashing algorithm and its cost
// parameters.
type PasswordConfig struct {
	Algorithm  string // "bcrypt" (default) or "argon2id"
	BcryptCost int

	Memory      uint32 // argon2id, in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// ResetConfig controls password-reset token issuance.
type ResetConfig struct {
	TokenTTL time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the defaults: 15 minute access tokens, 30 day refresh
// tokens, 1 hour reset tokens, bcrypt hashing. The signing secret has no
// default and must be supplied.
func DefaultConfig() Config {
	pw := password.DefaultConfig()
	return Config{
		Token: TokenConfig{
			SigningMethod: string(token.MethodHS256),
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    30 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Algorithm:   string(pw.Algorithm),
			BcryptCost:  pw.BcryptCost,
			Memory:      pw.Memory,
			Time:        pw.Time,
			Parallelism: pw.Parallelism,
			SaltLength:  pw.SaltLength,
			KeyLength:   pw.KeyLength,
		},
		Reset: ResetConfig{
			TokenTTL: time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the parts of the configuration the root package owns.
// Sub-package constructors re-validate their own slices of it.
func (c Config) Validate() error {
	if c.Token.AccessTTL <= 0 {
		return errors.New("token access TTL must be positive")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("token refresh TTL must be positive")
	}
	if c.Token.RefreshTTL < c.Token.AccessTTL {
		return errors.New("refresh TTL must not be shorter than access TTL")
	}
	if c.Reset.TokenTTL <= 0 {
		return errors.New("reset token TTL must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = cloneBytes(cfg.Token.Secret)
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
