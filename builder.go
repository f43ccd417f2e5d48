package authcore

import (
	"errors"

	"github.com/linkbay/authcore/password"
	"github.com/linkbay/authcore/token"
)

// Builder assembles an [Engine] from explicit collaborators. There is no
// ambient global engine: construct once, inject everywhere.
type Builder struct {
	config        Config
	userStore     UserStore
	resetResolver ResetTokenResolver
	auditSink     AuditSink

	built bool
}

// New returns a Builder pre-loaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningSecret sets the hs256 signing secret without replacing the rest
// of the configuration.
func (b *Builder) WithSigningSecret(secret []byte) *Builder {
	b.config.Token.Secret = cloneBytes(secret)
	return b
}

// WithUserStore sets the required external user store.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.userStore = store
	return b
}

// WithResetResolver sets the external password-reset collaborator. Optional:
// without it, the reset operations return [ErrResetNotConfigured].
func (b *Builder) WithResetResolver(resolver ResetTokenResolver) *Builder {
	b.resetResolver = resolver
	return b
}

// WithAuditSink sets the destination for async audit events and enables the
// audit dispatcher.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, constructs the hasher and token codec,
// and returns a ready Engine. A builder can be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.userStore == nil {
		return nil, errors.New("user store required")
	}

	hasher, err := password.NewHasher(password.Config{
		Algorithm:   password.Algorithm(cfg.Password.Algorithm),
		BcryptCost:  cfg.Password.BcryptCost,
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(token.Config{
		SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
		Secret:        cloneBytes(cfg.Token.Secret),
		PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:        cfg,
		userStore:     b.userStore,
		resetResolver: b.resetResolver,
		hasher:        hasher,
		codec:         codec,
		audit:         newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:       NewMetrics(cfg.Metrics),
	}

	b.built = true

	return engine, nil
}
