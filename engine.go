package authcore

import (
	"context"
	"time"

	"github.com/linkbay/authcore/password"
	"github.com/linkbay/authcore/policy"
	"github.com/linkbay/authcore/token"
)

// Engine orchestrates the password hasher, token codec, and external user
// store into the register/login/refresh/logout flows. It is stateless and
// reentrant: construction through [Builder.Build] is the only mutation, and
// every method may be called concurrently afterwards.
type Engine struct {
	config        Config
	userStore     UserStore
	resetResolver ResetTokenResolver
	hasher        *password.Hasher
	codec         *token.Codec
	audit         *auditDispatcher
	metrics       *Metrics
}

// Close flushes and stops the audit dispatcher. The Engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil && e.userStore != nil && e.hasher != nil && e.codec != nil
}

// Register creates an account and logs it in: the password is checked against
// the policy, hashed, stored through the user store, and a fresh token pair
// is issued and persisted.
func (e *Engine) Register(ctx context.Context, email, plaintext string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	// The duplicate check comes first: a taken email is reported as taken no
	// matter what password was sent with it.
	existing, err := e.userStore.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegister, false, existing.ID, ErrDuplicateEmail, nil)
		return nil, ErrDuplicateEmail
	}

	if res := policy.Validate(plaintext); !res.Valid {
		e.metricInc(MetricRegisterWeakPassword)
		e.emitAudit(ctx, auditEventRegister, false, "", ErrWeakPassword, func() map[string]string {
			return map[string]string{"email": email}
		})
		return nil, &WeakPasswordError{Violations: res.Violations}
	}

	digest, err := e.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user, err := e.userStore.CreateUser(ctx, email, digest)
	if err != nil {
		return nil, err
	}

	pair, err := e.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegister, true, user.ID, nil, nil)

	return pair, nil
}

// Login authenticates the credential and issues a fresh token pair. Unknown
// email and wrong password both return [ErrInvalidCredentials] with identical
// shape; the distinction survives only as audit metadata.
func (e *Engine) Login(ctx context.Context, email, plaintext string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	user, err := e.userStore.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLogin, false, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"reason": "unknown_email"}
		})
		return nil, ErrInvalidCredentials
	}

	ok, err := e.hasher.Verify(plaintext, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLogin, false, user.ID, ErrInvalidCredentials, func() map[string]string {
			if err != nil {
				return map[string]string{"reason": "digest_error"}
			}
			return map[string]string{"reason": "password_mismatch"}
		})
		return nil, ErrInvalidCredentials
	}

	pair, err := e.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLogin, true, user.ID, nil, nil)

	return pair, nil
}

// Refresh exchanges a valid, persisted refresh token for a new access token.
// The refresh token itself is returned unchanged: this engine does not rotate
// refresh tokens on use, so a captured refresh token stays live until it is
// revoked or expires. Revocation via [Engine.Logout] or [Engine.LogoutAll] is
// the countermeasure.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.codec.Parse(refreshToken)
	if err != nil || claims.Kind != token.KindRefresh {
		e.metricInc(MetricRefreshInvalid)
		e.emitAudit(ctx, auditEventRefresh, false, "", ErrTokenInvalid, nil)
		return nil, ErrTokenInvalid
	}

	record, err := e.userStore.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Revoked || time.Now().After(record.ExpiresAt) {
		e.metricInc(MetricRefreshNotFound)
		e.emitAudit(ctx, auditEventRefresh, false, claims.UserID(), ErrTokenNotFound, nil)
		return nil, ErrTokenNotFound
	}

	access, err := e.codec.IssueAccess(claims.UserID())
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefresh, true, claims.UserID(), nil, nil)

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Logout revokes exactly the matching refresh record. A token the store does
// not know — including one already revoked by a racing call — yields
// [ErrTokenNotFound]; callers must tolerate that under concurrency.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	revoked, err := e.userStore.RevokeRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if !revoked {
		e.metricInc(MetricLogoutNotFound)
		e.emitAudit(ctx, auditEventLogout, false, "", ErrTokenNotFound, nil)
		return ErrTokenNotFound
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", nil, nil)

	return nil
}

// LogoutAll revokes every refresh record owned by userID. Idempotent: zero
// existing records is a success.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if err := e.userStore.RevokeAllUserTokens(ctx, userID); err != nil {
		return err
	}

	e.metricInc(MetricLogoutAll)
	e.emitAudit(ctx, auditEventLogoutAll, true, userID, nil, nil)

	return nil
}

// VerifyAccessToken is the per-request authorization check for the request
// layer. A cryptographically valid refresh token presented here still fails:
// kind discrimination is enforced on top of codec validity, with the same
// [ErrTokenInvalid] either way.
func (e *Engine) VerifyAccessToken(_ context.Context, accessToken string) (*token.Claims, error) {
	if e == nil || e.codec == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.codec.Parse(accessToken)
	if err != nil || claims.Kind != token.KindAccess {
		e.metricInc(MetricValidateFailure)
		return nil, ErrTokenInvalid
	}

	e.metricInc(MetricValidateSuccess)
	return claims, nil
}

func (e *Engine) issuePair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := e.codec.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := e.codec.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(e.config.Token.RefreshTTL)
	if err := e.userStore.SaveRefreshToken(ctx, userID, refresh, expiresAt); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	opErr error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	e.audit.Emit(ctx, event)
}
