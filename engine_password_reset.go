package authcore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"time"

	"github.com/linkbay/authcore/policy"
)

const resetTokenBytes = 32

// RequestPasswordReset starts a reset flow for email. It returns nil whether
// or not the email exists, so the response cannot be used to probe for
// accounts; only the audit stream records which case occurred. When the user
// exists, an opaque token is generated and handed to the configured
// [ResetTokenResolver], which owns persistence and delivery.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if e.resetResolver == nil {
		return ErrResetNotConfigured
	}

	user, err := e.userStore.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", nil, func() map[string]string {
			return map[string]string{"reason": "unknown_email"}
		})
		return nil
	}

	resetToken, err := newResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(e.config.Reset.TokenTTL)
	if err := e.resetResolver.Issue(ctx, user.ID, resetToken, expiresAt); err != nil {
		return err
	}

	e.metricInc(MetricResetRequested)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, user.ID, nil, nil)

	return nil
}

// ConfirmPasswordReset validates newPassword against the policy before
// touching the token, resolves the token to a user through the external
// resolver, stores the new hash, and revokes every outstanding refresh token
// for that user.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if e.resetResolver == nil {
		return ErrResetNotConfigured
	}

	if res := policy.Validate(newPassword); !res.Valid {
		e.metricInc(MetricResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", ErrWeakPassword, nil)
		return &WeakPasswordError{Violations: res.Violations}
	}

	userID, err := e.resetResolver.Resolve(ctx, resetToken)
	if err != nil || userID == "" {
		e.metricInc(MetricResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", ErrTokenInvalid, nil)
		return ErrTokenInvalid
	}

	user, err := e.userStore.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		e.metricInc(MetricResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, userID, ErrUserNotFound, nil)
		return ErrUserNotFound
	}

	digest, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := e.userStore.UpdateUserPassword(ctx, user.Email, digest); err != nil {
		return err
	}

	// A reset usually means the old credential is suspect: drop every live
	// session.
	if err := e.userStore.RevokeAllUserTokens(ctx, user.ID); err != nil {
		return err
	}

	e.metricInc(MetricResetConfirmed)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, user.ID, nil, nil)

	return nil
}

func newResetToken() (string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
