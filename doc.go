// Package authcore provides a pluggable authentication engine: credential
// verification, password hashing, and signed access/refresh token lifecycle
// management, with persistence delegated to an externally supplied user
// store.
//
// The package is designed for concurrent server workloads: [Engine] methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. The engine itself holds no mutable state between calls —
// every durable fact lives behind the [UserStore] interface.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// collaborator interfaces ([UserStore], [ResetTokenResolver], [AuditSink]),
// and value types. Password hashing, strength policy, and token signing live
// in the password, policy, and token sub-packages; the middleware sub-package
// adapts [Engine.VerifyAccessToken] to net/http.
//
// # What this package must NOT do
//
//   - Implement user or refresh-token storage (the caller supplies a
//     [UserStore]).
//   - Deliver password-reset tokens (the caller supplies a
//     [ResetTokenResolver]).
//   - Touch transport concerns — headers, cookies, status codes — outside of
//     the middleware sub-package.
//   - Log or retain plaintext credentials or signing secrets.
//
// # Error contract
//
// Every failure surfaces as a typed sentinel error (ErrDuplicateEmail,
// ErrInvalidCredentials, ...) or a [WeakPasswordError]. Login and
// RequestPasswordReset deliberately collapse "no such user" and "wrong
// credential" into one outward signal; the internal distinction is preserved
// on the audit stream only.
package authcore
