// Package middleware adapts Engine access-token verification to net/http.
//
// [Guard] reads the Authorization bearer header, calls
// Engine.VerifyAccessToken, and injects the validated claims into the request
// context, where handlers retrieve them with [ClaimsFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — the pass/reject decision belongs
// entirely to the Engine.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly.
//   - Distinguish failure causes in the response: every rejection is a plain
//     401.
package middleware
