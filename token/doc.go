// Package token signs and verifies the compact, self-contained tokens issued
// by the Engine.
//
// # Claims
//
// Every token carries a subject (user ID), a kind discriminator ("access" or
// "refresh"), an expiry, an issued-at timestamp, and a unique jti. Expiry is
// compared against the current time with zero leeway.
//
// # Verification contract
//
// [Codec.Parse] either returns a fully decoded [Claims] or fails with
// [ErrInvalid]. Tampered signatures, expired tokens, malformed input, and
// algorithm confusion all collapse into the same error value so a caller can
// disclose nothing about why a token was rejected.
//
// # Architecture boundaries
//
// The codec reports kind and claims; it does not decide where a kind is
// acceptable. Kind discrimination (refresh token presented as access token
// and vice versa) is a business rule enforced by the Engine.
//
// # What this package must NOT do
//
//   - Persist or revoke tokens (the external user store owns refresh records).
//   - Import any other authcore package.
package token
