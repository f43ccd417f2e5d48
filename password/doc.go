// Package password implements one-way credential hashing with self-describing
// digests.
//
// # Digest formats
//
// Two algorithms are supported. bcrypt digests use the modular crypt format
// emitted by golang.org/x/crypto/bcrypt:
//
//	$2a$<cost>$<salt+hash>
//
// argon2id digests use PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Hasher.Hash] always emits the configured algorithm. [Hasher.Verify] is
// algorithm-agnostic: it dispatches on the digest prefix, so digests produced
// under a previous configuration (different algorithm or parameters) keep
// verifying. [Hasher.NeedsRehash] reports when a digest is weaker than the
// current configuration so callers can re-hash on the next successful login.
//
// # Long passwords under bcrypt
//
// bcrypt refuses inputs over 72 bytes. Passwords longer than that are
// pre-hashed with SHA-256 and base64-encoded before bcrypt runs, on both
// Hash and Verify, so arbitrarily long passwords round-trip. Passwords of
// 72 bytes or fewer are fed to bcrypt unchanged, which keeps digests
// imported from other bcrypt implementations verifiable.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password strength policy
// lives in the policy package and is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive digests.
//   - Import any other authcore package.
//   - Log plaintext passwords or digest parameters at runtime.
package password
