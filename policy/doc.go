// Package policy implements the password-strength rule engine.
//
// # Rules
//
// Ten rules are evaluated on every call, in a fixed order, without
// short-circuiting. Each failing rule contributes one violation name to the
// result, so callers always see the full, deterministic set:
//
//	too_short, too_long, no_uppercase, no_lowercase, no_digit, no_special,
//	has_whitespace, too_common, repeated_chars, sequential_digits
//
// A password is valid iff the violation list is empty.
//
// # Architecture boundaries
//
// This package is a pure predicate. [Validate] performs no I/O, holds no
// state, and is safe for unbounded concurrent use.
//
// # What this package must NOT do
//
//   - Hash, store, or log passwords.
//   - Import any other authcore package.
package policy
