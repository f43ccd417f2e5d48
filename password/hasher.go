package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Algorithm selects the digest format produced by [Hasher.Hash].
type Algorithm string

const (
	// AlgorithmBcrypt produces modular-crypt bcrypt digests.
	AlgorithmBcrypt Algorithm = "bcrypt"
	// AlgorithmArgon2id produces PHC-format argon2id digests.
	AlgorithmArgon2id Algorithm = "argon2id"
)

const (
	argon2ID = "argon2id"

	// bcrypt silently ignores nothing: inputs over 72 bytes are an error.
	bcryptMaxInput = 72

	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

// ErrUnknownDigest is returned by Verify and NeedsRehash when a stored digest
// matches neither supported format.
var ErrUnknownDigest = errors.New("unrecognized digest format")

// Config selects the hashing algorithm and its cost parameters. Bcrypt fields
// and argon2 fields are independent; only the configured Algorithm's
// parameters are validated and used for new digests.
type Config struct {
	Algorithm  Algorithm
	BcryptCost int

	Memory      uint32 // argon2id, in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultConfig returns bcrypt at cost 12 with argon2id parameters
// pre-filled, so switching Algorithm is a one-field change.
func DefaultConfig() Config {
	return Config{
		Algorithm:   AlgorithmBcrypt,
		BcryptCost:  12,
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher hashes and verifies credentials. It is immutable after construction
// and safe for concurrent use.
type Hasher struct {
	config Config
}

// NewHasher validates cfg for the configured algorithm and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	switch cfg.Algorithm {
	case AlgorithmBcrypt:
		if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
	case AlgorithmArgon2id:
		if cfg.Memory < minMemoryKB {
			return nil, errors.New("argon2 memory must be >= 8192 KB")
		}
		if cfg.Time < minTimeCost {
			return nil, errors.New("argon2 time must be >= 1")
		}
		if cfg.Parallelism < minParallelism {
			return nil, errors.New("argon2 parallelism must be >= 1")
		}
		if cfg.SaltLength < minSaltLength {
			return nil, errors.New("argon2 salt length must be >= 16")
		}
		if cfg.KeyLength < minKeyLength {
			return nil, errors.New("argon2 key length must be >= 16")
		}
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", cfg.Algorithm)
	}

	return &Hasher{config: cfg}, nil
}

// Hash returns a salted, self-describing digest of password in the configured
// algorithm. Two calls with the same password produce different digests; both
// verify.
func (h *Hasher) Hash(password string) (string, error) {
	// Raw string bytes, no Unicode normalization.
	switch h.config.Algorithm {
	case AlgorithmArgon2id:
		return h.hashArgon2id(password)
	default:
		digest, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.config.BcryptCost)
		if err != nil {
			return "", err
		}
		return string(digest), nil
	}
}

// bcryptInput maps a password onto bcrypt's 72-byte input limit. Passwords
// within the limit pass through untouched, so digests imported from other
// bcrypt implementations keep verifying. Longer passwords are pre-hashed
// with SHA-256 and base64-encoded before bcrypt sees them, so every length
// the caller accepts hashes and verifies instead of erroring at 73 bytes.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}

// Verify reports whether password matches digest. Dispatch is by digest
// prefix, independent of the configured algorithm, so digests hashed under a
// prior configuration remain verifiable. A malformed digest is an error, not
// a mismatch.
func (h *Hasher) Verify(password, digest string) (bool, error) {
	switch {
	case isBcryptDigest(digest):
		err := bcrypt.CompareHashAndPassword([]byte(digest), bcryptInput(password))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	case strings.HasPrefix(digest, "$"+argon2ID+"$"):
		return verifyArgon2id(password, digest)
	default:
		return false, ErrUnknownDigest
	}
}

// NeedsRehash reports whether digest was produced by a different algorithm or
// with weaker parameters than the current configuration. Callers typically
// check it after a successful Verify and re-hash on the spot.
func (h *Hasher) NeedsRehash(digest string) (bool, error) {
	switch {
	case isBcryptDigest(digest):
		if h.config.Algorithm != AlgorithmBcrypt {
			return true, nil
		}
		cost, err := bcrypt.Cost([]byte(digest))
		if err != nil {
			return false, err
		}
		return cost < h.config.BcryptCost, nil
	case strings.HasPrefix(digest, "$"+argon2ID+"$"):
		if h.config.Algorithm != AlgorithmArgon2id {
			return true, nil
		}
		params, err := parseArgon2Digest(digest)
		if err != nil {
			return false, err
		}
		if h.config.Memory > params.memory || h.config.Time > params.time {
			return true, nil
		}
		if h.config.Parallelism > params.parallelism {
			return true, nil
		}
		return h.config.KeyLength != uint32(len(params.hash)), nil
	default:
		return false, ErrUnknownDigest
	}
}

func isBcryptDigest(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func (h *Hasher) hashArgon2id(password string) (string, error) {
	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2ID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2id(password, digest string) (bool, error) {
	params, err := parseArgon2Digest(digest)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		params.salt,
		params.time,
		params.memory,
		params.parallelism,
		uint32(len(params.hash)),
	)

	return subtle.ConstantTimeCompare(computed, params.hash) == 1, nil
}

type argon2Params struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

// parseArgon2Digest decodes a PHC argon2id string of the form
// $argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>.
func parseArgon2Digest(digest string) (*argon2Params, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2ID {
		return nil, errors.New("invalid argon2 digest")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("missing argon2 version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	var params argon2Params
	seen := map[string]bool{}
	for _, pair := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || seen[key] {
			return nil, errors.New("invalid argon2 parameters")
		}
		seen[key] = true

		switch key {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minMemoryKB {
				return nil, errors.New("invalid argon2 memory parameter")
			}
			params.memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || uint32(v) < minTimeCost {
				return nil, errors.New("invalid argon2 time parameter")
			}
			params.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || uint8(v) < minParallelism {
				return nil, errors.New("invalid argon2 parallelism parameter")
			}
			params.parallelism = uint8(v)
		default:
			return nil, errors.New("unsupported argon2 parameter")
		}
	}
	if !seen["m"] || !seen["t"] || !seen["p"] {
		return nil, errors.New("missing argon2 parameters")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil || uint32(len(salt)) < minSaltLength {
		return nil, errors.New("invalid argon2 salt")
	}
	params.salt = salt

	hash, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, errors.New("invalid argon2 hash")
	}
	params.hash = hash

	return &params, nil
}
