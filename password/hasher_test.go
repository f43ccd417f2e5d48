package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func bcryptConfig() Config {
	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost // keep tests fast
	return cfg
}

func argon2Config() Config {
	cfg := DefaultConfig()
	cfg.Algorithm = AlgorithmArgon2id
	cfg.Memory = 8 * 1024
	cfg.Time = 1
	cfg.Parallelism = 1
	return cfg
}

func TestBcryptHashAndVerify(t *testing.T) {
	hasher, err := NewHasher(bcryptConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	digest, err := hasher.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("unexpected bcrypt prefix: %s", digest)
	}

	ok, err := hasher.Verify("Str0ng!Pass", digest)
	if err != nil || !ok {
		t.Fatalf("expected verification to succeed, ok=%v err=%v", ok, err)
	}

	ok, err = hasher.Verify("wrong-password", digest)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestBcryptLongPasswords(t *testing.T) {
	// bcrypt itself stops at 72 bytes; the hasher must round-trip every
	// length past that via SHA-256 pre-hashing.
	hasher, err := NewHasher(bcryptConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	for _, length := range []int{72, 73, 100, 128, 200} {
		password := "Ab1!" + strings.Repeat("x", length-4)

		digest, err := hasher.Hash(password)
		if err != nil {
			t.Fatalf("Hash error at length %d: %v", length, err)
		}

		ok, err := hasher.Verify(password, digest)
		if err != nil || !ok {
			t.Fatalf("expected length-%d password to verify, ok=%v err=%v", length, ok, err)
		}

		// A different long password must not match, even though both pass
		// through the same pre-hash.
		ok, err = hasher.Verify("Ab1!"+strings.Repeat("y", length-4), digest)
		if err != nil {
			t.Fatalf("Verify error at length %d: %v", length, err)
		}
		if ok {
			t.Fatalf("expected different length-%d password to fail", length)
		}
	}
}

func TestArgon2HashAndVerify(t *testing.T) {
	hasher, err := NewHasher(argon2Config())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	digest, err := hasher.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", digest)
	}

	ok, err := hasher.Verify("Str0ng!Pass", digest)
	if err != nil || !ok {
		t.Fatalf("expected verification to succeed, ok=%v err=%v", ok, err)
	}

	ok, err = hasher.Verify("wrong-password", digest)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	for name, cfg := range map[string]Config{"bcrypt": bcryptConfig(), "argon2id": argon2Config()} {
		t.Run(name, func(t *testing.T) {
			hasher, err := NewHasher(cfg)
			if err != nil {
				t.Fatalf("NewHasher error: %v", err)
			}

			first, err := hasher.Hash("same-Passw0rd!")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			second, err := hasher.Hash("same-Passw0rd!")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			if first == second {
				t.Fatal("expected salted digests to differ")
			}

			for _, digest := range []string{first, second} {
				ok, err := hasher.Verify("same-Passw0rd!", digest)
				if err != nil || !ok {
					t.Fatalf("expected both digests to verify, ok=%v err=%v", ok, err)
				}
			}
		})
	}
}

func TestVerifyIsAlgorithmAgnostic(t *testing.T) {
	// A hasher configured for argon2id must still verify bcrypt digests
	// produced under a prior configuration, and vice versa.
	bcryptHasher, err := NewHasher(bcryptConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	argonHasher, err := NewHasher(argon2Config())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	bcryptDigest, err := bcryptHasher.Hash("Cr0ss-Alg0!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	argonDigest, err := argonHasher.Hash("Cr0ss-Alg0!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := argonHasher.Verify("Cr0ss-Alg0!", bcryptDigest)
	if err != nil || !ok {
		t.Fatalf("argon2 hasher should verify bcrypt digest, ok=%v err=%v", ok, err)
	}
	ok, err = bcryptHasher.Verify("Cr0ss-Alg0!", argonDigest)
	if err != nil || !ok {
		t.Fatalf("bcrypt hasher should verify argon2 digest, ok=%v err=%v", ok, err)
	}
}

func TestNeedsRehash(t *testing.T) {
	bcryptHasher, err := NewHasher(bcryptConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	argonHasher, err := NewHasher(argon2Config())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	bcryptDigest, err := bcryptHasher.Hash("Rehash-m3!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	argonDigest, err := argonHasher.Hash("Rehash-m3!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	// Same algorithm, same parameters: no rehash.
	if needs, err := bcryptHasher.NeedsRehash(bcryptDigest); err != nil || needs {
		t.Fatalf("unexpected rehash signal, needs=%v err=%v", needs, err)
	}
	if needs, err := argonHasher.NeedsRehash(argonDigest); err != nil || needs {
		t.Fatalf("unexpected rehash signal, needs=%v err=%v", needs, err)
	}

	// Digest from the other algorithm always needs a rehash.
	if needs, err := argonHasher.NeedsRehash(bcryptDigest); err != nil || !needs {
		t.Fatalf("expected rehash for foreign algorithm, needs=%v err=%v", needs, err)
	}
	if needs, err := bcryptHasher.NeedsRehash(argonDigest); err != nil || !needs {
		t.Fatalf("expected rehash for foreign algorithm, needs=%v err=%v", needs, err)
	}

	// Weaker bcrypt cost than configured needs a rehash.
	strong := bcryptConfig()
	strong.BcryptCost = bcrypt.MinCost + 1
	strongHasher, err := NewHasher(strong)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	if needs, err := strongHasher.NeedsRehash(bcryptDigest); err != nil || !needs {
		t.Fatalf("expected rehash for weaker cost, needs=%v err=%v", needs, err)
	}

	// Stronger argon2 memory than stored needs a rehash.
	stronger := argon2Config()
	stronger.Memory = 16 * 1024
	strongerHasher, err := NewHasher(stronger)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	if needs, err := strongerHasher.NeedsRehash(argonDigest); err != nil || !needs {
		t.Fatalf("expected rehash for weaker memory, needs=%v err=%v", needs, err)
	}
}

func TestVerifyRejectsUnknownDigest(t *testing.T) {
	hasher, err := NewHasher(bcryptConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	for _, digest := range []string{"", "plaintext", "$md5$whatever", "$argon2i$v=19$m=8192,t=1,p=1$x$y"} {
		if _, err := hasher.Verify("anything", digest); err == nil {
			t.Fatalf("expected error for digest %q", digest)
		}
	}
}

func TestParseArgon2DigestRejectsMalformed(t *testing.T) {
	cases := []string{
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA", // missing hash segment
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2g",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2g",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2g",
		"$argon2id$v=19$m=8192,t=1,p=1,x=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2g",
		"$argon2id$v=19$m=8192,t=1,p=1$!!$aGFzaGhhc2g",
	}
	for _, digest := range cases {
		if _, err := parseArgon2Digest(digest); err == nil {
			t.Fatalf("expected parse error for %q", digest)
		}
	}
}

func TestNewHasherRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{Algorithm: "scrypt"},
		{Algorithm: AlgorithmBcrypt, BcryptCost: 99},
		{Algorithm: AlgorithmArgon2id, Memory: 1, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Algorithm: AlgorithmArgon2id, Memory: 8192, Time: 0, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		{Algorithm: AlgorithmArgon2id, Memory: 8192, Time: 1, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{Algorithm: AlgorithmArgon2id, Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 32},
		{Algorithm: AlgorithmArgon2id, Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8},
	}
	for _, cfg := range cases {
		if _, err := NewHasher(cfg); err == nil {
			t.Fatalf("expected config error for %+v", cfg)
		}
	}
}
