package hasher

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

var testArgon2idParams = Argon2idParams{
	MemoryKiB:   1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHashVerify(t *testing.T) {
	hashers := map[string]interface {
		Hash(string) (string, error)
		Verify(string, string) bool
	}{
		"bcrypt":   NewBcrypt(bcrypt.MinCost),
		"argon2id": NewArgon2id(testArgon2idParams),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			first, err := h.Hash("pw1")
			if err != nil {
				t.Fatalf("hash: %v", err)
			}
			second, err := h.Hash("pw1")
			if err != nil {
				t.Fatalf("hash: %v", err)
			}

			if first == "pw1" || strings.Contains(first, "pw1") {
				t.Errorf("hash %q leaks the plaintext", first)
			}
			if first == second {
				t.Error("expected salted hashes to differ")
			}
			if !h.Verify("pw1", first) || !h.Verify("pw1", second) {
				t.Error("expected verification of the original password to succeed")
			}
			if h.Verify("pw2", first) {
				t.Error("expected verification of a different password to fail")
			}
		})
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	tests := []struct {
		name   string
		hashed string
	}{
		{name: "empty", hashed: ""},
		{name: "plaintext", hashed: "pw1"},
		{name: "truncated bcrypt", hashed: "$2a$04$abc"},
		{name: "argon2id wrong field count", hashed: "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA"},
		{name: "argon2id bad version", hashed: "$argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5a2V5a2V5a2V5a2V5a2V5"},
		{name: "argon2id bad base64", hashed: "$argon2id$v=19$m=1024,t=1,p=1$!!!$!!!"},
		{name: "argon2id zero memory", hashed: "$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHRzYWx0$a2V5a2V5a2V5a2V5a2V5a2V5"},
	}

	m, err := New(AlgorithmBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b := NewBcrypt(bcrypt.MinCost)
	a := NewArgon2id(testArgon2idParams)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m.Verify("pw1", tt.hashed) || b.Verify("pw1", tt.hashed) || a.Verify("pw1", tt.hashed) {
				t.Errorf("expected malformed hash %q to fail verification", tt.hashed)
			}
		})
	}
}

func TestArgon2id_RejectsOversizedParams(t *testing.T) {
	big := NewArgon2id(Argon2idParams{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	hashed, err := big.Hash("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	small := NewArgon2id(testArgon2idParams)
	if small.Verify("pw1", hashed) {
		t.Error("expected hash with memory cost above the limit to be refused")
	}
}

func TestBcrypt_TooLong(t *testing.T) {
	_, err := NewBcrypt(bcrypt.MinCost).Hash(strings.Repeat("x", 73))
	if err != ErrPasswordTooLong {
		t.Errorf("got error %v, want %v", err, ErrPasswordTooLong)
	}
}

func TestNewBcrypt_CostFallback(t *testing.T) {
	if got := NewBcrypt(0).cost; got != DefaultBcryptCost {
		t.Errorf("got cost %d, want %d", got, DefaultBcryptCost)
	}
	if got := NewBcrypt(bcrypt.MaxCost + 1).cost; got != DefaultBcryptCost {
		t.Errorf("got cost %d, want %d", got, DefaultBcryptCost)
	}
}

func TestMulti(t *testing.T) {
	if _, err := New("md5", bcrypt.MinCost); err == nil {
		t.Error("expected error for unsupported algorithm")
	}

	bcryptFirst, err := New(AlgorithmBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	bcryptFirst.argon2id = NewArgon2id(testArgon2idParams)

	argonFirst, err := New(AlgorithmArgon2id, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	argonFirst.argon2id = NewArgon2id(testArgon2idParams)
	argonFirst.primary = argonFirst.argon2id

	fromBcrypt, err := bcryptFirst.Hash("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	fromArgon, err := argonFirst.Hash("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !strings.HasPrefix(fromBcrypt, "$2a$") {
		t.Errorf("expected bcrypt encoding, got %q", fromBcrypt)
	}
	if !strings.HasPrefix(fromArgon, argon2idPrefix) {
		t.Errorf("expected argon2id encoding, got %q", fromArgon)
	}

	// Either hasher verifies both encodings.
	for _, m := range []*Multi{bcryptFirst, argonFirst} {
		if !m.Verify("pw1", fromBcrypt) || !m.Verify("pw1", fromArgon) {
			t.Error("expected both encodings to verify")
		}
		if m.Verify("pw2", fromBcrypt) || m.Verify("pw2", fromArgon) {
			t.Error("expected wrong password to fail for both encodings")
		}
	}
}
