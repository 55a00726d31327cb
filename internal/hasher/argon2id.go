package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Stewz00/go-account-service/internal/interfaces"
	"golang.org/x/crypto/argon2"
)

const argon2idPrefix = "$argon2id$"

// Argon2idParams are the tunables encoded into every argon2id hash.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams follows the RFC 9106 second recommended option.
var DefaultArgon2idParams = Argon2idParams{
	MemoryKiB:   64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2id hashes passwords into the PHC string format:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
type Argon2id struct {
	params Argon2idParams
}

var _ interfaces.PasswordHasher = (*Argon2id)(nil)

func NewArgon2id(params Argon2idParams) *Argon2id {
	return &Argon2id{params: params}
}

func (a *Argon2id) Hash(plaintext string) (string, error) {
	salt := make([]byte, a.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.params.Iterations, a.params.MemoryKiB, a.params.Parallelism, a.params.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.params.MemoryKiB,
		a.params.Iterations,
		a.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func (a *Argon2id) Verify(plaintext, hashed string) bool {
	params, salt, expected, ok := decodeArgon2id(hashed)
	if !ok || !withinBounds(params, a.params) {
		return false
	}

	key := argon2.IDKey([]byte(plaintext), salt, params.Iterations, params.MemoryKiB, params.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// withinBounds refuses hashes whose cost parameters far exceed our own.
func withinBounds(got, limits Argon2idParams) bool {
	return got.MemoryKiB <= limits.MemoryKiB*2 &&
		got.Iterations <= limits.Iterations*2 &&
		got.Parallelism <= limits.Parallelism*2 &&
		got.SaltLength >= 8 && got.SaltLength <= 64 &&
		got.KeyLength >= 16 && got.KeyLength <= 128
}

func decodeArgon2id(encoded string) (Argon2idParams, []byte, []byte, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2idParams{}, nil, nil, false
	}

	var p Argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Iterations, &p.Parallelism); err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	if p.MemoryKiB == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return Argon2idParams{}, nil, nil, false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, true
}
