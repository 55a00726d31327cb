package hasher

import (
	"fmt"
	"strings"

	"github.com/Stewz00/go-account-service/internal/interfaces"
)

// Supported algorithm names.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// Multi hashes with one configured algorithm and verifies any supported
// encoding, so accounts hashed before an algorithm switch can still log in.
type Multi struct {
	primary  interfaces.PasswordHasher
	bcrypt   *Bcrypt
	argon2id *Argon2id
}

var _ interfaces.PasswordHasher = (*Multi)(nil)

// New builds a Multi hasher that produces hashes with the named algorithm.
func New(algorithm string, bcryptCost int) (*Multi, error) {
	m := &Multi{
		bcrypt:   NewBcrypt(bcryptCost),
		argon2id: NewArgon2id(DefaultArgon2idParams),
	}

	switch strings.ToLower(algorithm) {
	case AlgorithmBcrypt, "":
		m.primary = m.bcrypt
	case AlgorithmArgon2id:
		m.primary = m.argon2id
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algorithm)
	}
	return m, nil
}

func (m *Multi) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *Multi) Verify(plaintext, hashed string) bool {
	switch {
	case isBcrypt(hashed):
		return m.bcrypt.Verify(plaintext, hashed)
	case strings.HasPrefix(hashed, argon2idPrefix):
		return m.argon2id.Verify(plaintext, hashed)
	default:
		return false
	}
}
