package hasher

import (
	"errors"
	"strings"

	"github.com/Stewz00/go-account-service/internal/interfaces"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the cost factor used when none is configured.
const DefaultBcryptCost = 12

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// Bcrypt hashes passwords with bcrypt.
type Bcrypt struct {
	cost int
}

var _ interfaces.PasswordHasher = (*Bcrypt)(nil)

// NewBcrypt returns a bcrypt hasher. Costs outside bcrypt's accepted range fall back to DefaultBcryptCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hashed), nil
}

func (b *Bcrypt) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

// isBcrypt matches the $2a$, $2b$ and $2y$ prefixes.
func isBcrypt(hashed string) bool {
	return strings.HasPrefix(hashed, "$2a$") ||
		strings.HasPrefix(hashed, "$2b$") ||
		strings.HasPrefix(hashed, "$2y$")
}
