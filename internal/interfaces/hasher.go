package interfaces

// PasswordHasher hashes plaintext passwords and checks candidates against a stored hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false for any mismatch or malformed hash.
	Verify(plaintext, hashed string) bool
}
