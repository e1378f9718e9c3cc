package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 12

// PasswordHasher wraps the one-way salted password hash primitive.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the fixed work factor.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcryptCost}
}

// Hash derives a salted digest from the plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is not an
// error, it is simply false.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
