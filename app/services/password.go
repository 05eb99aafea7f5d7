package services

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the platform has always used for stored hashes.
const bcryptCost = 12

// HashPassword derives a one-way hash from a plaintext password. Every code
// path that sets a password goes through here; there is no implicit
// dirty-tracking rehash.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
