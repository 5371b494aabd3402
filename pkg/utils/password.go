package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is used for staff account passwords
const DefaultBcryptCost = 12

// PasswordHasher hashes and checks passwords with bcrypt at a fixed cost
type PasswordHasher struct {
	Cost int
}

// Hash generates a bcrypt hash from a plain text password
func (h PasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Matches reports whether password hashes to hashedPassword
func (h PasswordHasher) Matches(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
