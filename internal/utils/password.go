package utils

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 12

func bcryptCost() int {
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil && cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			return cost
		}
	}
	return defaultBcryptCost
}

// HashPassword hashes a given password using bcrypt. The salt is generated
// per call, so two hashes of the same password differ. Cost comes from the
// BCRYPT_COST environment variable when set to a valid value.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost())
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
// A malformed hash yields false, never an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
