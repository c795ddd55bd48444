package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost. Tests lower it to bcrypt.MinCost.
var BcryptCost = 12

// Excludes the ambiguous glyphs 0/O and 1/l/I
const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HashPassword hashes a plaintext password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

var (
	decoyOnce sync.Once
	decoyHash string
)

// DecoyHash returns a hash at BcryptCost that no password matches. Comparing against it
// costs the same as checking a real account, so a miss on the email takes as long as a wrong password.
func DecoyHash() string {
	decoyOnce.Do(func() {
		secret, err := GeneratePassword(32)
		if err != nil {
			secret = "decoy"
		}
		if hash, err := HashPassword(secret + "!"); err == nil {
			decoyHash = hash
		}
	})
	return decoyHash
}

// GeneratePassword returns a random password of the given length from a crypto source
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid password length %d", length)
	}

	limit := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
