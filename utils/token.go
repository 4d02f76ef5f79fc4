package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

var randRead = rand.Read

// csrf
func GenerateState() (string, error) {
	b := make([]byte, 16) // 128-bit
	if _, err := randRead(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateState checks the callback state against the one issued on redirect.
func ValidateState(expected, got string) bool {
	if len(got) != 22 || expected == "" {
		return false
	}
	if _, err := base64.RawURLEncoding.DecodeString(got); err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// RandomPasswordHash returns the hash of a password nobody knows. Users
// created through a provider get it so the column is never empty.
func RandomPasswordHash() (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	return HashPassword(base64.URLEncoding.EncodeToString(b))
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
