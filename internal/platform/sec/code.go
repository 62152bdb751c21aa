// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package sec

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Confirmation Codes

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/l) because
// the code is transcribed by a human from an email.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode produces a random confirmation code of the given length
// drawn from [codeAlphabet] using the OS entropy source.
func GenerateCode(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}

	for i, b := range buffer {
		buffer[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buffer), nil
}

// HashCode hashes a plain-text confirmation code using the bcrypt algorithm.
//
// Only the hash is persisted; the plain code exists in the notifier payload
// and nowhere else.
func HashCode(plainCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash confirmation code: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyCode compares a plain-text confirmation code with its stored hash
// in constant time.
func VerifyCode(plainCode, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainCode))
	return err == nil
}
