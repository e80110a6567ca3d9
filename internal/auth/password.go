// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and verification, session-bound
// identity and the admin role check.
package auth

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

// legacyPBKDF2Iterations is used for legacy hashes that omit the iteration count.
const legacyPBKDF2Iterations = 260000

// minKeyLen is the shortest derived key either verifier accepts.
const minKeyLen = 16

// NeedsRehash checks whether an encoded hash uses a different algorithm or
// different parameters than the current defaults.
func NeedsRehash(encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return true
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return true
	}

	return memory != Argon2Memory || timeCost != Argon2Time || threads != Argon2Threads
}

// HashArgon2 creates an Argon2id hash of the input string.
// Returns encoded hash in format: $argon2id$v=19$m=19456,t=2,p=1$salt$hash
func HashArgon2(input string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(input), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(key)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Threads, b64Salt, b64Hash), nil
}

// VerifyArgon2 verifies an input string against an Argon2id hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifyArgon2(input, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, fmt.Errorf("unsupported hash type: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parsing version: %w", err)
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false, fmt.Errorf("parsing parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	if memory == 0 || timeCost == 0 || threads == 0 {
		return false, fmt.Errorf("invalid parameters: m=%d,t=%d,p=%d", memory, timeCost, threads)
	}
	if len(salt) == 0 || len(expectedHash) < minKeyLen {
		return false, fmt.Errorf("invalid hash format")
	}

	key := argon2.IDKey([]byte(input), salt, timeCost, memory, threads, uint32(len(expectedHash)))
	return subtle.ConstantTimeCompare(key, expectedHash) == 1, nil
}

// VerifyPBKDF2 verifies an input string against a Werkzeug-style PBKDF2 hash
// in the format pbkdf2:<digest>[:<iterations>]$<salt>$<hex hash>. Accounts
// migrated from older deployments carry hashes in this format.
func VerifyPBKDF2(input, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 3 {
		return false, fmt.Errorf("invalid hash format")
	}

	method := strings.Split(parts[0], ":")
	if len(method) < 2 || len(method) > 3 || method[0] != "pbkdf2" {
		return false, fmt.Errorf("unsupported hash type: %s", parts[0])
	}

	var digest func() hash.Hash
	switch method[1] {
	case "sha1":
		digest = sha1.New
	case "sha256":
		digest = sha256.New
	case "sha512":
		digest = sha512.New
	default:
		return false, fmt.Errorf("unsupported digest: %s", method[1])
	}

	iterations := legacyPBKDF2Iterations
	if len(method) == 3 {
		n, err := strconv.Atoi(method[2])
		if err != nil || n <= 0 {
			return false, fmt.Errorf("parsing iterations: %q", method[2])
		}
		iterations = n
	}

	expectedHash, err := hex.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}
	if parts[1] == "" || len(expectedHash) < minKeyLen {
		return false, fmt.Errorf("invalid hash format")
	}

	key := pbkdf2.Key([]byte(input), []byte(parts[1]), iterations, len(expectedHash), digest)
	return subtle.ConstantTimeCompare(key, expectedHash) == 1, nil
}

// HashPassword creates an Argon2id hash of the password.
func HashPassword(password string) (string, error) {
	return HashArgon2(password)
}

// CheckPassword verifies a password against an Argon2id or legacy PBKDF2 hash.
// A mismatch is reported as false with a nil error; only a malformed hash
// produces an error.
func CheckPassword(password, encodedHash string) (bool, error) {
	if strings.HasPrefix(encodedHash, "pbkdf2:") {
		return VerifyPBKDF2(password, encodedHash)
	}
	return VerifyArgon2(password, encodedHash)
}
