package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory  uint32 = 64 * 1024
	argonTime    uint32 = 2
	argonThreads uint8  = 1
	saltLength          = 16
	keyLength    uint32 = 32
)

// PlaceholderHash is a digest of a throwaway password. Login verifies against it
// when the identifier is unknown, so unknown users cost the same as wrong passwords.
var PlaceholderHash = func() string {
	h, err := HashPassword("placeholder-password")
	if err != nil {
		panic(err)
	}
	return h
}()

// HashPassword hashes the password with Argon2id and a fresh random salt.
// The salt and parameters are embedded in the returned digest.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLength)

	// $argon2id$v=19$m=65536,t=2,p=1$BASE64_SALT$BASE64_HASH
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, encodedSalt, encodedHash), nil
}

// VerifyPassword re-hashes the password with the parameters and salt embedded in
// the digest and compares in constant time.
func VerifyPassword(password, encoded string) bool {
	// Expected format: ["argon2id", "v=19", "m=65536,t=2,p=1", "salt", "hash"]
	sections := strings.Split(strings.TrimPrefix(encoded, "$"), "$")
	if len(sections) != 5 || sections[0] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(sections[1], "v=%d", &version); err != nil {
		return false
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, t, m, p, uint32(len(expected)))

	return subtle.ConstantTimeCompare(hash, expected) == 1
}
