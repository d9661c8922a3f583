package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// Argon2KeyLen - длина выходного ключа в байтах
	Argon2KeyLen = 32
)

// signingContext отделяет ключ подписи сессий от любых других ключей из того же секрета
const signingContext = "todoist/session-signing/v1"

// SessionSalt returns the fixed salt of the session signing key.
// Client and server derive the key independently, so the salt cannot be random.
func SessionSalt() []byte {
	sum := sha256.Sum256([]byte(signingContext))
	return sum[:]
}

// DeriveSigningKey derives the HS256 key for session tokens from the shared secret
func DeriveSigningKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret cannot be empty")
	}

	input := append([]byte(secret), signingContext...)
	return argon2.IDKey(input, SessionSalt(), Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen), nil
}
