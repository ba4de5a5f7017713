// Package credential получает необратимый дайджест пароля с солью,
// уникальной для каждой учётной записи.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/GoArmGo/registro/internal/domain"
)

// SaltSize — длина соли в байтах; в hex это 32 символа.
const SaltSize = 16

// Credential — результат хеширования, оба поля в hex.
type Credential struct {
	Digest string
	Salt   string
}

// Hasher генерирует соль и считает SHA-256(пароль || соль).
type Hasher struct {
	random io.Reader
}

// NewHasher создаёт Hasher. Если random == nil, используется crypto/rand.
func NewHasher(random io.Reader) *Hasher {
	if random == nil {
		random = rand.Reader
	}
	return &Hasher{random: random}
}

// Hash генерирует новую соль и возвращает дайджест и соль.
// Если источник случайности недоступен, возвращает domain.ErrCryptoFailure.
func (h *Hasher) Hash(secret string) (Credential, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return Credential{}, fmt.Errorf("%w: read salt: %v", domain.ErrCryptoFailure, err)
	}

	return Credential{
		Digest: Digest(secret, salt),
		Salt:   hex.EncodeToString(salt),
	}, nil
}

// Digest — детерминированное ядро: hex(SHA-256(secret || salt)).
// Соль конкатенируется в байтах, а не в hex.
func Digest(secret string, salt []byte) string {
	buf := make([]byte, 0, len(secret)+len(salt))
	buf = append(buf, secret...)
	buf = append(buf, salt...)

	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// Verify сравнивает пароль с сохранёнными дайджестом и солью за постоянное время.
func Verify(secret string, stored Credential) (bool, error) {
	salt, err := hex.DecodeString(stored.Salt)
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	got := Digest(secret, salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(stored.Digest)) == 1, nil
}
