// Package session trackea revocación de refresh tokens. El core de tokens
// es stateless; la revocación explícita (logout) vive acá, sobre el cache.
package session

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/dropDatabas3/guardia/internal/cache"
)

const keyPrefix = "revoked:"

// RevocationStore guarda hashes de refresh tokens revocados hasta que
// expiren solos. Nunca se persiste el token crudo.
type RevocationStore struct {
	cache cache.Cache
}

func NewRevocationStore(c cache.Cache) *RevocationStore {
	return &RevocationStore{cache: c}
}

// Revoke marca el token como revocado por ttl (el TTL restante del token;
// después de eso expira por sí mismo y la entrada sobra).
func (s *RevocationStore) Revoke(raw string, ttl time.Duration) {
	s.cache.Set(keyPrefix+hashToken(raw), []byte{1}, ttl)
}

// IsRevoked indica si el token fue revocado explícitamente.
func (s *RevocationStore) IsRevoked(raw string) bool {
	_, ok := s.cache.Get(keyPrefix + hashToken(raw))
	return ok
}

// hashToken devuelve sha256(token) en base64url sin padding.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
