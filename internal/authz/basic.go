package authz

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
)

// BasicGuard valida llamadas service-to-service contra credenciales de
// cliente configuradas. El servidor deriva su propio token esperado como
// base64(clientId:clientSecret) y lo compara con el header del caller.
// Independiente de los guards JWT.
type BasicGuard struct {
	// expected es sha256(base64(clientId:clientSecret)); comparar hashes de
	// largo fijo mantiene la comparación de forma constante.
	expected [sha256.Size]byte
}

// NewBasicGuard deriva el token esperado a partir de las credenciales.
func NewBasicGuard(clientID, clientSecret string) *BasicGuard {
	derived := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
	return &BasicGuard{expected: sha256.Sum256([]byte(derived))}
}

// Validate compara el valor del header Authorization contra el token
// derivado. authorization es el header completo ("Basic <token>").
func (g *BasicGuard) Validate(authorization string) error {
	ah := strings.TrimSpace(authorization)
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "basic ") {
		return httperrors.ErrBasicTokenMissing
	}
	provided := strings.TrimSpace(ah[len("Basic "):])
	got := sha256.Sum256([]byte(provided))
	if subtle.ConstantTimeCompare(got[:], g.expected[:]) != 1 {
		return httperrors.ErrBasicTokenInvalid
	}
	return nil
}

// Require retorna un middleware que exige credenciales Basic válidas.
func (g *BasicGuard) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Validate(r.Header.Get("Authorization")); err != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="api"`)
				httperrors.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
