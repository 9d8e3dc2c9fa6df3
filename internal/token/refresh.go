package token

import "time"

// RefreshService emite y valida refresh tokens de vida larga (días), con una
// variante "remember me" aún más larga. Las claims de refresh son
// insuficientes por diseño para sintetizar un access token: el exchange
// refresh→access requiere re-consultar el permission store.
type RefreshService struct {
	codec       *Codec
	ttl         time.Duration
	rememberTTL time.Duration
	notBefore   time.Duration
}

// NewRefreshService construye el servicio. rememberTTL aplica cuando el
// usuario pidió sesión persistente.
func NewRefreshService(codec *Codec, ttl, rememberTTL, notBefore time.Duration) *RefreshService {
	return &RefreshService{codec: codec, ttl: ttl, rememberTTL: rememberTTL, notBefore: notBefore}
}

// Create emite un refresh token. remember selecciona el TTL largo.
func (s *RefreshService) Create(p RefreshPayload, remember bool) (string, error) {
	ttl := s.ttl
	if remember {
		ttl = s.rememberTTL
	}
	return s.codec.Encode(p, ttl, s.notBefore)
}

// Validate indica si el token es válido. Nunca retorna error.
func (s *RefreshService) Validate(raw string) bool {
	var p RefreshPayload
	return s.codec.Decode(raw, &p) == nil
}

// DecodePayload valida el token y retorna sus claims.
func (s *RefreshService) DecodePayload(raw string) (*RefreshPayload, error) {
	var p RefreshPayload
	if err := s.codec.Decode(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
