package token

import "time"

// PermissionService emite y valida permission tokens: tokens de elevación de
// vida muy corta (minutos) cuyas claims son el set de permisos efectivo del
// caller. Permiten re-afirmar autorización en endpoints sensibles sin volver
// a consultar el permission store.
type PermissionService struct {
	codec     *Codec
	ttl       time.Duration
	notBefore time.Duration
}

// NewPermissionService construye el servicio. ttl típico: pocos minutos.
func NewPermissionService(codec *Codec, ttl, notBefore time.Duration) *PermissionService {
	return &PermissionService{codec: codec, ttl: ttl, notBefore: notBefore}
}

// Create emite un permission token.
func (s *PermissionService) Create(p PermissionPayload) (string, error) {
	return s.codec.Encode(p, s.ttl, s.notBefore)
}

// Validate indica si el token es válido. Nunca retorna error.
func (s *PermissionService) Validate(raw string) bool {
	var p PermissionPayload
	return s.codec.Decode(raw, &p) == nil
}

// DecodePayload valida el token y retorna sus claims.
func (s *PermissionService) DecodePayload(raw string) (*PermissionPayload, error) {
	var p PermissionPayload
	if err := s.codec.Decode(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// TTL expone la expiración configurada.
func (s *PermissionService) TTL() time.Duration { return s.ttl }
