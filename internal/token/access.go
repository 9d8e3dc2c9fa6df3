package token

import "time"

// AccessService emite y valida access tokens de vida corta (minutos) que
// transportan identidad + claims de permisos.
type AccessService struct {
	codec     *Codec
	ttl       time.Duration
	notBefore time.Duration
}

// NewAccessService construye el servicio. ttl típico: minutos.
func NewAccessService(codec *Codec, ttl, notBefore time.Duration) *AccessService {
	return &AccessService{codec: codec, ttl: ttl, notBefore: notBefore}
}

// Create emite un access token. Función pura de (payload, secreto, reloj):
// no tiene efectos secundarios ni persiste nada.
func (s *AccessService) Create(p AccessPayload) (string, error) {
	return s.codec.Encode(p, s.ttl, s.notBefore)
}

// Validate indica si el token es válido. Nunca retorna error: se usa como
// pre-check en guards donde solo interesa el veredicto.
func (s *AccessService) Validate(raw string) bool {
	var p AccessPayload
	return s.codec.Decode(raw, &p) == nil
}

// DecodePayload valida el token y retorna sus claims, con error tipado del
// codec en caso de falla. Usar cuando las claims se necesitan de verdad.
func (s *AccessService) DecodePayload(raw string) (*AccessPayload, error) {
	var p AccessPayload
	if err := s.codec.Decode(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// TTL expone la expiración configurada (para responses de login).
func (s *AccessService) TTL() time.Duration { return s.ttl }
