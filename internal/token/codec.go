package token

import (
	"encoding/json"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Errores tipados del codec. El guard chain los mapea a errores HTTP;
// este paquete no conoce HTTP.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrNotYetValid      = errors.New("token not yet valid")
)

// encClaim es la claim que transporta el cuerpo cifrado cuando el modo
// de cifrado está activo.
const encClaim = "enc"

// CodecOptions configura un codec para un tipo de token.
type CodecOptions struct {
	// Secret es la clave simétrica HS256. Cada tipo de token (access,
	// refresh, permission) usa un secreto independiente: un refresh secret
	// filtrado no permite forjar access tokens.
	Secret   []byte
	Issuer   string
	Audience string

	// Encrypt activa AES-256-CBC sobre el cuerpo de claims ANTES de firmar.
	// Se decide una vez al arranque: no coexisten tokens cifrados y planos.
	Encrypt       bool
	EncryptionKey []byte
	EncryptionIV  []byte

	// Clock permite inyectar el reloj en tests. Default: time.Now.
	Clock func() time.Time
}

// Codec codifica/decodifica un payload de claims en un JWT HS256.
// Es stateless y seguro para uso concurrente ilimitado.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	cipher   payloadCipher // nil => claims planas
	now      func() time.Time
}

// NewCodec construye un codec. Falla si el secreto está vacío o si el modo
// cifrado está activo con clave/IV inválidos.
func NewCodec(opts CodecOptions) (*Codec, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("secret requerido")
	}
	c := &Codec{
		secret:   opts.Secret,
		issuer:   opts.Issuer,
		audience: opts.Audience,
		now:      opts.Clock,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Encrypt {
		cc, err := newCBCCipher(opts.EncryptionKey, opts.EncryptionIV)
		if err != nil {
			return nil, err
		}
		c.cipher = cc
	}
	return c, nil
}

// Encode firma el payload con expiración ttl y validez desde now+notBefore.
// En modo cifrado, el payload viaja como ciphertext bajo la claim "enc";
// las claims registradas (exp/nbf/iss/aud) quedan en claro para que la
// validación temporal no requiera descifrar.
func (c *Codec) Encode(payload any, ttl, notBefore time.Duration) (string, error) {
	now := c.now().UTC()

	claims := jwtv5.MapClaims{
		"iat": now.Unix(),
		"nbf": now.Add(notBefore).Unix(),
		"exp": now.Add(ttl).Unix(),
		"jti": uuid.NewString(),
	}
	if c.issuer != "" {
		claims["iss"] = c.issuer
	}
	if c.audience != "" {
		claims["aud"] = c.audience
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	if c.cipher != nil {
		enc, err := c.cipher.Encrypt(body)
		if err != nil {
			return "", err
		}
		claims[encClaim] = enc
	} else {
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return "", err
		}
		for k, v := range fields {
			if _, reserved := claims[k]; reserved {
				continue
			}
			claims[k] = v
		}
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return tk.SignedString(c.secret)
}

// Decode verifica firma y ventana temporal, y deserializa el payload en out.
// Orden fail-closed: la firma se verifica ANTES de intentar descifrar, de
// modo que un ciphertext adulterado se rechaza sin descifrarlo jamás.
func (c *Codec) Decode(raw string, out any) error {
	popts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		popts = append(popts, jwtv5.WithIssuer(c.issuer))
	}
	if c.audience != "" {
		popts = append(popts, jwtv5.WithAudience(c.audience))
	}

	mc := jwtv5.MapClaims{}
	_, err := jwtv5.NewParser(popts...).ParseWithClaims(raw, mc, func(t *jwtv5.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return mapParseError(err)
	}

	if c.cipher != nil {
		enc, ok := mc[encClaim].(string)
		if !ok || enc == "" {
			// Token plano en deployment cifrado: se rechaza, no hay modo mixto.
			return ErrMalformed
		}
		body, err := c.cipher.Decrypt(enc)
		if err != nil {
			return ErrMalformed
		}
		if err := json.Unmarshal(body, out); err != nil {
			return ErrMalformed
		}
		return nil
	}

	if _, hasEnc := mc[encClaim]; hasEnc {
		// Token cifrado en deployment plano.
		return ErrMalformed
	}
	body, err := json.Marshal(map[string]any(mc))
	if err != nil {
		return ErrMalformed
	}
	if err := json.Unmarshal(body, out); err != nil {
		return ErrMalformed
	}
	return nil
}

// mapParseError traduce los errores de jwt/v5 a los errores tipados del codec.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwtv5.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	default:
		// Malformado, issuer/audience incorrecto, claims no parseables, etc.
		return ErrMalformed
	}
}
