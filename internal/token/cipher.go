package token

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	cbcKeyLength = 32 // 32 bytes => AES-256
	cbcIVLength  = aes.BlockSize
)

// payloadCipher cifra/descifra el cuerpo de claims antes de firmar.
// La estrategia se elige UNA vez al construir el codec: o todos los tokens
// del deployment van cifrados, o ninguno. No hay modo mixto.
type payloadCipher interface {
	Encrypt(plain []byte) (string, error)
	Decrypt(enc string) ([]byte, error)
}

// cbcCipher implementa AES-256-CBC con clave e IV fijos de configuración.
type cbcCipher struct {
	key []byte
	iv  []byte
}

// newCBCCipher valida clave/IV y retorna el cipher.
func newCBCCipher(key, iv []byte) (*cbcCipher, error) {
	if len(key) != cbcKeyLength {
		return nil, fmt.Errorf("clave de cifrado inválida: %d bytes (requiere %d)", len(key), cbcKeyLength)
	}
	if len(iv) != cbcIVLength {
		return nil, fmt.Errorf("IV inválido: %d bytes (requiere %d)", len(iv), cbcIVLength)
	}
	return &cbcCipher{key: key, iv: iv}, nil
}

func (c *cbcCipher) Encrypt(plain []byte) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	padded := pkcs7Pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *cbcCipher) Decrypt(enc string) ([]byte, error) {
	ct, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext no alineado a bloque")
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(out, ct)
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, errors.New("padding inválido")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, errors.New("padding inválido")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("padding inválido")
		}
	}
	return b[:len(b)-n], nil
}
