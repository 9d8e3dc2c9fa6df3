// Package cache provee una abstracción mínima de cache con backends
// memory (in-process) y redis (distribuido).
package cache

import "time"

// Cache define las operaciones que el resto del sistema necesita.
type Cache interface {
	// Get obtiene un valor. El segundo retorno indica existencia.
	Get(k string) ([]byte, bool)

	// Set guarda un valor con TTL. ttl <= 0 usa el default del backend.
	Set(k string, v []byte, ttl time.Duration)

	// Delete elimina una key. No falla si no existe.
	Delete(k string)
}
