package session

import (
	"testing"
	"time"

	memcache "github.com/dropDatabas3/guardia/internal/cache/memory"
)

func TestRevocationStore(t *testing.T) {
	s := NewRevocationStore(memcache.New(time.Minute))

	if s.IsRevoked("tok-a") {
		t.Fatalf("fresh token should not be revoked")
	}

	s.Revoke("tok-a", time.Minute)
	if !s.IsRevoked("tok-a") {
		t.Fatalf("revoked token should report revoked")
	}
	if s.IsRevoked("tok-b") {
		t.Fatalf("other tokens unaffected")
	}
}

func TestRevocationStore_EntryExpires(t *testing.T) {
	s := NewRevocationStore(memcache.New(time.Minute))

	s.Revoke("tok-a", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if s.IsRevoked("tok-a") {
		t.Fatalf("revocation entry should expire with its TTL")
	}
}
