package token

import (
	"errors"
	"testing"
	"time"
)

func newServiceCodec(t *testing.T, clock *fixedClock) *Codec {
	t.Helper()
	c, err := NewCodec(CodecOptions{Secret: []byte("ks"), Clock: clock.Now})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestAccessService_RoundTrip(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1700000000, 0)}
	s := NewAccessService(newServiceCodec(t, clock), 15*time.Minute, 0)

	raw, err := s.Create(samplePayload())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !s.Validate(raw) {
		t.Fatalf("fresh token should validate")
	}

	got, err := s.DecodePayload(raw)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if got.SubjectID != "u1" {
		t.Fatalf("claims mismatch: %+v", got)
	}
	if s.TTL() != 15*time.Minute {
		t.Fatalf("TTL accessor: %v", s.TTL())
	}
}

func TestRefreshService_RememberExtendsTTL(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1700000000, 0)}
	s := NewRefreshService(newServiceCodec(t, clock), 24*time.Hour, 72*time.Hour, 0)

	payload := RefreshPayload{SubjectID: "u1", LoginFrom: LoginFromCredential, LoginAt: clock.now.Unix()}

	short, err := s.Create(payload, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	long, err := s.Create(payload, true)
	if err != nil {
		t.Fatalf("Create remember: %v", err)
	}

	// Pasadas 48h: el corto expiró, el remember sigue vivo.
	clock.now = clock.now.Add(48 * time.Hour)
	if _, err := s.DecodePayload(short); !errors.Is(err, ErrExpired) {
		t.Fatalf("short refresh should be expired, got %v", err)
	}
	got, err := s.DecodePayload(long)
	if err != nil {
		t.Fatalf("remember refresh should survive: %v", err)
	}
	if got.SubjectID != "u1" {
		t.Fatalf("claims mismatch: %+v", got)
	}

	clock.now = clock.now.Add(25 * time.Hour)
	if _, err := s.DecodePayload(long); !errors.Is(err, ErrExpired) {
		t.Fatalf("remember refresh should expire at 72h, got %v", err)
	}
}

func TestRefreshService_ClaimsAreMinimal(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1700000000, 0)}
	s := NewRefreshService(newServiceCodec(t, clock), 24*time.Hour, 72*time.Hour, 0)

	raw, err := s.Create(RefreshPayload{SubjectID: "u1", LoginFrom: LoginFromGoogle, LoginAt: 123}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.DecodePayload(raw)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if got.SubjectID != "u1" || got.LoginFrom != LoginFromGoogle || got.LoginAt != 123 {
		t.Fatalf("claims mismatch: %+v", got)
	}
}

func TestPermissionService_ShortLived(t *testing.T) {
	clock := &fixedClock{now: time.Unix(1700000000, 0)}
	s := NewPermissionService(newServiceCodec(t, clock), 5*time.Minute, 0)

	raw, err := s.Create(PermissionPayload{
		SubjectID:   "u1",
		Permissions: []PermissionGrant{{Subject: "order", Action: "4"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !s.Validate(raw) {
		t.Fatalf("fresh permission token should validate")
	}

	clock.now = clock.now.Add(6 * time.Minute)
	if s.Validate(raw) {
		t.Fatalf("permission token should expire after its short TTL")
	}
	if _, err := s.DecodePayload(raw); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}
