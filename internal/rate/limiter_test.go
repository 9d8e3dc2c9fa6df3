package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_BlocksAfterMax(t *testing.T) {
	l := NewMemoryLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "ip1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i)
		}
		if res.Remaining != int64(3-i) {
			t.Fatalf("hit %d: remaining=%d", i, res.Remaining)
		}
	}

	res, err := l.Allow(ctx, "ip1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Fatalf("hit 4 should be blocked")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("blocked result should carry RetryAfter, got %v", res.RetryAfter)
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Hour)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "ip1"); !res.Allowed {
		t.Fatalf("first hit for ip1 should pass")
	}
	if res, _ := l.Allow(ctx, "ip1"); res.Allowed {
		t.Fatalf("second hit for ip1 should block")
	}
	if res, _ := l.Allow(ctx, "ip2"); !res.Allowed {
		t.Fatalf("ip2 has its own window")
	}
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l := NewMemoryLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "ip1"); !res.Allowed {
		t.Fatalf("first hit should pass")
	}
	if res, _ := l.Allow(ctx, "ip1"); res.Allowed {
		t.Fatalf("second hit in window should block")
	}

	time.Sleep(60 * time.Millisecond)
	if res, _ := l.Allow(ctx, "ip1"); !res.Allowed {
		t.Fatalf("new window should allow again")
	}
}

func TestMemoryLimiter_SubSecondRetryAfter(t *testing.T) {
	l := NewMemoryLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "ip1"); !res.Allowed {
		t.Fatalf("first hit should pass")
	}
	res, err := l.Allow(ctx, "ip1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Fatalf("second hit in window should block")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > 50*time.Millisecond {
		t.Fatalf("RetryAfter should land within the window, got %v", res.RetryAfter)
	}
}
