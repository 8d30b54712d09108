package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowsIndependentDomains(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://www.annualreports.com/Companies"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://example.com/report.pdf"); err != nil {
		t.Errorf("wait on a second domain failed: %v", err)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)

	start := time.Now()
	if err := limiter.WaitWithDelay(context.Background(), "https://example.com", 30*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected at least 30ms delay, got %v", elapsed)
	}
}

func TestLimiter_EnforcesRate(t *testing.T) {
	limiter := NewLimiter(20, 1) // 50ms between requests per domain.
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 requests at 20 rps should take >= 100ms, got %v", elapsed)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1) // Very slow refill.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Burst consumes the first token; the second wait must observe the
	// context deadline instead of blocking for ten seconds.
	_ = limiter.Wait(ctx, "https://example.com")
	if err := limiter.Wait(ctx, "https://example.com"); err == nil {
		t.Error("expected a context error")
	}
}
