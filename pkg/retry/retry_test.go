package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_DelaysDoubleWithoutJitter(t *testing.T) {
	base := 60 * time.Millisecond
	var stamps []time.Time
	Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: base}, func() error {
		stamps = append(stamps, time.Now())
		return errors.New("flaky")
	})
	if len(stamps) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(stamps))
	}

	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])

	// First wait is the base delay, second is double it. The lower bounds
	// are exact because there is no jitter; the upper bounds allow for
	// scheduler latency.
	if first < base || first > base+40*time.Millisecond {
		t.Errorf("expected first delay ~%v, got %v", base, first)
	}
	if second < 2*base || second > 2*base+40*time.Millisecond {
		t.Errorf("expected second delay ~%v, got %v", 2*base, second)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error to surface, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("rejected")
	err := Do(context.Background(), Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}, func() error {
		calls++
		return Permanent(boom)
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt for permanent error, got %d", calls)
	}
}

func TestDo_ZeroAttemptsTreatedAsOne(t *testing.T) {
	calls := 0
	Do(context.Background(), Policy{MaxAttempts: 0, BaseDelay: time.Millisecond}, func() error {
		calls++
		return errors.New("boom")
	})
	if calls != 1 {
		t.Errorf("expected 1 attempt, got %d", calls)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond}, func() error {
		calls++
		cancel()
		return errors.New("flaky")
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls != 1 {
		t.Errorf("expected no retries after cancellation, got %d calls", calls)
	}
}

func TestDefaultPolicy(t *testing.T) {
	if Default.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", Default.MaxAttempts)
	}
	if Default.BaseDelay != 2*time.Second {
		t.Errorf("expected 2s base delay, got %v", Default.BaseDelay)
	}
}
