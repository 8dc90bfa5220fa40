// internal/scraper/retry_test.go
package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"oddscrawler/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewLoggerWithLevel(utils.ErrorLevel)
}

func testRetryPolicy(attempts int) (*RetryPolicy, *int) {
	policy := NewRetryPolicy(attempts, 20*time.Second, testLogger())
	sleeps := 0
	policy.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}
	return policy, &sleeps
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	policy, sleeps := testRetryPolicy(3)

	calls := 0
	err := policy.Do(context.Background(), "load page", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("net::ERR_CONNECTION_RESET")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if *sleeps != 2 {
		t.Errorf("expected 2 sleeps between attempts, got %d", *sleeps)
	}
}

func TestRetryStopsOnNonTransientError(t *testing.T) {
	policy, sleeps := testRetryPolicy(3)

	calls := 0
	err := policy.Do(context.Background(), "load page", func(ctx context.Context) error {
		calls++
		return errors.New("element not found")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for a non-transient error, got %d", calls)
	}
	if *sleeps != 0 {
		t.Errorf("expected no sleeps, got %d", *sleeps)
	}
	if errors.Is(err, ErrRetriesExhausted) {
		t.Error("non-transient failure should not report exhausted retries")
	}
}

func TestRetryExhaustion(t *testing.T) {
	policy, sleeps := testRetryPolicy(3)

	calls := 0
	err := policy.Do(context.Background(), "load page", func(ctx context.Context) error {
		calls++
		return errors.New("Navigation timeout of 30000 ms exceeded")
	})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if *sleeps != 2 {
		t.Errorf("expected 2 sleeps, got %d", *sleeps)
	}
}

func TestRetryStopsWhenContextCanceled(t *testing.T) {
	policy := NewRetryPolicy(3, 20*time.Second, testLogger())
	policy.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	calls := 0
	err := policy.Do(context.Background(), "load page", func(ctx context.Context) error {
		calls++
		return errors.New("net::ERR_CONNECTION_ABORTED")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before the canceled sleep, got %d", calls)
	}
}

func TestNewRetryPolicyClampsAttempts(t *testing.T) {
	policy := NewRetryPolicy(0, time.Second, testLogger())
	if policy.Attempts != 1 {
		t.Errorf("expected at least 1 attempt, got %d", policy.Attempts)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err       error
		transient bool
	}{
		{errors.New("net::ERR_NETWORK_CHANGED while loading"), true},
		{errors.New("Target closed"), true},
		{errors.New("TimeoutError: waiting failed"), true},
		{errors.New("element not interactable"), false},
		{nil, false},
	}
	for _, test := range tests {
		if got := IsTransient(test.err); got != test.transient {
			t.Errorf("IsTransient(%v) = %v, expected %v", test.err, got, test.transient)
		}
	}
}
