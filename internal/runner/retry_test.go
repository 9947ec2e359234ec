package runner

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryCall_SucceedsMidway(t *testing.T) {
	calls := 0
	v, err := retryCall(context.Background(), 5, time.Millisecond, "op", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("value = %d, want 42", v)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryCall_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := retryCall(context.Background(), 5, time.Millisecond, "op", func(context.Context) (int, error) {
		calls++
		return 0, boom
	})

	if calls != 6 {
		t.Errorf("calls = %d, want 6 (initial + 5 retries)", calls)
	}
	if !errors.Is(err, ErrCollaboratorUnavailable) {
		t.Errorf("error %v does not wrap ErrCollaboratorUnavailable", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error %v does not carry the last underlying error", err)
	}
}

func TestRetryCall_CancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retryCall(ctx, 10, 50*time.Millisecond, "op", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
