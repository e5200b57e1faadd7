package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
		DelayFactor: 2.0,
	}
}

func retryAll(error) Classification {
	return Classification{Retryable: true, RecordFailure: true}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	e := NewExecutor(fastPolicy())

	calls := 0
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, retryAll)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestExecuteStopsOnNonRetryable(t *testing.T) {
	e := NewExecutor(fastPolicy())

	calls := 0
	permanent := errors.New("bad request")
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return permanent
	}, func(error) Classification {
		return Classification{Retryable: false, RecordFailure: true}
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	e := NewExecutor(fastPolicy())

	calls := 0
	transient := errors.New("timeout")
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return transient
	}, retryAll)
	if !errors.Is(err, transient) {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	e := NewExecutor(fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := e.Execute(ctx, "op", func(context.Context) error {
		calls++
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	policy := fastPolicy()
	policy.MaxAttempts = 1
	policy.BreakerEnabled = true
	policy.BreakerMinRequests = 3
	policy.BreakerFailureRatio = 0.5
	policy.BreakerOpenFor = time.Minute
	policy.BreakerProbeCalls = 1
	e := NewExecutor(policy)

	boom := errors.New("provider down")
	for i := 0; i < 3; i++ {
		_ = e.Execute(context.Background(), "llm", func(context.Context) error {
			return boom
		}, retryAll)
	}

	err := e.Execute(context.Background(), "llm", func(context.Context) error {
		t.Fatal("call should be short-circuited")
		return nil
	}, retryAll)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestBreakerIsPerOperation(t *testing.T) {
	policy := fastPolicy()
	policy.MaxAttempts = 1
	policy.BreakerEnabled = true
	policy.BreakerMinRequests = 2
	policy.BreakerOpenFor = time.Minute
	e := NewExecutor(policy)

	boom := errors.New("down")
	for i := 0; i < 2; i++ {
		_ = e.Execute(context.Background(), "a", func(context.Context) error { return boom }, retryAll)
	}

	if err := e.Execute(context.Background(), "b", func(context.Context) error { return nil }, retryAll); err != nil {
		t.Fatalf("operation b affected by a's breaker: %v", err)
	}
}
