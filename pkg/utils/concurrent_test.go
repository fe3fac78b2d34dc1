package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteRunsAllFunctions(t *testing.T) {
	var counter int64
	functions := make([]func() error, 10)
	for i := range functions {
		functions[i] = func() error {
			atomic.AddInt64(&counter, 1)
			return nil
		}
	}

	errs := SemaphoreGather(context.Background(), 4, functions...)

	if err := FirstError(errs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != 10 {
		t.Errorf("expected 10 executions, got %d", counter)
	}
}

func TestExecuteSettlesAllBeforeReturning(t *testing.T) {
	var completed int64
	failure := errors.New("branch failed")

	errs := SemaphoreGather(context.Background(), 3,
		func() error {
			return failure
		},
		func() error {
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt64(&completed, 1)
			return nil
		},
		func() error {
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt64(&completed, 1)
			return nil
		},
	)

	// The failing function does not cancel its siblings.
	if completed != 2 {
		t.Errorf("expected both slow functions to settle, got %d", completed)
	}
	if !errors.Is(FirstError(errs), failure) {
		t.Errorf("expected first error %v, got %v", failure, FirstError(errs))
	}
}

func TestExecuteErrorSlotsMatchArgumentOrder(t *testing.T) {
	errA := errors.New("a")
	errC := errors.New("c")

	errs := SemaphoreGather(context.Background(), 2,
		func() error { return errA },
		func() error { return nil },
		func() error { return errC },
	)

	if len(errs) != 3 {
		t.Fatalf("expected 3 error slots, got %d", len(errs))
	}
	if !errors.Is(errs[0], errA) || errs[1] != nil || !errors.Is(errs[2], errC) {
		t.Errorf("error slots out of order: %v", errs)
	}
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	var current, peak int64
	functions := make([]func() error, 8)
	for i := range functions {
		functions[i] = func() error {
			n := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			return nil
		}
	}

	SemaphoreGather(context.Background(), 2, functions...)

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent executions, observed %d", peak)
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With a full semaphore the acquire loses to ctx.Done.
	executor := NewConcurrentExecutor(1)
	executor.semaphore <- struct{}{}

	errs := executor.Execute(ctx, func() error { return nil })
	if !errors.Is(FirstError(errs), context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", FirstError(errs))
	}
}

func TestExecuteRecoversPanic(t *testing.T) {
	errs := SemaphoreGather(context.Background(), 2,
		func() error { panic("boom") },
		func() error { return nil },
	)

	err := FirstError(errs)
	if err == nil {
		t.Fatal("expected panic converted to error")
	}
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Errorf("expected PanicError, got %T", err)
	}
}

func TestExecuteEmpty(t *testing.T) {
	if errs := SemaphoreGather(context.Background(), 2); errs != nil {
		t.Errorf("expected nil for no functions, got %v", errs)
	}
}

func TestFirstError(t *testing.T) {
	if err := FirstError(nil); err != nil {
		t.Errorf("expected nil for empty slice, got %v", err)
	}
	if err := FirstError([]error{nil, nil}); err != nil {
		t.Errorf("expected nil when all slots are nil, got %v", err)
	}

	want := errors.New("x")
	if err := FirstError([]error{nil, want, errors.New("y")}); !errors.Is(err, want) {
		t.Errorf("expected first non-nil error, got %v", err)
	}
}
