package types

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// await reads f with no deadline and no producer to watch.
func await[R any, K comparable](f *Future[R, K]) (R, K, error) {
	return f.GetOrAbandon(context.Background(), nil)
}

func TestFuture_Await(t *testing.T) {
	t.Run("value delivered by a producer goroutine", func(t *testing.T) {
		future := NewFuture[int, int64]()

		go func() {
			time.Sleep(20 * time.Millisecond)
			future.Complete(Result[int, int64]{Value: 22, Key: 1})
		}()

		value, key, err := await(future)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != 22 {
			t.Errorf("expected value 22, got %v", value)
		}
		if key != 1 {
			t.Errorf("expected key 1, got %v", key)
		}
	})

	t.Run("error delivered", func(t *testing.T) {
		future := NewFuture[int, int64]()
		expectedErr := errors.New("kernel failed")

		future.Complete(Result[int, int64]{Key: 3, Error: expectedErr})

		_, key, err := await(future)
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if key != 3 {
			t.Errorf("expected key 3, got %v", key)
		}
	})

	t.Run("repeated reads return the same result", func(t *testing.T) {
		future := NewFuture[int, string]()
		future.Complete(Result[int, string]{Value: 64, Key: "cell"})

		v1, k1, e1 := await(future)
		v2, k2, e2 := await(future)
		if v1 != v2 || k1 != k2 || e1 != e2 {
			t.Errorf("reads returned different results")
		}
	})
}

func TestFuture_CompleteIsSingleUse(t *testing.T) {
	tests := []struct {
		name       string
		readFirst  bool
		lateValues []int
	}{
		{name: "before the result is read", lateValues: []int{2, 3}},
		{name: "after the result is read", readFirst: true, lateValues: []int{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			future := NewFuture[int, int64]()

			if !future.Complete(Result[int, int64]{Value: 1}) {
				t.Fatal("first Complete should be accepted")
			}
			if tt.readFirst {
				if value, _, _ := await(future); value != 1 {
					t.Fatalf("expected 1, got %v", value)
				}
			}

			for _, v := range tt.lateValues {
				if future.Complete(Result[int, int64]{Value: v}) {
					t.Errorf("Complete(%d) after the first should be rejected", v)
				}
			}

			if value, _, _ := await(future); value != 1 {
				t.Errorf("expected the first value, got %v", value)
			}
		})
	}
}

func TestFuture_ConcurrentComplete(t *testing.T) {
	future := NewFuture[int, int64]()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if future.Complete(Result[int, int64]{Value: i}) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("accepted %d completions, want 1", accepted)
	}
}

func TestFuture_ConcurrentAwait(t *testing.T) {
	future := NewFuture[int, string]()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, key, err := await(future)
			if err != nil || value != 999 || key != "concurrent" {
				t.Errorf("unexpected result: value=%v, key=%v, err=%v", value, key, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	future.Complete(Result[int, string]{Value: 999, Key: "concurrent"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for concurrent reads")
	}
}

func TestNewSubmittedTask(t *testing.T) {
	st := NewSubmittedTask[string, int]("cell", 7)
	if st.Task != "cell" || st.Id != 7 {
		t.Errorf("unexpected task: %+v", st)
	}
	if st.Future == nil {
		t.Fatal("expected a fresh future")
	}

	r := NewResult(5, st.Id, nil)
	if !st.Future.Complete(*r) {
		t.Fatal("fresh future rejected its first result")
	}
	if v, k, _ := await(st.Future); v != 5 || k != 7 {
		t.Errorf("unexpected result: value=%v key=%v", v, k)
	}
}

func TestFuture_GetOrAbandon(t *testing.T) {
	t.Run("result wins over a later exit", func(t *testing.T) {
		future := NewFuture[int, int64]()
		gone := make(chan struct{})

		future.Complete(Result[int, int64]{Value: 28})
		close(gone)

		value, _, err := future.GetOrAbandon(context.Background(), gone)
		if err != nil || value != 28 {
			t.Errorf("expected 28 without error, got value=%v err=%v", value, err)
		}
	})

	t.Run("producer gone without result", func(t *testing.T) {
		future := NewFuture[int, int64]()
		gone := make(chan struct{})

		go func() {
			time.Sleep(20 * time.Millisecond)
			close(gone)
		}()

		_, _, err := future.GetOrAbandon(context.Background(), gone)
		if !errors.Is(err, ErrAbandoned) {
			t.Errorf("expected ErrAbandoned, got %v", err)
		}
	})

	t.Run("context ends first", func(t *testing.T) {
		future := NewFuture[int, int64]()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, _, err := future.GetOrAbandon(ctx, make(chan struct{}))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("usable after a cancelled wait", func(t *testing.T) {
		future := NewFuture[string, int]()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, _, err := future.GetOrAbandon(ctx, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}

		future.Complete(Result[string, int]{Value: "late"})
		if value, _, _ := await(future); value != "late" {
			t.Errorf("expected late value, got %q", value)
		}
	})
}
