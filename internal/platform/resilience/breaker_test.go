package resilience

import (
	"errors"
	"testing"
	"time"
)

var errDown = errors.New("webhook down")

func TestBreaker_OpensAndRecovers(t *testing.T) {
	b := NewBreaker(Config{Threshold: 2, Cooldown: 10 * time.Second, TrialCalls: 1})
	now := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	fail := func() error { return errDown }
	for i := 0; i < 2; i++ {
		if err := b.Execute(fail, nil); !errors.Is(err, errDown) {
			t.Fatalf("call %d: expected dependency error, got %v", i, err)
		}
	}
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after threshold, got %s", state)
	}

	called := false
	if err := b.Execute(func() error { called = true; return nil }, nil); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if called {
		t.Fatalf("open breaker must not call through")
	}

	now = now.Add(11 * time.Second)
	if state := b.State(); state != StateHalfOpen {
		t.Fatalf("expected half-open after cooldown, got %s", state)
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("trial call: %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after trial call, got %s", state)
	}
}

func TestBreaker_IgnoresUncountedErrors(t *testing.T) {
	b := NewBreaker(Config{Threshold: 1})
	errBadRequest := errors.New("bad request")
	ignore := func(err error) bool { return !errors.Is(err, errBadRequest) }

	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return errBadRequest }, ignore)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("client errors should not trip the breaker, got %s", state)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(Config{Threshold: 1, Cooldown: time.Second})
	now := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	_ = b.Execute(func() error { return errDown }, nil)
	now = now.Add(2 * time.Second)
	_ = b.Execute(func() error { return errDown }, nil)
	if state := b.State(); state != StateOpen {
		t.Fatalf("failed trial call should reopen, got %s", state)
	}
}
