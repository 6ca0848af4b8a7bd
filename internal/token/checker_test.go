package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leavehub/portal-gateway/internal/notify"
	"github.com/leavehub/portal-gateway/internal/session"
	"github.com/leavehub/portal-gateway/pkg/logger"
)

type failingStore struct{}

func (failingStore) Get(context.Context) (*session.Session, error) {
	return nil, errors.New("store down")
}
func (failingStore) Set(context.Context, *session.Session) error { return nil }
func (failingStore) Clear(context.Context) error                 { return nil }

func TestCheckerExpiredTokenClearsAndNotifies(t *testing.T) {
	store := session.NewMemoryStore()
	notifier := notify.NewNotifier()
	triggered := 0
	cancel := notifier.Observe(func() { triggered++ })
	defer cancel()

	ctx := context.Background()
	store.Set(ctx, &session.Session{
		Token: tokenExpiringIn(t, -time.Minute),
		User:  session.Profile{ID: "u1"},
	})

	checker := NewChecker(store, notifier, logger.Get(), time.Minute, 5*time.Minute)
	checker.Check(ctx)

	if triggered != 1 {
		t.Errorf("notifier triggered %d times, want 1", triggered)
	}
	if _, err := store.Get(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("store.Get() error = %v, want ErrNoSession", err)
	}
}

func TestCheckerValidTokenKeepsSession(t *testing.T) {
	store := session.NewMemoryStore()
	notifier := notify.NewNotifier()
	triggered := 0
	cancel := notifier.Observe(func() { triggered++ })
	defer cancel()

	ctx := context.Background()
	store.Set(ctx, &session.Session{Token: tokenExpiringIn(t, time.Hour)})

	checker := NewChecker(store, notifier, logger.Get(), time.Minute, 5*time.Minute)
	checker.Check(ctx)

	if triggered != 0 {
		t.Errorf("notifier triggered %d times, want 0", triggered)
	}
	if _, err := store.Get(ctx); err != nil {
		t.Errorf("session was cleared: %v", err)
	}
}

func TestCheckerExpiringSoonOnlyReports(t *testing.T) {
	store := session.NewMemoryStore()
	notifier := notify.NewNotifier()
	triggered := 0
	cancel := notifier.Observe(func() { triggered++ })
	defer cancel()

	ctx := context.Background()
	store.Set(ctx, &session.Session{Token: tokenExpiringIn(t, 2*time.Minute)})

	checker := NewChecker(store, notifier, logger.Get(), time.Minute, 5*time.Minute)
	checker.Check(ctx)

	// Expiring soon is a warning, not a forced logout
	if triggered != 0 {
		t.Errorf("notifier triggered %d times, want 0", triggered)
	}
	if _, err := store.Get(ctx); err != nil {
		t.Errorf("session was cleared: %v", err)
	}
}

func TestCheckerEmptyStoreIsQuiet(t *testing.T) {
	notifier := notify.NewNotifier()
	triggered := 0
	cancel := notifier.Observe(func() { triggered++ })
	defer cancel()

	checker := NewChecker(session.NewMemoryStore(), notifier, logger.Get(), time.Minute, 5*time.Minute)
	checker.Check(context.Background())

	if triggered != 0 {
		t.Errorf("notifier triggered %d times, want 0", triggered)
	}
}

func TestCheckerStoreErrorDoesNotNotify(t *testing.T) {
	notifier := notify.NewNotifier()
	triggered := 0
	cancel := notifier.Observe(func() { triggered++ })
	defer cancel()

	checker := NewChecker(failingStore{}, notifier, logger.Get(), time.Minute, 5*time.Minute)
	checker.Check(context.Background())

	if triggered != 0 {
		t.Errorf("notifier triggered %d times, want 0", triggered)
	}
}

func TestCheckerRunStopsOnCancel(t *testing.T) {
	checker := NewChecker(session.NewMemoryStore(), notify.NewNotifier(), logger.Get(), 10*time.Millisecond, 5*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewCheckerDefaults(t *testing.T) {
	checker := NewChecker(session.NewMemoryStore(), notify.NewNotifier(), logger.Get(), 0, 0)
	if checker.interval != 60*time.Second {
		t.Errorf("interval = %v, want 60s", checker.interval)
	}
	if checker.warning != 5*time.Minute {
		t.Errorf("warning = %v, want 5m", checker.warning)
	}
}
