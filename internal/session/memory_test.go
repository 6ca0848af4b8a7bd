package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Get() error = %v, want ErrNoSession", err)
	}
}

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	want := &Session{
		Token:     "tok",
		User:      Profile{ID: "u1", Name: "Alice", Role: "employee"},
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Token != want.Token || got.User != want.User {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Set(ctx, &Session{Token: "tok"})

	got, _ := store.Get(ctx)
	got.Token = "mutated"

	again, _ := store.Get(ctx)
	if again.Token != "tok" {
		t.Error("mutating a returned session leaked into the store")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Errorf("Clear() on empty store error = %v", err)
	}

	store.Set(ctx, &Session{Token: "tok"})
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("Get() after Clear() error = %v, want ErrNoSession", err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Set(ctx, &Session{Token: "tok"})
		}()
		go func() {
			defer wg.Done()
			if s, err := store.Get(ctx); err == nil && s.Token != "tok" {
				t.Errorf("observed torn session: %+v", s)
			}
		}()
	}
	wg.Wait()
}
