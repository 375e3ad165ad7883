package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryUserStore_CreateAndFind(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "alice@example.com", "hashed-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a non-empty user id")
	}
	if created.Email != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got '%s'", created.Email)
	}

	found, err := store.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil {
		t.Fatal("expected to find created user")
	}
	if found.ID != created.ID {
		t.Errorf("expected id '%s', got '%s'", created.ID, found.ID)
	}

	byID, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID == nil || byID.Email != "alice@example.com" {
		t.Error("expected GetByID to resolve the created user")
	}
}

func TestMemoryUserStore_FindByEmail_NotFound(t *testing.T) {
	store := NewMemoryUserStore()

	found, err := store.FindByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestMemoryUserStore_FindByEmail_CaseSensitive(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, "alice@example.com", "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := store.FindByEmail(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Error("lookup should be a case-sensitive exact match")
	}
}

func TestMemoryUserStore_Create_Duplicate(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, "alice@example.com", "hash-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := store.Create(ctx, "alice@example.com", "hash-2")
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestMemoryUserStore_Create_ConcurrentSameEmail(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	const attempts = 32

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Create(ctx, "race@example.com", "hash")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, ErrDuplicateUser) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if winners != 1 {
		t.Errorf("expected exactly one successful create, got %d", winners)
	}

	found, err := store.FindByEmail(ctx, "race@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil {
		t.Error("expected exactly one record for the contested email")
	}
}

func TestMemoryUserStore_GetByID_NotFound(t *testing.T) {
	store := NewMemoryUserStore()

	found, err := store.GetByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Error("expected nil for unknown id")
	}
}
