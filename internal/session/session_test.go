package session

import (
	"context"
	"errors"
	"testing"
)

type failingStorage struct{ err error }

func (f failingStorage) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStorage) SetMany(context.Context, map[string]string) error  { return f.err }
func (f failingStorage) DeleteMany(context.Context, ...string) error       { return f.err }

func TestContext(t *testing.T) {
	ctx := context.Background()

	t.Run("Save And Load", func(t *testing.T) {
		store := NewMemoryStorage()
		sc := NewContext(store)

		want := State{UserID: "u1", Username: "alice", Token: "s1"}
		if err := sc.Save(ctx, want); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		got, err := sc.Load(ctx)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
		if !got.Valid() {
			t.Error("expected state to be valid")
		}
	})

	t.Run("Clear removes all entries", func(t *testing.T) {
		store := NewMemoryStorage()
		sc := NewContext(store)
		_ = sc.Save(ctx, State{UserID: "u1", Username: "alice", Token: "s1"})

		if err := sc.Clear(ctx); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if store.Len() != 0 {
			t.Errorf("expected empty storage, got %d entries", store.Len())
		}
	})

	t.Run("Token", func(t *testing.T) {
		tc := []struct {
			name   string
			stored *string
			want   string
		}{
			{name: "absent", stored: nil, want: ""},
			{name: "placeholder", stored: ptr("undefined"), want: ""},
			{name: "empty", stored: ptr(""), want: ""},
			{name: "verbatim", stored: ptr("tok en/with:chars"), want: "tok en/with:chars"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				store := NewMemoryStorage()
				if tt.stored != nil {
					_ = store.SetMany(ctx, map[string]string{KeyToken: *tt.stored})
				}

				got, err := NewContext(store).Token(ctx)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("Token() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("State Valid", func(t *testing.T) {
		if (State{UserID: "u1", Token: Placeholder}).Valid() {
			t.Error("placeholder token should not be valid")
		}
		if (State{Token: "s1"}).Valid() {
			t.Error("missing user should not be valid")
		}
	})

	t.Run("Storage Errors Propagate", func(t *testing.T) {
		boom := errors.New("disk full")
		sc := NewContext(failingStorage{err: boom})

		if _, err := sc.Load(ctx); !errors.Is(err, boom) {
			t.Errorf("Load: expected wrapped error, got %v", err)
		}
		if _, err := sc.Token(ctx); !errors.Is(err, boom) {
			t.Errorf("Token: expected wrapped error, got %v", err)
		}
		if err := sc.Save(ctx, State{}); !errors.Is(err, boom) {
			t.Errorf("Save: expected wrapped error, got %v", err)
		}
		if err := sc.Clear(ctx); !errors.Is(err, boom) {
			t.Errorf("Clear: expected wrapped error, got %v", err)
		}
	})
}

func ptr(s string) *string { return &s }
