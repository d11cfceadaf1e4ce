// Package session holds the process-wide session context: the session token and
// identity persisted in durable client storage.
//
// The auth store is the only writer. The request pipeline only reads the token.
package session

import (
	"context"
	"fmt"
	"sync"
)

// Durable storage keys, written and removed as a group.
const (
	KeyUserID   = "userId"
	KeyUsername = "username"
	KeyToken    = "sessionToken"
)

// Placeholder is the literal stored value that means "no session".
const Placeholder = "undefined"

var keys = []string{KeyUserID, KeyUsername, KeyToken}

// Storage is durable string key/value storage.
//
// SetMany and DeleteMany must apply all entries atomically.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetMany(ctx context.Context, entries map[string]string) error
	DeleteMany(ctx context.Context, keys ...string) error
}

// State is a snapshot of the persisted session.
type State struct {
	UserID   string
	Username string
	Token    string
}

// Valid reports whether both the user and a usable token are present.
func (s State) Valid() bool {
	return s.UserID != "" && usable(s.Token)
}

// Context is the explicit session context injected into the request pipeline.
type Context struct {
	storage Storage
}

// NewContext wraps storage.
func NewContext(storage Storage) *Context {
	return &Context{storage: storage}
}

// Load reads the persisted session. Missing entries are returned as "".
func (c *Context) Load(ctx context.Context) (State, error) {
	var st State
	for _, k := range keys {
		v, _, err := c.storage.Get(ctx, k)
		if err != nil {
			return State{}, fmt.Errorf("failed to load %s: %w", k, err)
		}
		switch k {
		case KeyUserID:
			st.UserID = v
		case KeyUsername:
			st.Username = v
		case KeyToken:
			st.Token = v
		}
	}
	return st, nil
}

// Token returns the stored session token, or "" when absent or the placeholder.
func (c *Context) Token(ctx context.Context) (string, error) {
	tok, ok, err := c.storage.Get(ctx, KeyToken)
	if err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}
	if !ok || !usable(tok) {
		return "", nil
	}
	return tok, nil
}

// Save persists all three entries together.
func (c *Context) Save(ctx context.Context, st State) error {
	err := c.storage.SetMany(ctx, map[string]string{
		KeyUserID:   st.UserID,
		KeyUsername: st.Username,
		KeyToken:    st.Token,
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes all three entries together.
func (c *Context) Clear(ctx context.Context) error {
	if err := c.storage.DeleteMany(ctx, keys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func usable(token string) bool {
	return token != "" && token != Placeholder
}

// MemoryStorage is an in-process [Storage], used when no database is configured and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStorage creates an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetMany(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *MemoryStorage) DeleteMany(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
