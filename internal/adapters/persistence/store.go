package persistence

import (
	"context"

	"shelfwise/internal/core/domain"
)

// Store is the durable-state contract required by the core: load everything
// at startup, save a full snapshot after mutations. The core must behave
// identically when the store is a no-op.
type Store interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, state *domain.State) error
	Close() error
}

// NoopStore keeps no durable state. Load yields an empty state and Save
// discards the snapshot; the process runs purely in memory.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) Load(context.Context) (*domain.State, error) {
	return &domain.State{NextBookID: 1, NextMemberID: 1}, nil
}

func (*NoopStore) Save(context.Context, *domain.State) error { return nil }

func (*NoopStore) Close() error { return nil }
