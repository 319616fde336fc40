// Package repository defines the persistence interfaces of the domain layer.
package repository

import (
	"context"
	"time"

	"github.com/bnema/tabtree/internal/domain/entity"
)

// SessionSummary is a lightweight listing row for a stored snapshot.
type SessionSummary struct {
	Session  entity.SessionID `json:"session"`
	TabCount int              `json:"tab_count"`
	SavedAt  time.Time        `json:"saved_at"`
}

// SessionStateRepository persists tree snapshots keyed by session ID.
type SessionStateRepository interface {
	SaveSnapshot(ctx context.Context, state *entity.SessionState) error
	// GetSnapshot returns nil when no snapshot exists for the session.
	GetSnapshot(ctx context.Context, sessionID entity.SessionID) (*entity.SessionState, error)
	// ListSnapshots returns summaries ordered newest first. A non-positive
	// limit applies an implementation default.
	ListSnapshots(ctx context.Context, limit int) ([]SessionSummary, error)
	DeleteSnapshot(ctx context.Context, sessionID entity.SessionID) error
	// Prune deletes all but the keep most recent snapshots and reports how
	// many rows were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}
