package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/domain/repository"
	"github.com/bnema/tabtree/internal/logging"
)

// SessionStateRepository stores one JSON tree snapshot per session.
type SessionStateRepository struct {
	db *sql.DB
}

var _ repository.SessionStateRepository = (*SessionStateRepository)(nil)

// NewSessionStateRepository creates a new session state repository.
func NewSessionStateRepository(db *sql.DB) *SessionStateRepository {
	return &SessionStateRepository{db: db}
}

// SaveSnapshot saves or replaces a session state snapshot.
func (r *SessionStateRepository) SaveSnapshot(ctx context.Context, state *entity.SessionState) error {
	log := logging.FromContext(ctx)
	if state == nil {
		return errors.New("session state cannot be nil")
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal session state")
		return err
	}

	log.Debug().
		Str("session_id", string(state.Session)).
		Int("tab_count", state.CountTabs()).
		Msg("saving session state snapshot")

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO session_states (session_id, state_json, version, tab_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			state_json = excluded.state_json,
			version = excluded.version,
			tab_count = excluded.tab_count,
			updated_at = excluded.updated_at`,
		string(state.Session), string(stateJSON), state.Version, state.CountTabs(), state.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert session state: %w", err)
	}
	return nil
}

// GetSnapshot returns the snapshot for a session, or nil when none exists.
func (r *SessionStateRepository) GetSnapshot(ctx context.Context, sessionID entity.SessionID) (*entity.SessionState, error) {
	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT state_json FROM session_states WHERE session_id = ?`,
		string(sessionID)).Scan(&stateJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var state entity.SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("session_id", string(sessionID)).
			Msg("failed to unmarshal session state")
		return nil, err
	}

	return &state, nil
}

// ListSnapshots returns summaries of all stored sessions, newest first.
func (r *SessionStateRepository) ListSnapshots(ctx context.Context, limit int) ([]repository.SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, tab_count, updated_at
		FROM session_states
		ORDER BY updated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var summaries []repository.SessionSummary
	for rows.Next() {
		var s repository.SessionSummary
		var sessionID string
		if err := rows.Scan(&sessionID, &s.TabCount, &s.SavedAt); err != nil {
			return nil, err
		}
		s.Session = entity.SessionID(sessionID)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteSnapshot removes a session's snapshot. Deleting a missing session
// is not an error.
func (r *SessionStateRepository) DeleteSnapshot(ctx context.Context, sessionID entity.SessionID) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("session_id", string(sessionID)).Msg("deleting session state snapshot")

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_states WHERE session_id = ?`, string(sessionID))
	return err
}

// Prune keeps the newest keep sessions and deletes the rest, returning
// the number removed.
func (r *SessionStateRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM session_states
		WHERE session_id NOT IN (
			SELECT session_id FROM session_states
			ORDER BY updated_at DESC
			LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune session states: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Debug().
		Int64("removed", removed).
		Int("keep", keep).
		Msg("pruned session states")

	return removed, nil
}
