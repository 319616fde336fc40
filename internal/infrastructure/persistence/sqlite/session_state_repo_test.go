package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tabtree/internal/logging"
	"github.com/bnema/tabtree/internal/session"
	"github.com/bnema/tabtree/internal/tree"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func newTestRepo(t *testing.T) (context.Context, *sqlite.SessionStateRepository) {
	t.Helper()

	ctx := testCtx()
	dbPath := filepath.Join(t.TempDir(), "tabtree.db")

	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return ctx, sqlite.NewSessionStateRepository(db)
}

func sampleState(t *testing.T, id entity.SessionID, tabs int) *entity.SessionState {
	t.Helper()

	tt, err := tree.New(tree.DefaultPolicy())
	require.NoError(t, err)

	var anchor *entity.Node
	for i := 0; i < tabs; i++ {
		tab := entity.NewTab(entity.TabID(fmt.Sprintf("tab%d", i)))
		tab.Title = fmt.Sprintf("Tab %d", i)
		placement := entity.PlacementRelated
		if anchor == nil {
			placement = entity.PlacementUnrelated
		}
		n, err := tt.CreateNode(tab, anchor, placement)
		require.NoError(t, err)
		anchor = n
	}

	return session.Snapshot(tt, id)
}

func TestSessionStateRepository_CRUD(t *testing.T) {
	ctx, repo := newTestRepo(t)

	state := sampleState(t, "session-a", 3)
	require.NoError(t, repo.SaveSnapshot(ctx, state))

	got, err := repo.GetSnapshot(ctx, "session-a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.Session, got.Session)
	assert.Equal(t, 3, got.CountTabs())

	// The snapshot must restore into an identical tree.
	restored, err := session.Restore(got, tree.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 3, restored.Len())
	require.NoError(t, restored.Check())

	// Upsert replaces in place.
	bigger := sampleState(t, "session-a", 5)
	require.NoError(t, repo.SaveSnapshot(ctx, bigger))

	got, err = repo.GetSnapshot(ctx, "session-a")
	require.NoError(t, err)
	assert.Equal(t, 5, got.CountTabs())

	require.NoError(t, repo.DeleteSnapshot(ctx, "session-a"))
	got, err = repo.GetSnapshot(ctx, "session-a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStateRepository_List(t *testing.T) {
	ctx, repo := newTestRepo(t)

	for i := 0; i < 3; i++ {
		state := sampleState(t, entity.SessionID(fmt.Sprintf("session-%d", i)), i+1)
		state.SavedAt = time.Date(2026, 1, 1+i, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.SaveSnapshot(ctx, state))
	}

	summaries, err := repo.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Newest first.
	assert.Equal(t, entity.SessionID("session-2"), summaries[0].Session)
	assert.Equal(t, 3, summaries[0].TabCount)
	assert.Equal(t, entity.SessionID("session-0"), summaries[2].Session)

	limited, err := repo.ListSnapshots(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSessionStateRepository_Prune(t *testing.T) {
	ctx, repo := newTestRepo(t)

	for i := 0; i < 5; i++ {
		state := sampleState(t, entity.SessionID(fmt.Sprintf("session-%d", i)), 1)
		state.SavedAt = time.Date(2026, 1, 1+i, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.SaveSnapshot(ctx, state))
	}

	removed, err := repo.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	summaries, err := repo.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, entity.SessionID("session-4"), summaries[0].Session)
	assert.Equal(t, entity.SessionID("session-3"), summaries[1].Session)
}

func TestGetSnapshotMissing(t *testing.T) {
	ctx, repo := newTestRepo(t)

	got, err := repo.GetSnapshot(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}
