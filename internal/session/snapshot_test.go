package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/tree"
)

func buildTree(t *testing.T) *tree.TabTree {
	t.Helper()

	tt, err := tree.New(tree.DefaultPolicy())
	require.NoError(t, err)

	add := func(title string, anchor *entity.Node, placement entity.Placement) *entity.Node {
		tab := entity.NewTab(entity.TabID(title))
		tab.Title = title
		tab.URI = "https://example.com/" + title
		n, err := tt.CreateNode(tab, anchor, placement)
		require.NoError(t, err)
		return n
	}

	a := add("A", nil, entity.PlacementUnrelated)
	b := add("B", a, entity.PlacementRelated)
	add("C", a, entity.PlacementRelated)
	add("D", b, entity.PlacementRelated)
	add("Z", nil, entity.PlacementUnrelated)
	require.NoError(t, tt.SetCollapsed(b, true))

	return tt
}

func flatten(tt *tree.TabTree) []string {
	var out []string
	for n := range tt.All() {
		line := ""
		for _, p := range n.Path() {
			line += "/" + p.Tab.Title
		}
		if n.Collapsed {
			line += "*"
		}
		out = append(out, line)
	}
	return out
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	tt := buildTree(t)
	state := Snapshot(tt, "session-1")

	assert.Equal(t, entity.SessionStateVersion, state.Version)
	assert.Equal(t, 5, state.CountTabs())

	restored, err := Restore(state, tree.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, flatten(tt), flatten(restored))
	require.NoError(t, restored.Check())

	// Saved IDs survive the replay.
	for n := range tt.All() {
		got, ok := restored.NodeByID(n.ID)
		require.True(t, ok, "node %s missing after restore", n.ID)
		assert.Equal(t, n.Tab.URI, got.Tab.URI)
		assert.Equal(t, n.Collapsed, got.Collapsed)
	}
}

func TestRestoreIgnoresLivePolicyOrder(t *testing.T) {
	tt := buildTree(t)
	state := Snapshot(tt, "session-1")

	// A first-position policy must not reverse the saved order.
	policy := tree.DefaultPolicy()
	policy.NewRootPosition = entity.PositionFirst
	policy.NewChildPosition = entity.PositionFirst

	restored, err := Restore(state, policy)
	require.NoError(t, err)
	assert.Equal(t, flatten(tt), flatten(restored))

	// But the live policy stays what the caller asked for.
	assert.Equal(t, entity.PositionFirst, restored.Policy().NewRootPosition)
}

func TestSnapshotSerializesToJSON(t *testing.T) {
	tt := buildTree(t)
	state := Snapshot(tt, "session-1")

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded entity.SessionState
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := Restore(&decoded, tree.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, flatten(tt), flatten(restored))
}

func TestRestoreRejectsNewerVersion(t *testing.T) {
	state := &entity.SessionState{Version: entity.SessionStateVersion + 1}
	_, err := Restore(state, tree.DefaultPolicy())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestRestoreNil(t *testing.T) {
	_, err := Restore(nil, tree.DefaultPolicy())
	require.Error(t, err)
}
