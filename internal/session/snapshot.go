// Package session captures tab trees as serializable snapshots and
// replays them through the public tree API. The tree exposes structure
// and collapsed flags; everything else about persistence lives here and
// below (the sqlite store).
package session

import (
	"fmt"
	"time"

	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/tree"
)

// Snapshot captures the complete shape of a tree: structure, collapsed
// flags, tab payloads. The result round-trips through Restore.
func Snapshot(tt *tree.TabTree, sessionID entity.SessionID) *entity.SessionState {
	state := &entity.SessionState{
		Version: entity.SessionStateVersion,
		Session: sessionID,
		SavedAt: time.Now(),
	}
	for _, root := range tt.Roots() {
		state.Roots = append(state.Roots, entity.SnapshotNode(root))
	}
	return state
}

// Restore replays a snapshot into a fresh tree built with the given
// policy. Nodes keep their saved IDs. The replay goes through the public
// API only: roots via unrelated placement, children via related placement
// appended in order, collapse via SetCollapsed. This keeps the serializer
// from ever touching node links directly.
func Restore(state *entity.SessionState, policy tree.Policy) (*tree.TabTree, error) {
	if state == nil {
		return nil, fmt.Errorf("nil session state")
	}
	if state.Version > entity.SessionStateVersion {
		return nil, fmt.Errorf("session state version %d is newer than supported %d",
			state.Version, entity.SessionStateVersion)
	}

	// Replay respects saved order, not the configured insertion
	// positions: append-only placements reproduce the saved sequence
	// exactly regardless of what the live policy says.
	replayPolicy := policy
	replayPolicy.NewRootPosition = entity.PositionLast
	replayPolicy.NewChildPosition = entity.PositionLast

	var pending []entity.NodeID
	gen := func() entity.NodeID {
		id := pending[0]
		pending = pending[1:]
		return id
	}

	tt, err := tree.New(replayPolicy, tree.WithIDGenerator(gen))
	if err != nil {
		return nil, err
	}

	var replay func(snap *entity.NodeSnapshot, anchor *entity.Node, placement entity.Placement) error
	replay = func(snap *entity.NodeSnapshot, anchor *entity.Node, placement entity.Placement) error {
		pending = append(pending, snap.ID)
		n, err := tt.CreateNode(snap.Tab.Tab(), anchor, placement)
		if err != nil {
			return fmt.Errorf("replay node %s: %w", snap.ID, err)
		}
		for _, child := range snap.Children {
			if err := replay(child, n, entity.PlacementRelated); err != nil {
				return err
			}
		}
		if snap.Collapsed {
			if err := tt.SetCollapsed(n, true); err != nil {
				return fmt.Errorf("replay collapse %s: %w", snap.ID, err)
			}
		}
		return nil
	}

	for _, root := range state.Roots {
		if err := replay(root, nil, entity.PlacementUnrelated); err != nil {
			return nil, err
		}
	}

	if err := tt.SetPolicy(policy); err != nil {
		return nil, err
	}
	return tt, nil
}
