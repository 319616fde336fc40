package entity

import "time"

// SessionStateVersion is the current schema version for session state.
// Increment when making breaking changes to the serialization format.
const SessionStateVersion = 1

// SessionID identifies one saved browsing session (one window's tree).
type SessionID string

// SessionState is a complete snapshot of one window's tab tree. It is
// serialized to JSON and stored in the database; structure plus collapsed
// flags are all a serializer needs to replay the tree through the public
// tree API.
type SessionState struct {
	Version  int             `json:"version"`
	Session  SessionID       `json:"session_id"`
	Roots    []*NodeSnapshot `json:"roots"`
	ActiveID NodeID          `json:"active_id,omitempty"`
	SavedAt  time.Time       `json:"saved_at"`
}

// NodeSnapshot captures one node and its subtree.
type NodeSnapshot struct {
	ID        NodeID          `json:"id"`
	Tab       TabSnapshot     `json:"tab"`
	Collapsed bool            `json:"collapsed,omitempty"`
	Children  []*NodeSnapshot `json:"children,omitempty"`
}

// TabSnapshot captures the essential state of a tab payload.
type TabSnapshot struct {
	ID       TabID  `json:"id"`
	URI      string `json:"uri"`
	Title    string `json:"title"`
	IsPinned bool   `json:"is_pinned,omitempty"`
}

// CountTabs returns the total number of nodes across all roots.
func (s *SessionState) CountTabs() int {
	count := 0
	for _, root := range s.Roots {
		count += root.count()
	}
	return count
}

func (ns *NodeSnapshot) count() int {
	count := 1
	for _, child := range ns.Children {
		count += child.count()
	}
	return count
}

// SnapshotNode captures a live node and its subtree.
func SnapshotNode(n *Node) *NodeSnapshot {
	snap := &NodeSnapshot{
		ID:        n.ID,
		Collapsed: n.Collapsed,
	}
	if n.Tab != nil {
		snap.Tab = TabSnapshot{
			ID:       n.Tab.ID,
			URI:      n.Tab.URI,
			Title:    n.Tab.Title,
			IsPinned: n.Tab.IsPinned,
		}
	}
	for _, child := range n.Children {
		snap.Children = append(snap.Children, SnapshotNode(child))
	}
	return snap
}

// Tab reconstructs the tab payload from a snapshot.
func (ts TabSnapshot) Tab() *Tab {
	return &Tab{
		ID:       ts.ID,
		URI:      ts.URI,
		Title:    ts.Title,
		IsPinned: ts.IsPinned,
	}
}
