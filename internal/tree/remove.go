package tree

import (
	"github.com/bnema/tabtree/internal/domain/entity"
)

// RemoveRecord captures everything needed to undo a removal and rebuild
// the exact prior shape, including re-demoting a promoted child.
type RemoveRecord struct {
	// Node is the removed node. For recursive removals it still owns its
	// whole subtree; for promoting removals its children have been handed
	// to Promoted and its Children list is empty.
	Node *entity.Node
	// Parent is the former parent, nil when the node was a root.
	Parent *entity.Node
	// Index is the former position within Parent's children (or the root
	// list).
	Index int
	// Recursive records which removal mode produced this record.
	Recursive bool
	// Promoted is the first child that took over the node's position, nil
	// when the node had no children or the removal was recursive.
	Promoted *entity.Node
	// AdoptedCount is how many of the node's remaining children were
	// appended to Promoted's children. Undo takes them back from the tail.
	AdoptedCount int
}

// RemoveNode detaches a node from the tree.
//
// With recursive=false (the close-tab default) the node's first child is
// promoted into its former slot, and the node's remaining children are
// appended to the promoted child's children, preserving relative order.
// With recursive=true the entire subtree goes away.
//
// The returned record feeds RestoreNode for undo. Replaying it with no
// intervening mutation reproduces the prior shape exactly.
func (tt *TabTree) RemoveNode(n *entity.Node, recursive bool) (*RemoveRecord, error) {
	if !tt.Contains(n) {
		return nil, ErrUnknownNode
	}

	rec := &RemoveRecord{Node: n, Recursive: recursive}

	if recursive {
		rec.Parent, rec.Index = tt.detach(n)
		tt.unregister(n)
		tt.logger.Debug().
			Str("node_id", string(n.ID)).
			Int("subtree", n.DescendantCount()).
			Msg("subtree removed")
		return rec, nil
	}

	children := n.Children
	rec.Parent, rec.Index = tt.detach(n)

	if len(children) > 0 {
		promoted := children[0]
		rest := children[1:]

		promoted.Parent = nil
		tt.insertAt(promoted, rec.Parent, rec.Index)
		for _, child := range rest {
			child.Parent = promoted
			promoted.Children = append(promoted.Children, child)
		}

		rec.Promoted = promoted
		rec.AdoptedCount = len(rest)
		n.Children = nil
	}

	delete(tt.nodes, n.ID)

	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Bool("promoted_child", rec.Promoted != nil).
		Msg("node removed")

	return rec, nil
}

// RestoreNode replays a removal record, reattaching the node at its former
// parent and index and, for promoting removals, re-demoting the promoted
// child back under it. The record must come from this tree and be replayed
// before any other structural mutation.
func (tt *TabTree) RestoreNode(rec *RemoveRecord) error {
	if rec == nil || rec.Node == nil {
		return ErrUnknownNode
	}
	if rec.Parent != nil && !tt.Contains(rec.Parent) {
		return ErrUnknownNode
	}

	n := rec.Node

	if rec.Recursive || rec.Promoted == nil {
		tt.insertAt(n, rec.Parent, rec.Index)
		tt.register(n)
		return nil
	}

	promoted := rec.Promoted

	// Take back the children the promoted node adopted. They were
	// appended, so they sit at the tail in their original order.
	split := len(promoted.Children) - rec.AdoptedCount
	adopted := promoted.Children[split:]
	promoted.Children = promoted.Children[:split]

	tt.detach(promoted)

	n.Children = append([]*entity.Node{promoted}, adopted...)
	for _, child := range n.Children {
		child.Parent = n
	}

	tt.insertAt(n, rec.Parent, rec.Index)
	tt.nodes[n.ID] = n

	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Msg("node restored")

	return nil
}
