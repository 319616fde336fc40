package tree

import (
	"github.com/bnema/tabtree/internal/domain/entity"
)

// Promote moves n one level up: out of its parent's children, into its
// grandparent's children (or the root list when the parent is top-level),
// positioned relative to the former parent per the configured promote
// position.
//
// The promoted node takes only its own subtree with it. Its former
// siblings all stay children of the old parent; moving trailing siblings
// along is the other defensible policy, but keeping the operation minimal
// makes promote/demote exact inverses, which the undo layer relies on.
func (tt *TabTree) Promote(n *entity.Node) error {
	if !tt.Contains(n) {
		return ErrUnknownNode
	}
	parent := n.Parent
	if parent == nil {
		return ErrPromoteRoot
	}

	tt.detach(n)

	targets, parentIdx := tt.siblingsOf(parent)
	tt.insertAt(n, parent.Parent, resolveIndex(tt.policy.PromotePosition, len(targets), parentIdx))

	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Int("depth", n.Depth()).
		Msg("node promoted")

	return nil
}

// Demote moves n one level down, making it a child of its immediately
// preceding sibling at the configured demote position. Fails with
// ErrDemoteNoSibling when n is first in its sibling list (nothing to
// demote under).
func (tt *TabTree) Demote(n *entity.Node) error {
	if !tt.Contains(n) {
		return ErrUnknownNode
	}

	siblings, idx := tt.siblingsOf(n)
	if idx <= 0 {
		return ErrDemoteNoSibling
	}
	target := siblings[idx-1]

	tt.detach(n)

	childIdx := 0
	if tt.policy.DemotePosition == entity.PositionLast {
		childIdx = len(target.Children)
	}
	tt.insertAt(n, target, childIdx)

	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Str("new_parent", string(target.ID)).
		Msg("node demoted")

	return nil
}

// MoveSpec describes a reposition request: either a relative delta within
// the current sibling list (wrapping at the ends), or an absolute index
// into the full traversal order.
type MoveSpec struct {
	Relative bool
	// Delta applies when Relative is set; +1/-1 step within the sibling
	// list, wrapping around.
	Delta int
	// Index applies when Relative is unset: a position in the full
	// collapse-oblivious traversal order of the forest. Out-of-range
	// values clamp to the ends.
	Index int
}

// Move repositions n per spec and returns its new parent (nil for roots)
// and index within that parent's children or the root list.
//
// An absolute move detaches the node with its subtree and re-inserts it
// so that it occupies the requested traversal position: index 0 makes it
// the first root, any other index makes it the first child of the node
// that precedes that position. Absolute indexes count every attached node,
// including those hidden inside collapsed subtrees.
func (tt *TabTree) Move(n *entity.Node, spec MoveSpec) (*entity.Node, int, error) {
	if !tt.Contains(n) {
		return nil, -1, ErrUnknownNode
	}

	if spec.Relative {
		return tt.moveRelative(n, spec.Delta)
	}
	return tt.moveAbsolute(n, spec.Index)
}

func (tt *TabTree) moveRelative(n *entity.Node, delta int) (*entity.Node, int, error) {
	siblings, idx := tt.siblingsOf(n)
	count := len(siblings)
	if count <= 1 || delta == 0 {
		return n.Parent, idx, nil
	}

	newIdx := ((idx+delta)%count + count) % count

	parent, _ := tt.detach(n)
	tt.insertAt(n, parent, newIdx)

	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Int("from", idx).
		Int("to", newIdx).
		Msg("node moved within siblings")

	return parent, newIdx, nil
}

func (tt *TabTree) moveAbsolute(n *entity.Node, index int) (*entity.Node, int, error) {
	tt.detach(n)

	var flat []*entity.Node
	for node := range tt.All() {
		flat = append(flat, node)
	}

	if index < 0 {
		index = 0
	}
	if index > len(flat) {
		index = len(flat)
	}

	if index == 0 {
		tt.insertAt(n, nil, 0)
	} else {
		// Becoming the first child of the structural predecessor is the
		// one insertion that lands the node exactly at the requested
		// traversal position.
		pred := flat[index-1]
		tt.insertAt(n, pred, 0)
	}

	_, newIdx := tt.siblingsOf(n)

	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Int("traversal_index", index).
		Msg("node moved to absolute position")

	return n.Parent, newIdx, nil
}
