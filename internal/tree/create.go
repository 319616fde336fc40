package tree

import (
	"github.com/bnema/tabtree/internal/domain/entity"
)

// CreateNode inserts a new node carrying tab, placed relative to anchor
// per the placement classification and the configured positions.
//
// Anchor may be nil, meaning "no reference tab": the node becomes a root
// regardless of placement. A non-nil anchor that is not attached to this
// tree is a contract violation in the host and is rejected with
// ErrUnknownNode before any mutation.
func (tt *TabTree) CreateNode(tab *entity.Tab, anchor *entity.Node, placement entity.Placement) (*entity.Node, error) {
	if anchor != nil && !tt.Contains(anchor) {
		return nil, ErrUnknownNode
	}

	n := &entity.Node{
		ID:  tt.genID(),
		Tab: tab,
	}

	switch {
	case anchor == nil || placement == entity.PlacementUnrelated:
		tt.insertAt(n, nil, tt.rootInsertIndex(anchor))
	case placement == entity.PlacementSibling:
		parent := anchor.Parent
		siblings, anchorIdx := tt.siblingsOf(anchor)
		tt.insertAt(n, parent, resolveIndex(tt.policy.NewSiblingPosition, len(siblings), anchorIdx))
	default: // PlacementRelated
		idx := 0
		if tt.policy.NewChildPosition == entity.PositionLast {
			idx = len(anchor.Children)
		}
		tt.insertAt(n, anchor, idx)
	}

	tt.nodes[n.ID] = n

	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Str("placement", placement.String()).
		Int("depth", n.Depth()).
		Msg("node created")

	return n, nil
}

// rootInsertIndex resolves where a new root lands. Next/prev positions
// resolve relative to the anchor's containing root; without an anchor
// they degrade to last.
func (tt *TabTree) rootInsertIndex(anchor *entity.Node) int {
	pos := tt.policy.NewRootPosition
	switch pos {
	case entity.PositionFirst:
		return 0
	case entity.PositionLast:
		return len(tt.roots)
	}

	if anchor == nil {
		return len(tt.roots)
	}
	_, rootIdx := tt.siblingsOf(anchor.Root())
	if rootIdx < 0 {
		return len(tt.roots)
	}
	return resolveIndex(pos, len(tt.roots), rootIdx)
}

// resolveIndex maps a position to an insertion index into a list of the
// given length, where anchorIdx is the anchor's current index there.
func resolveIndex(pos entity.Position, length, anchorIdx int) int {
	switch pos {
	case entity.PositionFirst:
		return 0
	case entity.PositionNext:
		return anchorIdx + 1
	case entity.PositionPrev:
		return anchorIdx
	default: // PositionLast
		return length
	}
}
