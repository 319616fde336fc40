// Package tree implements the tab tree engine: a forest of tab nodes per
// window with structural mutation, collapse state, and projection of the
// tree's depth-first order onto the flat positions a tab strip displays.
//
// The TabTree aggregate is the only entity allowed to mutate node links.
// The parent pointer and the parent's children list are two views of one
// edge; every edit here updates both in one place so callers can never
// observe them out of sync.
package tree

import (
	"errors"
	"fmt"
	"iter"

	"github.com/rs/zerolog"

	"github.com/bnema/tabtree/internal/domain/entity"
)

// ErrUnknownNode is returned when a node or anchor does not belong to this tree.
var ErrUnknownNode = errors.New("node not in tree")

// ErrPromoteRoot is returned when promoting a node that is already top-level.
var ErrPromoteRoot = errors.New("cannot promote a top-level node")

// ErrDemoteNoSibling is returned when demoting a node with no preceding sibling.
var ErrDemoteNoSibling = errors.New("no sibling to demote under")

// Policy holds the positional rules that parameterize insertions and
// level changes. Values come from the config layer; the tree only reads
// them.
type Policy struct {
	// NewRootPosition places unrelated tabs among the roots. Next/prev
	// resolve relative to the anchor's root when an anchor is given,
	// otherwise they fall back to last.
	NewRootPosition entity.Position
	// NewSiblingPosition places sibling tabs within the anchor's parent.
	NewSiblingPosition entity.Position
	// NewChildPosition places related tabs among the anchor's children.
	// Only first|last are meaningful here.
	NewChildPosition entity.Position
	// PromotePosition places a promoted node relative to its former parent.
	PromotePosition entity.Position
	// DemotePosition places a demoted node among its new parent's children.
	// Only first|last are meaningful here.
	DemotePosition entity.Position
}

// DefaultPolicy mirrors the shipped config defaults.
func DefaultPolicy() Policy {
	return Policy{
		NewRootPosition:    entity.PositionLast,
		NewSiblingPosition: entity.PositionNext,
		NewChildPosition:   entity.PositionLast,
		PromotePosition:    entity.PositionNext,
		DemotePosition:     entity.PositionLast,
	}
}

// Validate rejects positions outside the allowed set for the restricted
// operations.
func (p Policy) Validate() error {
	if !p.NewChildPosition.EndOnly() {
		return fmt.Errorf("new child position %q: only first|last allowed", p.NewChildPosition)
	}
	if !p.DemotePosition.EndOnly() {
		return fmt.Errorf("demote position %q: only first|last allowed", p.DemotePosition)
	}
	return nil
}

// TabTree owns the forest of tab nodes for one browser window. It is
// single-threaded by contract: one window, one event loop, no re-entrant
// calls. All operations either complete fully or reject before touching
// any link.
type TabTree struct {
	roots  []*entity.Node
	nodes  map[entity.NodeID]*entity.Node
	policy Policy
	logger zerolog.Logger

	idCounter uint64
	genID     func() entity.NodeID
}

// Option configures a TabTree.
type Option func(*TabTree)

// WithLogger attaches a logger for structural debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(tt *TabTree) {
		tt.logger = logger.With().Str("component", "tabtree").Logger()
	}
}

// WithIDGenerator overrides node ID generation, e.g. to restore nodes
// with their saved IDs.
func WithIDGenerator(gen func() entity.NodeID) Option {
	return func(tt *TabTree) {
		tt.genID = gen
	}
}

// New creates an empty tab tree with the given positional policy.
func New(policy Policy, opts ...Option) (*TabTree, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	tt := &TabTree{
		nodes:  make(map[entity.NodeID]*entity.Node),
		policy: policy,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(tt)
	}
	if tt.genID == nil {
		tt.genID = func() entity.NodeID {
			tt.idCounter++
			return entity.NodeID(fmt.Sprintf("n%d", tt.idCounter))
		}
	}
	return tt, nil
}

// Policy returns the positional policy in effect.
func (tt *TabTree) Policy() Policy {
	return tt.policy
}

// SetPolicy swaps the positional policy, e.g. after a config reload.
func (tt *TabTree) SetPolicy(policy Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	tt.policy = policy
	return nil
}

// Roots returns the top-level nodes in display order.
func (tt *TabTree) Roots() []*entity.Node {
	roots := make([]*entity.Node, len(tt.roots))
	copy(roots, tt.roots)
	return roots
}

// Len returns the total number of attached nodes.
func (tt *TabTree) Len() int {
	return len(tt.nodes)
}

// Contains reports whether the node is attached to this tree.
func (tt *TabTree) Contains(n *entity.Node) bool {
	if n == nil {
		return false
	}
	return tt.nodes[n.ID] == n
}

// NodeByID looks up an attached node by ID.
func (tt *TabTree) NodeByID(id entity.NodeID) (*entity.Node, bool) {
	n, ok := tt.nodes[id]
	return n, ok
}

// Traverse yields the subtree rooted at n in depth-first, children-in-order
// sequence, n included. The sequence is lazy and restartable. Collapse
// state is deliberately ignored: collapse only affects VisibleOrder, which
// is a separate projection layered on top of plain traversal.
func (tt *TabTree) Traverse(n *entity.Node) iter.Seq[*entity.Node] {
	return func(yield func(*entity.Node) bool) {
		if !tt.Contains(n) {
			return
		}
		n.Walk(yield)
	}
}

// All yields every attached node, root order first, then depth-first
// within each root. Collapse-oblivious, like Traverse.
func (tt *TabTree) All() iter.Seq[*entity.Node] {
	return func(yield func(*entity.Node) bool) {
		var walk func(*entity.Node) bool
		walk = func(n *entity.Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range n.Children {
				if !walk(child) {
					return false
				}
			}
			return true
		}
		for _, root := range tt.roots {
			if !walk(root) {
				return
			}
		}
	}
}

// Path returns the nodes from the containing root down to n, inclusive.
func (tt *TabTree) Path(n *entity.Node) ([]*entity.Node, error) {
	if !tt.Contains(n) {
		return nil, ErrUnknownNode
	}
	return n.Path(), nil
}

// Depth returns the 0-based ancestor count of n.
func (tt *TabTree) Depth(n *entity.Node) (int, error) {
	if !tt.Contains(n) {
		return 0, ErrUnknownNode
	}
	return n.Depth(), nil
}

// SetCollapsed toggles the advisory collapse flag. No structural change:
// descendants of a collapsed node stay attached and keep running, they are
// only skipped by the visible-order projection.
func (tt *TabTree) SetCollapsed(n *entity.Node, collapsed bool) error {
	if !tt.Contains(n) {
		return ErrUnknownNode
	}
	n.Collapsed = collapsed
	tt.logger.Debug().
		Str("node_id", string(n.ID)).
		Bool("collapsed", collapsed).
		Msg("collapse state changed")
	return nil
}

// siblingsOf returns the list the node lives in: its parent's children, or
// the root list for top-level nodes, along with the node's index there.
// The index is -1 if the node is not present, which means tree corruption.
func (tt *TabTree) siblingsOf(n *entity.Node) (siblings []*entity.Node, index int) {
	siblings = tt.roots
	if n.Parent != nil {
		siblings = n.Parent.Children
	}
	for i, sib := range siblings {
		if sib == n {
			return siblings, i
		}
	}
	return siblings, -1
}

// insertAt attaches an already-detached node under parent (nil for the
// root list) at the given index, fixing up both views of the edge.
func (tt *TabTree) insertAt(n *entity.Node, parent *entity.Node, index int) {
	n.Parent = parent
	if parent == nil {
		tt.roots = insertNode(tt.roots, n, index)
		return
	}
	parent.Children = insertNode(parent.Children, n, index)
}

// detach unlinks n from its parent (or the root list), returning the
// former parent and index so callers can reverse the edit. The subtree
// below n stays intact.
func (tt *TabTree) detach(n *entity.Node) (parent *entity.Node, index int) {
	parent = n.Parent
	if parent == nil {
		tt.roots, index = removeNode(tt.roots, n)
	} else {
		parent.Children, index = removeNode(parent.Children, n)
	}
	n.Parent = nil
	return parent, index
}

// register adds the subtree rooted at n to the membership index.
func (tt *TabTree) register(n *entity.Node) {
	n.Walk(func(node *entity.Node) bool {
		tt.nodes[node.ID] = node
		return true
	})
}

// unregister removes the subtree rooted at n from the membership index.
func (tt *TabTree) unregister(n *entity.Node) {
	n.Walk(func(node *entity.Node) bool {
		delete(tt.nodes, node.ID)
		return true
	})
}

func insertNode(list []*entity.Node, n *entity.Node, index int) []*entity.Node {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	list = append(list, nil)
	copy(list[index+1:], list[index:])
	list[index] = n
	return list
}

func removeNode(list []*entity.Node, n *entity.Node) ([]*entity.Node, int) {
	for i, cur := range list {
		if cur == n {
			return append(list[:i], list[i+1:]...), i
		}
	}
	return list, -1
}
