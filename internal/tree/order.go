package tree

import (
	"github.com/bnema/tabtree/internal/domain/entity"
)

// VisibleOrder computes the flat sequence of nodes the tab strip shows:
// a depth-first traversal of all roots in display order that skips the
// children of any collapsed node. Positions in the returned slice are the
// authoritative mapping to tab-strip widget indices.
//
// The full sequence is recomputed on every call. Trees top out at a few
// hundred nodes, so callers refresh the whole strip after each mutation
// rather than tracking deltas.
func (tt *TabTree) VisibleOrder() []*entity.Node {
	var order []*entity.Node
	var visit func(*entity.Node)
	visit = func(n *entity.Node) {
		order = append(order, n)
		if n.Collapsed {
			return
		}
		for _, child := range n.Children {
			visit(child)
		}
	}
	for _, root := range tt.roots {
		visit(root)
	}
	return order
}

// VisibleIndex returns n's position in the visible order, or false when n
// is detached or hidden inside a collapsed subtree.
func (tt *TabTree) VisibleIndex(n *entity.Node) (int, bool) {
	if !tt.Contains(n) {
		return 0, false
	}
	for i, node := range tt.VisibleOrder() {
		if node == n {
			return i, true
		}
	}
	return 0, false
}

// Row is one visible tab-strip entry plus the structural bits a renderer
// needs to draw tree-line glyphs beside it: the node's depth and, for the
// node and each ancestor level, whether that path element is the last
// among its siblings.
type Row struct {
	Node  *entity.Node
	Depth int
	// Last has Depth+1 entries. Last[i] tells whether the path element at
	// depth i is the last of its sibling list (the root list for i == 0).
	// Renderers draw a continuation bar for false, blank space for true,
	// and pick the branch glyph for the node from the final entry.
	Last []bool
}

// VisibleRows computes the visible order together with render hints.
// Together with each tab's title this is sufficient input for a caller-
// side renderer; no caller should need to walk node links to draw a strip.
func (tt *TabTree) VisibleRows() []Row {
	var rows []Row
	var visit func(n *entity.Node, last []bool)
	visit = func(n *entity.Node, last []bool) {
		rows = append(rows, Row{
			Node:  n,
			Depth: len(last) - 1,
			Last:  append([]bool(nil), last...),
		})
		if n.Collapsed {
			return
		}
		for i, child := range n.Children {
			visit(child, append(last, i == len(n.Children)-1))
		}
	}
	for i, root := range tt.roots {
		visit(root, []bool{i == len(tt.roots)-1})
	}
	return rows
}
