package entity

// NodeID uniquely identifies a node within a tab tree.
type NodeID string

// Node represents one tab's position in the hierarchy. A node has at most
// one parent (nil for top-level roots) and an ordered list of children; the
// children order defines display order among siblings.
//
// Parent and Children are two views of the same edge and must stay
// consistent. Only the TabTree aggregate may mutate them; everything
// exported here is read-only.
type Node struct {
	ID        NodeID
	Tab       *Tab
	Parent    *Node
	Children  []*Node
	Collapsed bool
}

// IsRoot returns true if this node has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// Root returns the top-level ancestor of this node (itself for roots).
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Depth returns the 0-based count of ancestors. Roots have depth 0.
func (n *Node) Depth() int {
	depth := 0
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		depth++
	}
	return depth
}

// Path returns the nodes from the root down to this node, inclusive.
// Root-first order matches breadcrumb consumption.
func (n *Node) Path() []*Node {
	var rev []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		rev = append(rev, cur)
	}
	path := make([]*Node, len(rev))
	for i, node := range rev {
		path[len(rev)-1-i] = node
	}
	return path
}

// HasAncestor reports whether other is a strict ancestor of this node.
func (n *Node) HasAncestor(other *Node) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Index returns this node's position within its parent's children list,
// or -1 if the parent does not reference it. Roots return -1; the tree
// tracks root order separately.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, child := range n.Parent.Children {
		if child == n {
			return i
		}
	}
	return -1
}

// PrevSibling returns the sibling immediately before this node, or nil.
func (n *Node) PrevSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	if idx := n.Index(); idx > 0 {
		return n.Parent.Children[idx-1]
	}
	return nil
}

// NextSibling returns the sibling immediately after this node, or nil.
func (n *Node) NextSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	idx := n.Index()
	if idx >= 0 && idx+1 < len(n.Parent.Children) {
		return n.Parent.Children[idx+1]
	}
	return nil
}

// IsLastChild returns true if this node is the last of its parent's
// children. Roots report false; the tree knows root order, nodes do not.
func (n *Node) IsLastChild() bool {
	if n.Parent == nil {
		return false
	}
	children := n.Parent.Children
	return len(children) > 0 && children[len(children)-1] == n
}

// Walk traverses the subtree rooted at this node in depth-first,
// children-in-order sequence, calling fn for each node. Traversal stops
// early if fn returns false. Collapse state is ignored: Walk sees every
// attached descendant.
func (n *Node) Walk(fn func(*Node) bool) {
	n.walk(fn)
}

func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.walk(fn) {
			return false
		}
	}
	return true
}

// Find searches the subtree for a node with the given ID.
func (n *Node) Find(id NodeID) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// DescendantCount returns the number of nodes in the subtree, excluding
// this node itself.
func (n *Node) DescendantCount() int {
	count := -1
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
