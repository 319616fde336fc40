package tree

import (
	"fmt"

	"github.com/bnema/tabtree/internal/domain/entity"
)

// Check validates the structural invariants of the whole forest: every
// child's parent pointer matches the list that holds it, no node appears
// twice, no node is its own ancestor, and the membership index agrees
// with what is reachable from the roots.
//
// Violations are unreachable through the public API; a non-nil result
// means a bug in the tree itself, not bad input. Tests run Check after
// every mutation in randomized sequences.
func (tt *TabTree) Check() error {
	seen := make(map[*entity.Node]struct{}, len(tt.nodes))

	for _, root := range tt.roots {
		if root.Parent != nil {
			return fmt.Errorf("root %s has parent %s", root.ID, root.Parent.ID)
		}
		if err := tt.checkSubtree(root, seen); err != nil {
			return err
		}
	}

	if len(seen) != len(tt.nodes) {
		return fmt.Errorf("membership index tracks %d nodes, forest holds %d", len(tt.nodes), len(seen))
	}

	return nil
}

func (tt *TabTree) checkSubtree(n *entity.Node, seen map[*entity.Node]struct{}) error {
	if _, dup := seen[n]; dup {
		return fmt.Errorf("node %s reachable twice", n.ID)
	}
	seen[n] = struct{}{}

	if indexed, ok := tt.nodes[n.ID]; !ok || indexed != n {
		return fmt.Errorf("node %s missing from membership index", n.ID)
	}

	if n.HasAncestor(n) {
		return fmt.Errorf("node %s is its own ancestor", n.ID)
	}

	childSeen := make(map[*entity.Node]struct{}, len(n.Children))
	for _, child := range n.Children {
		if child == nil {
			return fmt.Errorf("node %s has nil child", n.ID)
		}
		if _, dup := childSeen[child]; dup {
			return fmt.Errorf("node %s lists child %s twice", n.ID, child.ID)
		}
		childSeen[child] = struct{}{}

		if child.Parent != n {
			return fmt.Errorf("child %s of %s points at wrong parent", child.ID, n.ID)
		}
		if err := tt.checkSubtree(child, seen); err != nil {
			return err
		}
	}

	return nil
}
