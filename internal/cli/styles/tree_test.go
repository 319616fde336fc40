package styles

import (
	"strings"
	"testing"

	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/tree"
)

func buildRenderTree(t *testing.T) *tree.TabTree {
	t.Helper()

	tt, err := tree.New(tree.DefaultPolicy())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	add := func(title string, anchor *entity.Node, placement entity.Placement) *entity.Node {
		tab := entity.NewTab(entity.TabID(title))
		tab.Title = title
		n, err := tt.CreateNode(tab, anchor, placement)
		if err != nil {
			t.Fatalf("CreateNode(%s): %v", title, err)
		}
		return n
	}

	a := add("A", nil, entity.PlacementUnrelated)
	b := add("B", a, entity.PlacementRelated)
	add("C", a, entity.PlacementRelated)
	add("D", b, entity.PlacementRelated)
	return tt
}

func TestRenderTreeGlyphs(t *testing.T) {
	tt := buildRenderTree(t)
	out := RenderTree(NewTheme(), tt)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}

	checks := []struct{ line, want string }{
		{lines[0], "A"},
		{lines[1], "├── B"},
		{lines[2], "│   └── D"},
		{lines[3], "└── C"},
	}
	for i, c := range checks {
		if !strings.Contains(c.line, c.want) {
			t.Errorf("line %d = %q, want it to contain %q", i, c.line, c.want)
		}
	}
}

func TestRenderTreeCollapsedMarker(t *testing.T) {
	tt := buildRenderTree(t)
	var b *entity.Node
	for n := range tt.All() {
		if n.Tab.Title == "B" {
			b = n
		}
	}
	if err := tt.SetCollapsed(b, true); err != nil {
		t.Fatalf("SetCollapsed: %v", err)
	}

	out := RenderTree(NewTheme(), tt)
	if strings.Contains(out, "D") {
		t.Fatalf("collapsed descendant rendered:\n%s", out)
	}
	if !strings.Contains(out, "[+1]") {
		t.Fatalf("missing hidden-count marker:\n%s", out)
	}
}
