package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabtree/internal/tree"
)

// RenderTree draws the visible rows of a tab tree with tree-line glyphs,
// one row per visible tab. Collapsed nodes get a [+N] marker showing how
// many descendants are hidden.
func RenderTree(t *Theme, tt *tree.TabTree) string {
	treeStyle := lipgloss.NewStyle().Foreground(t.Border)
	var b strings.Builder

	for _, row := range tt.VisibleRows() {
		b.WriteString(renderRow(t, treeStyle, row))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderRow(t *Theme, treeStyle lipgloss.Style, row tree.Row) string {
	var prefix strings.Builder
	for i := 0; i < row.Depth; i++ {
		if row.Last[i] {
			prefix.WriteString("    ")
		} else {
			prefix.WriteString("│   ")
		}
	}
	if row.Depth > 0 {
		if row.Last[row.Depth] {
			prefix.WriteString("└── ")
		} else {
			prefix.WriteString("├── ")
		}
	}

	title := row.Node.Tab.DisplayTitle()
	const maxTitleLen = 60
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	line := treeStyle.Render(prefix.String()) + t.Normal.Render(title)
	if row.Node.Collapsed {
		hidden := row.Node.DescendantCount()
		line += " " + t.Subtle.Render(fmt.Sprintf("[+%d]", hidden))
	}
	return line
}
