// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/tabtree/internal/cli/styles"
	"github.com/bnema/tabtree/internal/domain/entity"
	"github.com/bnema/tabtree/internal/domain/repository"
	"github.com/bnema/tabtree/internal/logging"
	"github.com/bnema/tabtree/internal/session"
	"github.com/bnema/tabtree/internal/tree"
)

// SessionsModel is the Bubble Tea model for the interactive session browser.
type SessionsModel struct {
	help help.Model
	keys sessionsKeyMap

	summaries   []repository.SessionSummary
	previews    map[entity.SessionID]string
	trees       map[entity.SessionID]*tree.TabTree
	folded      map[entity.SessionID]bool
	selectedIdx int
	expanded    bool
	confirming  bool
	status      string
	err         error
	width       int
	height      int

	ctx    context.Context
	repo   repository.SessionStateRepository
	policy tree.Policy
	theme  *styles.Theme
	limit  int
}

// sessionsKeyMap defines keybindings for the session browser.
type sessionsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Expand  key.Binding
	Fold    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k sessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Fold, k.Delete, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k sessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Fold},
		{k.Delete, k.Refresh, k.Quit},
	}
}

func defaultSessionsKeyMap() sessionsKeyMap {
	return sessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "tab"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Fold: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "fold/unfold tree"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SessionsModelConfig wires dependencies into the model.
type SessionsModelConfig struct {
	Repo   repository.SessionStateRepository
	Policy tree.Policy
	Limit  int
}

// NewSessionsModel creates the interactive session browser.
func NewSessionsModel(ctx context.Context, theme *styles.Theme, cfg SessionsModelConfig) SessionsModel {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 20
	}
	return SessionsModel{
		help:     help.New(),
		keys:     defaultSessionsKeyMap(),
		previews: make(map[entity.SessionID]string),
		trees:    make(map[entity.SessionID]*tree.TabTree),
		folded:   make(map[entity.SessionID]bool),
		ctx:      ctx,
		repo:     cfg.Repo,
		policy:   cfg.Policy,
		theme:    theme,
		limit:    limit,
	}
}

type sessionsLoadedMsg struct {
	summaries []repository.SessionSummary
	err       error
}

type previewLoadedMsg struct {
	id      entity.SessionID
	tree    *tree.TabTree
	preview string
	err     error
}

type sessionDeletedMsg struct {
	id  entity.SessionID
	err error
}

// Init loads the session list.
func (m SessionsModel) Init() tea.Cmd {
	return m.loadSessions()
}

func (m SessionsModel) loadSessions() tea.Cmd {
	return func() tea.Msg {
		summaries, err := m.repo.ListSnapshots(m.ctx, m.limit)
		return sessionsLoadedMsg{summaries: summaries, err: err}
	}
}

func (m SessionsModel) loadPreview(id entity.SessionID) tea.Cmd {
	return func() tea.Msg {
		state, err := m.repo.GetSnapshot(m.ctx, id)
		if err != nil {
			return previewLoadedMsg{id: id, err: err}
		}
		if state == nil {
			return previewLoadedMsg{id: id, err: fmt.Errorf("session %s vanished", id)}
		}
		tt, err := session.Restore(state, m.policy)
		if err != nil {
			return previewLoadedMsg{id: id, err: err}
		}
		return previewLoadedMsg{id: id, tree: tt, preview: styles.RenderTree(m.theme, tt)}
	}
}

func (m SessionsModel) deleteSelected() tea.Cmd {
	id := m.summaries[m.selectedIdx].Session
	return func() tea.Msg {
		err := m.repo.DeleteSnapshot(m.ctx, id)
		return sessionDeletedMsg{id: id, err: err}
	}
}

// Update handles messages.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionsLoadedMsg:
		m.err = msg.err
		m.summaries = msg.summaries
		if m.selectedIdx >= len(m.summaries) {
			m.selectedIdx = max(0, len(m.summaries)-1)
		}
		return m, nil

	case previewLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.previews[msg.id] = msg.preview
		m.trees[msg.id] = msg.tree
		return m, nil

	case sessionDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		delete(m.previews, msg.id)
		delete(m.trees, msg.id)
		delete(m.folded, msg.id)
		m.status = fmt.Sprintf("deleted %s", msg.id)
		logging.FromContext(m.ctx).Info().
			Str("session_id", string(msg.id)).
			Msg("session deleted from browser")
		return m, m.loadSessions()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m SessionsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" {
			return m, m.deleteSelected()
		}
		m.status = "delete cancelled"
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
			m.expanded = false
		}

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.summaries)-1 {
			m.selectedIdx++
			m.expanded = false
		}

	case key.Matches(msg, m.keys.Expand):
		if len(m.summaries) == 0 {
			break
		}
		m.expanded = !m.expanded
		if m.expanded {
			id := m.summaries[m.selectedIdx].Session
			if _, ok := m.previews[id]; !ok {
				return m, m.loadPreview(id)
			}
		}

	case key.Matches(msg, m.keys.Fold):
		if !m.expanded || len(m.summaries) == 0 {
			break
		}
		id := m.summaries[m.selectedIdx].Session
		tt, ok := m.trees[id]
		if !ok {
			break
		}
		m.folded[id] = !m.folded[id]
		for n := range tt.All() {
			if len(n.Children) > 0 {
				_ = tt.SetCollapsed(n, m.folded[id])
			}
		}
		m.previews[id] = styles.RenderTree(m.theme, tt)

	case key.Matches(msg, m.keys.Delete):
		if len(m.summaries) > 0 {
			m.confirming = true
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadSessions()
	}

	return m, nil
}

// View renders the browser.
func (m SessionsModel) View() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("Saved tab trees"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if len(m.summaries) == 0 {
		b.WriteString(t.Subtle.Render("  no saved sessions"))
		b.WriteString("\n")
	}

	for i, s := range m.summaries {
		cursor := "  "
		style := t.ListItem
		if i == m.selectedIdx {
			cursor = "> "
			style = t.ListItemSelected
		}

		row := fmt.Sprintf("%s%s  %s", cursor,
			style.Render(string(s.Session)),
			t.Subtle.Render(fmt.Sprintf("%d tabs, saved %s", s.TabCount, s.SavedAt.Format("2006-01-02 15:04"))),
		)
		b.WriteString(row)
		b.WriteByte('\n')

		if i == m.selectedIdx && m.expanded {
			preview, ok := m.previews[s.Session]
			if !ok {
				preview = t.Subtle.Render("  loading...") + "\n"
			}
			for _, line := range strings.Split(strings.TrimRight(preview, "\n"), "\n") {
				b.WriteString("    " + line + "\n")
			}
		}
	}

	b.WriteByte('\n')
	if m.confirming {
		b.WriteString(t.ErrorStyle.Render("delete selected session? (y/n)"))
	} else if m.status != "" {
		b.WriteString(t.Subtle.Render(m.status))
	}
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
