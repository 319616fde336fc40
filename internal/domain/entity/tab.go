// Package entity contains domain entities representing core business concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

import "time"

// TabID uniquely identifies a tab.
type TabID string

// Tab is the payload carried by a tree node. The tree treats it as opaque:
// nothing here is inspected when deciding structure, only carried along so
// hosts can map nodes back to their own tab objects.
type Tab struct {
	ID        TabID
	URI       string
	Title     string
	IsPinned  bool
	CreatedAt time.Time
}

// NewTab creates a new tab with default values.
func NewTab(id TabID) *Tab {
	return &Tab{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// DisplayTitle returns the display title for the tab.
// Falls back to the URI, then to "New Tab".
func (t *Tab) DisplayTitle() string {
	if t == nil {
		return "New Tab"
	}
	if t.Title != "" {
		return t.Title
	}
	if t.URI != "" {
		return t.URI
	}
	return "New Tab"
}
