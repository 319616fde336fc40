package entity

import "fmt"

// Placement classifies how a new tab relates to the anchor tab. The
// classification itself (link in page, explicit command, external open)
// happens in the host; the tree only consumes the result.
type Placement int

const (
	PlacementUnrelated Placement = iota // New top-level root
	PlacementSibling                    // Next to the anchor, same parent
	PlacementRelated                    // Child of the anchor
)

// String returns the config-file spelling of the placement.
func (p Placement) String() string {
	switch p {
	case PlacementUnrelated:
		return "unrelated"
	case PlacementSibling:
		return "sibling"
	case PlacementRelated:
		return "related"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

// ParsePlacement parses the config-file spelling of a placement.
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "unrelated":
		return PlacementUnrelated, nil
	case "sibling":
		return PlacementSibling, nil
	case "related":
		return PlacementRelated, nil
	default:
		return 0, fmt.Errorf("unknown placement %q", s)
	}
}

// Position selects where an insertion lands relative to an anchor node:
// at either end of the target children list, or directly adjacent to the
// anchor.
type Position int

const (
	PositionFirst Position = iota
	PositionLast
	PositionNext
	PositionPrev
)

// String returns the config-file spelling of the position.
func (p Position) String() string {
	switch p {
	case PositionFirst:
		return "first"
	case PositionLast:
		return "last"
	case PositionNext:
		return "next"
	case PositionPrev:
		return "prev"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// ParsePosition parses the config-file spelling of a position.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "first":
		return PositionFirst, nil
	case "last":
		return PositionLast, nil
	case "next":
		return PositionNext, nil
	case "prev":
		return PositionPrev, nil
	default:
		return 0, fmt.Errorf("unknown position %q", s)
	}
}

// EndOnly reports whether the position is one of the two ends. New-child
// and demote insertions only accept end positions: "next to the anchor"
// has no meaning when the target list gains its first entry from the
// anchor's perspective.
func (p Position) EndOnly() bool {
	return p == PositionFirst || p == PositionLast
}
