// Package tourguide provides the product tour engine: a state machine that
// walks a visitor through spotlighted steps over elements of a host page.
package tourguide

import "fmt"

// Page represents a parsed landing page with its embedded tour.
type Page struct {
	ID         string
	Title      string
	SourceFile string // Absolute path to source .md file (for error messages)
	StaticHTML string // Rendered page body the tour targets
	Steps      []StepDescriptor
	Tour       TourConfig
}

// TourConfig contains page-level tour behaviour.
type TourConfig struct {
	AutoStart      bool
	InitialStep    int
	HighlightClass string
}

// DefaultHighlightClass is the marker class applied to the active target.
const DefaultHighlightClass = "tour-highlight"

// Stacking layers for tour chrome. Each sits above ordinary page content
// and the order highlight < tooltip < controls never changes.
const (
	LayerHighlight = 1000
	LayerTooltip   = 1010
	LayerControls  = 1020
)

// Position is the preferred tooltip placement relative to the target.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
	PositionCenter Position = "center"
)

// Valid reports whether p is one of the known placements.
func (p Position) Valid() bool {
	switch p {
	case PositionTop, PositionBottom, PositionLeft, PositionRight, PositionCenter:
		return true
	}
	return false
}

// ParsePosition converts a frontmatter value into a Position.
// An empty value means bottom.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return PositionBottom, nil
	}
	p := Position(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown position %q", s)
	}
	return p, nil
}

// StepDescriptor is one static entry of the tour table.
type StepDescriptor struct {
	StepIndex int      `yaml:"step"`
	Target    string   `yaml:"target"` // CSS selector resolved at presentation time
	Title     string   `yaml:"title"`
	Content   string   `yaml:"content"` // Markdown
	Position  Position `yaml:"position"`
}

// New creates a new Page with the given ID.
func New(id string) *Page {
	return &Page{
		ID: id,
		Tour: TourConfig{
			HighlightClass: DefaultHighlightClass,
		},
	}
}
