// Package style provides shared UI styling primitives including brand colors
// and glyphs for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// SourceColor returns the color used to label packages from the named source.
func SourceColor(source string) lipgloss.Color {
	switch source {
	case "workspace":
		return Green
	case "framework":
		return Iris
	case "registry":
		return Yellow
	default:
		return Slate
	}
}

// Icons.
const (
	Check     = "✓"
	Cross     = "✗"
	Warning   = "!"
	Tilde     = "~"
	Arrow     = "→"
	BackArrow = "←"
	Plus      = "+"
	Minus     = "-"
)

// Tree glyphs.
const (
	TreeBranch = "├── "
	TreeLast   = "└── "
	TreePipe   = "│   "
	TreeSpace  = "    "
	TreeSeen   = " (*)"
)
