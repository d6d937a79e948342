// Package ui layout constants for consistent spacing and dimensions
package ui

const (
	HeaderHeight  = 2
	FooterHeight  = 2
	TabBarHeight  = 2
	ContentIndent = 2

	// Detail pane takes this share of the width on the catalog pages.
	DetailPaneRatio = 0.4

	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 20
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	if width < MinimumTerminalWidth {
		width = MinimumTerminalWidth
	}
	if height < MinimumTerminalHeight {
		height = MinimumTerminalHeight
	}
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// PageHeight is the height left for a page below the header and above the footer.
func (l LayoutConfig) PageHeight() int {
	return l.TerminalHeight - HeaderHeight - FooterHeight
}

// SplitWidths returns the list and detail pane widths. In compact mode the
// detail pane is hidden.
func (l LayoutConfig) SplitWidths() (list, detail int) {
	if l.IsCompact {
		return l.TerminalWidth, 0
	}
	detail = int(float64(l.TerminalWidth) * DetailPaneRatio)
	return l.TerminalWidth - detail, detail
}
