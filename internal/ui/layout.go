package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops hints
	// and list rows omit the thumbnail line.
	LayoutCompactWidth = 80

	// LayoutDefaultWidth is assumed until the first WindowSizeMsg arrives.
	LayoutDefaultWidth = 100

	// LayoutDefaultHeight is assumed until the first WindowSizeMsg arrives.
	LayoutDefaultHeight = 30
)

// Vertical chrome around the content area.
const (
	headerHeight     = 1
	commandBarHeight = 1
	inputHeight      = 3 // bordered single line
)

// Rows in the result list.
const (
	rowHeight        = 3 // title, authors, thumbnail
	compactRowHeight = 2
)
