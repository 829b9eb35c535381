package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which stage cards collapse into
	// single lines.
	LayoutCompactWidth = 84

	// LayoutDetailWidth is the minimum width to show page counts and sizes in
	// the file list.
	LayoutDetailWidth = 100
)

// cardHeight is the rendered height of a stage card including borders.
const cardHeight = 6
