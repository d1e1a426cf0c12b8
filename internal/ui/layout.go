package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the plot column.
	LayoutWideWidth = 140
)

// Modal widths.
const (
	FormModalWidth   = 72
	DeleteModalWidth = 52
)

// Activity view limits.
const (
	// ActivityLineLimit is the maximum number of log lines kept in the viewport.
	ActivityLineLimit = 2000
)

// Timing constants.
const (
	// ToastLifetime is how long a notification stays in the header.
	ToastLifetime = 4 * time.Second

	// ActivityRefreshInterval is how often the Activity view rereads the log.
	ActivityRefreshInterval = 2 * time.Second
)
