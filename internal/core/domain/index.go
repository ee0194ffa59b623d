package domain

import "time"

// IndexReport summarises one index pass.
type IndexReport struct {
	// StartedAt is the pass start time. The watermark advances to this value.
	StartedAt time.Time

	// Incremental is true when a watermark limited the selection.
	Incremental bool

	// Selected is the number of documents chosen for the pass.
	Selected int

	// Indexed is the number of documents re-embedded successfully.
	Indexed int

	// Skipped counts documents that produced no chunks.
	Skipped int

	// Cleared counts archived documents whose derived data was removed.
	Cleared int

	// Failed counts documents whose processing returned an error.
	Failed int

	// WatermarkAdvanced reports whether the watermark moved.
	WatermarkAdvanced bool
}
