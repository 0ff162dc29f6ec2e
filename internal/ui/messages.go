package ui

// FileStartMsg indicates that a kernel has started generating.
type FileStartMsg struct {
	Index int
}

// FileCompleteMsg indicates that a kernel has been generated and written,
// or that either step failed.
type FileCompleteMsg struct {
	Index   int
	Samples int
	DRR     float64 // achieved direct-to-reverberant ratio in dB
	InBand  bool    // DRR landed within the target band
	Err     error
}

// AllCompleteMsg indicates that the batch has finished.
type AllCompleteMsg struct{}
