package pipeline

import "errors"

// Whole-file error conditions. Both are fatal to the file they occur on and
// to that file only; the orchestrator records them and moves on.
var (
	// ErrFileNotFound reports that the resolved input path does not exist.
	ErrFileNotFound = errors.New("input file not found")

	// ErrUnsupportedFormat reports a file extension outside the supported
	// set (.csv, .xlsx, .xls).
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
