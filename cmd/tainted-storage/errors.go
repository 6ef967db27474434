package main

import "errors"

// Sentinel errors for the CLI boundary (spec's ambient "error handling"
// section): every error run() returns wraps exactly one of these,
// the way gosec's cmd/gosec distinguishes config, scan, and report
// failures by call site rather than by error type.
var (
	// ErrSnapshotLoad covers a missing, unreadable, or malformed snapshot
	// file (file-not-found, bad JSON, or a reference to an unknown
	// variable/function within the snapshot).
	ErrSnapshotLoad = errors.New("tainted-storage: failed to load snapshot")

	// ErrReportWrite covers an unknown report format or a failure to open
	// or write the output file.
	ErrReportWrite = errors.New("tainted-storage: failed to write report")

	// ErrStrictLayoutMiss covers a storage-layout lookup miss surfaced as
	// a hard failure because -strict was requested (see detectors.Config.Strict).
	ErrStrictLayoutMiss = errors.New("tainted-storage: storage layout miss under -strict")
)

const (
	exitOK = 0
	exitUsageError = 1
	exitRuntimeError = 2
)

// exitFromError maps a run() error to a process exit code.
func exitFromError(err error) int {
	if err == nil {
		return exitOK
	}
	return exitRuntimeError
}
