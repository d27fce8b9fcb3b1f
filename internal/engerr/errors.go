// Package engerr is the engine's closed error taxonomy (spec.md §7).
// It is a leaf package on purpose: raster, writer, and job all need to
// classify failures the same way, and job needs to import the others,
// so the sentinel types live here rather than in internal/job to avoid
// an import cycle.
package engerr

import "errors"

// Kind classifies an engine failure for JobController's error-handling
// policy (spec.md §7).
type Kind int

const (
	KindValidation Kind = iota
	KindSourceUnavailable
	KindSourceCorrupt
	KindWriteFailed
	KindCancelled
	KindTimedOut
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindSourceUnavailable:
		return "source_unavailable"
	case KindSourceCorrupt:
		return "source_corrupt"
	case KindWriteFailed:
		return "write_failed"
	case KindCancelled:
		return "cancelled"
	case KindTimedOut:
		return "timed_out"
	default:
		return "internal"
	}
}

// Error wraps an underlying cause with the Kind the controller needs in
// order to decide how the job transitions.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Validation wraps an admission-time failure (spec.md §4.9
// PENDING→FAILED, and the admission path that never reaches PENDING).
func Validation(msg string, err error) error { return newErr(KindValidation, msg, err) }

// SourceUnavailable wraps a transport failure reading a RasterSource.
func SourceUnavailable(msg string, err error) error { return newErr(KindSourceUnavailable, msg, err) }

// SourceCorrupt wraps a malformed-COG failure.
func SourceCorrupt(msg string, err error) error { return newErr(KindSourceCorrupt, msg, err) }

// WriteFailed wraps a ResultWriter upload failure.
func WriteFailed(msg string, err error) error { return newErr(KindWriteFailed, msg, err) }

// Cancelled marks a job that observed its cancellation flag at a stage
// boundary.
func Cancelled() error { return newErr(KindCancelled, "cancelled", nil) }

// TimedOut marks a job that exceeded its soft time budget.
func TimedOut() error { return newErr(KindTimedOut, "timeout_soft", nil) }

// Internal wraps any other unexpected condition.
func Internal(msg string, err error) error { return newErr(KindInternal, msg, err) }

// KindOf classifies err, defaulting to KindInternal for anything not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// OutOfCoverage is a sentinel, not a Kind: an AOI disjoint from a
// source's coverage is not a failure (spec.md §4.1) — RasterSource
// returns an all-no-data array, never this error, for read_window/
// read_warped. No function in the engine returns it: Source.Sample
// reports an out-of-coverage coordinate as ok=false with a nil error.
var OutOfCoverage = errors.New("raster: out of coverage")
