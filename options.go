package permem

import "go.uber.org/zap"

const (
	// DefaultPageSize is used by DefaultOptions. 64 KiB matches the block
	// size the original allocator's own test suite exercises.
	DefaultPageSize = 64 * 1024
	// DefaultAllocAlignment is used by DefaultOptions. 8 bytes covers the
	// natural alignment of every scalar type on both 32- and 64-bit
	// platforms.
	DefaultAllocAlignment = 8
)

// Options configures Region construction. Only ID, Name, PageSize, and
// AllocAlignment are persisted (written into the region header on first
// initialization) and are ignored when attaching to an already-initialized
// region; the rest are process-local behavior knobs that apply to every
// Open, fresh or attaching.
type Options struct {
	// ID is a caller-chosen identifier persisted on first initialization.
	// Ignored when attaching to an existing region (spec section 4.1).
	ID uint32
	// Name is persisted as a NUL-terminated blob on first initialization.
	// Ignored when attaching to an existing region.
	Name string
	// PageSize is the allocation quantum; allocations never straddle a
	// PageSize boundary. Must be a power of two dividing TotalSize.
	// Ignored when attaching.
	PageSize uint32
	// AllocAlignment is applied to every block. Must be a power of two
	// >= 8. Ignored when attaching.
	AllocAlignment uint32
	// ReadOnly puts every mutating call into no-op mode.
	ReadOnly bool
	// PanicOnInvalidAlloc turns a size==0 or oversized Allocate request
	// into a panic instead of a silent 0 return, matching the "debug
	// build aborts" behavior spec section 7 describes. Default false.
	PanicOnInvalidAlloc bool
	// Recorder receives allocation/full/corrupt events. Defaults to a
	// no-op.
	Recorder Recorder
	// Logger receives rare state-transition log lines. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// DefaultOptions returns sensible defaults for a fresh region: 64 KiB
// pages, 8-byte alignment, read-write, no-op recorder and logger.
func DefaultOptions() Options {
	return Options{
		PageSize:       DefaultPageSize,
		AllocAlignment: DefaultAllocAlignment,
	}
}

func recorderOrDefault(r Recorder) Recorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
