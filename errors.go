package permem

import "errors"

var (
	// ErrRegionTooSmall is returned when the backing buffer cannot even hold
	// a region header.
	ErrRegionTooSmall = errors.New("permem: region too small for header")
	// ErrBadPageSize is returned when PageSize is zero, not a power of two,
	// or does not evenly divide TotalSize.
	ErrBadPageSize = errors.New("permem: page size must be a power of two dividing total size")
	// ErrBadAlignment is returned when AllocAlignment is not a power of two
	// at least as large as the natural word alignment.
	ErrBadAlignment = errors.New("permem: alloc alignment must be a power of two >= word size")
	// ErrTotalSizeTooLarge is returned when TotalSize exceeds the maximum a
	// 31-bit signed reference space can address.
	ErrTotalSizeTooLarge = errors.New("permem: total size exceeds 2^31-1")
	// ErrUninitialized is returned when a read-only caller attaches to a
	// region whose cookie has never been written.
	ErrUninitialized = errors.New("permem: region has never been initialized")
	// ErrReadOnly is returned by backing-variant constructors that were
	// asked to initialize a fresh region while read-only.
	ErrReadOnly = errors.New("permem: cannot initialize a fresh region read-only")
)
