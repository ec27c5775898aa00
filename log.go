package permem

import "go.uber.org/zap"

// loggerOrDefault returns l, or a no-op logger if l is nil. The core only
// logs at rare state transitions (attach, init, first corruption, first
// full) -- never inside a CAS retry loop -- so the default cost is zero.
func loggerOrDefault(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
