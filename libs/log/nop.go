package log

// nopLogger drops everything. It cannot be reconfigured with
// OverrideWithNewLogger.
type nopLogger struct{}

var _ Logger = nopLogger{}

// NewNopLogger returns a logger that discards all entries.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func (l nopLogger) With(...interface{}) Logger { return l }
