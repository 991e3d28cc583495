package core

// Logger is the minimal logging surface the tracer needs. *log.Logger and
// zap.NewStdLog both satisfy it.
type Logger interface {
	Printf(format string, args ...interface{})
}
