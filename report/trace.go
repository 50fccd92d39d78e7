package report

import (
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	traceMu     sync.Mutex
	traceLogger hclog.Logger = hclog.NewNullLogger()
)

// EnableTracing turns on debug tracing of resolution and specialization
// decisions.  Trace output goes to stderr so it never mixes with reports.
func EnableTracing(level hclog.Level) {
	traceMu.Lock()
	defer traceMu.Unlock()

	traceLogger = hclog.New(&hclog.LoggerOptions{
		Name:   "scriptc",
		Level:  level,
		Output: os.Stderr,
	})
}

// Logger returns the trace logger.  It discards everything until tracing is
// enabled.
func Logger() hclog.Logger {
	traceMu.Lock()
	defer traceMu.Unlock()

	return traceLogger
}
