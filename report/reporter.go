package report

import (
	"io"
	"os"
	"sync"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// Indicates whether or not an error has been detected.
	isErr bool

	// warnings is the list of all warnings reported so far.  They are counted
	// regardless of log level.
	warnings []string

	// out is where all messages are written.
	out io.Writer
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// logLevelNames maps the command-line names of the log levels to their values.
var logLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// ParseLogLevel converts a log level name into its enumerated value.
func ParseLogLevel(name string) (int, bool) {
	level, ok := logLevelNames[name]
	return level, ok
}

// NewReporter creates a new reporter writing to out at the given log level.
func NewReporter(logLevel int, out io.Writer) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		logLevel: logLevel,
		out:      out,
	}
}

// rep is the global reporter instance.
var rep *Reporter

// InitReporter initializes the global error reporter to the given log level. If
// the reporter has already been initialized, this function does nothing.
func InitReporter(logLevel int) {
	if rep == nil {
		rep = NewReporter(logLevel, os.Stdout)
	}
}

// Global returns the global reporter, initializing it to the verbose log level
// if it has not been initialized yet.
func Global() *Reporter {
	InitReporter(LogLevelVerbose)
	return rep
}

// LogLevel returns the log level of the reporter.
func (r *Reporter) LogLevel() int {
	return r.logLevel
}

// SetLogLevel changes the log level of the reporter.
func (r *Reporter) SetLogLevel(logLevel int) {
	r.m.Lock()
	defer r.m.Unlock()

	r.logLevel = logLevel
}

// AnyErrors returns whether or not any errors were detected.
func (r *Reporter) AnyErrors() bool {
	r.m.Lock()
	defer r.m.Unlock()

	return r.isErr
}

// Warnings returns the messages of all warnings reported so far.
func (r *Reporter) Warnings() []string {
	r.m.Lock()
	defer r.m.Unlock()

	return append([]string(nil), r.warnings...)
}
