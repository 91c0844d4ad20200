package report

import (
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text.  Text spans are
// inclusive on both sides: the starting position is the position of the first
// character in the span and the ending position is the position of the last
// character in the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewLineSpan returns a span covering the whole of the given zero-indexed line
// whose length is lineLen.
func NewLineSpan(line, lineLen int) *TextSpan {
	return &TextSpan{
		StartLine: line,
		StartCol:  0,
		EndLine:   line,
		EndCol:    lineLen,
	}
}

// -----------------------------------------------------------------------------

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	if lce.Span == nil {
		return lce.Message
	}

	return fmt.Sprintf("%d:%d: %s", lce.Span.StartLine+1, lce.Span.StartCol+1, lce.Message)
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// CatchLocal converts a local compile error thrown by `panic` into a returned
// error stored in errp.  Any other panic keeps unwinding.
// NB: This function must ALWAYS be deferred.
func CatchLocal(errp *error) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*LocalCompileError); ok {
			*errp = cerr
			return
		}

		panic(x)
	}
}

// -----------------------------------------------------------------------------

// ICE reports an internal compiler error.  These are errors that specifically
// result for a bug or unexpected condition occurring with the compiler: they
// are not intended to ever happen.  These errors are always displayed
// regardless of log level.
func (r *Reporter) ICE(message string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()

	r.displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// Fatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: unreadable
// listing, bad profile, unwritable output path, etc.
func (r *Reporter) Fatal(message string, args ...interface{}) {
	if r.logLevel > LogLevelSilent {
		r.m.Lock()
		defer r.m.Unlock()

		r.displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// CompileError reports a compilation error: ie. erroneous input code. The
// absPath is the absolute path to the erroneous source file. The reprPath is
// the representative path to the erroneous source file.  The span may be nil
// in which case no position information will be printed.
func (r *Reporter) CompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()

	r.isErr = true

	if r.logLevel > LogLevelSilent {
		r.displayCompileMessage(true, absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// CompileWarning reports a compilation warning.  The arguments are of the same
// form as those to CompileError.
func (r *Reporter) CompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()

	msg := fmt.Sprintf(message, args...)
	r.warnings = append(r.warnings, msg)

	if r.logLevel >= LogLevelWarn {
		r.displayCompileMessage(false, absPath, reprPath, span, msg)
	}
}

// StdError reports a non-fatal, standard Go error.
func (r *Reporter) StdError(reprPath string, err error) {
	r.m.Lock()
	defer r.m.Unlock()

	r.isErr = true

	if r.logLevel > LogLevelSilent {
		r.displayStdError(reprPath, err)
	}
}

// ReportError reports an error returned from a compilation phase.  Local
// compile errors are displayed with their source text; all other errors are
// displayed as standard errors.
func (r *Reporter) ReportError(absPath, reprPath string, err error) {
	if cerr, ok := err.(*LocalCompileError); ok {
		r.CompileError(absPath, reprPath, cerr.Span, "%s", cerr.Message)
	} else {
		r.StdError(reprPath, err)
	}
}
