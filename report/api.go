package report

// -----------------------------------------------------------------------------
// NOTE: All report functions will only display if the appropriate log level is
// set.  Most report functions will simply fail silently if below their
// appropriate log level.  These functions all use the global reporter.

// ReportICE reports an internal compiler error and exits the program.
func ReportICE(message string, args ...interface{}) {
	Global().ICE(message, args...)
}

// ReportFatal reports a fatal error and exits the program.
func ReportFatal(message string, args ...interface{}) {
	Global().Fatal(message, args...)
}

// ReportCompileError reports a compilation error.
func ReportCompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	Global().CompileError(absPath, reprPath, span, message, args...)
}

// ReportCompileWarning reports a compilation warning.
func ReportCompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	Global().CompileWarning(absPath, reprPath, span, message, args...)
}

// ReportPhaseError reports an error returned from a compilation phase.
func ReportPhaseError(absPath, reprPath string, err error) {
	Global().ReportError(absPath, reprPath, err)
}

// ShouldProceed indicates whether or not there have been any non-fatal errors
// that should cause compilation to stop at the current phase.
func ShouldProceed() bool {
	return !Global().AnyErrors()
}

// -----------------------------------------------------------------------------
// Below are all the "aesthetic" reporting functions that will only run if the
// log level is to verbose.

// ReportCompileHeader reports the pre-compilation header: information about the
// compiler's current configuration (version, target).
func ReportCompileHeader(target string) {
	if r := Global(); r.logLevel == LogLevelVerbose {
		r.displayCompileHeader(target)
	}
}

// ReportBeginPhase reports the beginning of a compilation phase.
func ReportBeginPhase(phase string) {
	if Global().logLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// ReportEndPhase reports the end of the current compilation phase.
func ReportEndPhase() {
	if r := Global(); r.logLevel == LogLevelVerbose {
		displayEndPhase(!r.AnyErrors())
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
func ReportCompilationFinished(outputPath string) {
	if r := Global(); r.logLevel == LogLevelVerbose {
		r.displayCompilationFinished(!r.AnyErrors(), len(r.Warnings()), outputPath)
	}
}
