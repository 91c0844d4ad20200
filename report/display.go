package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gone/common"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// DisplayInfoMessage prints an informational message to the user.
func DisplayInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// displayICE displays an internal compiler error message.
func (r *Reporter) displayICE(message string) {
	fmt.Fprint(r.out, "\n", ErrorStyleBG.Sprint("Internal Compiler Error"), " ", ErrorColorFG.Sprint(message), "\n")
	fmt.Fprint(r.out, "This error was not supposed to happen: this is likely a bug in the compiler.\n\n")
}

// displayFatal displays a fatal error message.
func (r *Reporter) displayFatal(message string) {
	fmt.Fprint(r.out, ErrorStyleBG.Sprint("Fatal Error"), " ", ErrorColorFG.Sprint(message), "\n\n")
}

// displayCompileMessage displays a compilation error or warning.
func (r *Reporter) displayCompileMessage(isError bool, absPath, reprPath string, span *TextSpan, message string) {
	var label string
	if isError {
		label = ErrorStyleBG.Sprint("error")
	} else {
		label = WarnStyleBG.Sprint("warning")
	}

	if reprPath == "" {
		reprPath = "<listing>"
	}

	if span == nil {
		fmt.Fprintf(r.out, "%s: %s %s\n\n", reprPath, label, message)
	} else {
		fmt.Fprintf(r.out, "%s:%d:%d: %s %s\n\n", reprPath, span.StartLine+1, span.StartCol+1, label, message)

		if absPath != "" {
			r.displaySourceText(absPath, span)
		}
	}
}

// displayStdError displays a standard Go error.
func (r *Reporter) displayStdError(reprPath string, err error) {
	fmt.Fprintf(r.out, "%s: %s %s\n\n", reprPath, ErrorStyleBG.Sprint("error"), err)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
// The reporter's mutex must already be held.
func (r *Reporter) displaySourceText(absPath string, span *TextSpan) {
	// Open the file so we can read the desired source text.
	file, err := os.Open(absPath)
	if err != nil {
		r.displayICE(fmt.Sprintf("failed to open file %s for reporting: %s", absPath, err))
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if err := sc.Err(); err != nil {
		r.displayICE(fmt.Sprintf("failed to read file %s for reporting: %s", absPath, err))
		return
	}

	if len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt32
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Calculate the maximum line number length and use it to build the format
	// string for line numbers.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Fprint(r.out, InfoColorFG.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Fprintln(r.out, line[minIndent:])

		// The carrets underline from the start column on the first line to the
		// end column on the last line.
		carretStart := 0
		if i == 0 && span.StartCol > minIndent {
			carretStart = span.StartCol - minIndent
		}

		carretEnd := len(line) - minIndent
		if i == len(lines)-1 && span.EndCol-minIndent < carretEnd {
			carretEnd = span.EndCol - minIndent
		}

		fmt.Fprint(r.out, strings.Repeat(" ", maxLineNumLen), " | ", strings.Repeat(" ", carretStart))
		if carretEnd > carretStart {
			fmt.Fprint(r.out, ErrorColorFG.Sprint(strings.Repeat("^", carretEnd-carretStart)))
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out)
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays all the compiler information before starting
// compilation.
func (r *Reporter) displayCompileHeader(target string) {
	fmt.Fprint(r.out, "gonec ", InfoColorFG.Sprint("v"+common.GoneVersion), " -- target: ", InfoColorFG.Sprint(target), "\n")
}

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Generating")

// displayBeginPhase displays the beginning of a compilation phase.
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase.
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase+strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2),
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2))
		}

		phaseSpinner = nil
	}
}

// displayCompilationFinished displays a compilation finished message.
func (r *Reporter) displayCompilationFinished(success bool, warningCount int, outputPath string) {
	fmt.Fprintln(r.out)

	if success {
		fmt.Fprint(r.out, SuccessColorFG.Sprint("All done! "))
	} else {
		fmt.Fprint(r.out, ErrorColorFG.Sprint("Oh no! "))
	}

	switch warningCount {
	case 0:
		fmt.Fprint(r.out, "(", SuccessColorFG.Sprint(0), " warnings)")
	case 1:
		fmt.Fprint(r.out, "(", WarnColorFG.Sprint(1), " warning)")
	default:
		fmt.Fprint(r.out, "(", WarnColorFG.Sprint(warningCount), " warnings)")
	}

	if success && outputPath != "" {
		fmt.Fprint(r.out, " -> ", InfoColorFG.Sprint(outputPath))
	}

	fmt.Fprintln(r.out)
}
