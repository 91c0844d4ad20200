package cmd

import (
	"os"

	"gone/common"
	"gone/report"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `gonec` CLI utility
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("gonec", "gonec lowers MIR listings to LLVM IR", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "lower a listing to an LLVM module", true)
	buildCmd.AddPrimaryArg("listing-path", "the path to the listing to build", true)
	buildCmd.AddStringArg("output", "o", "the path to write the LLVM module to", false)
	buildCmd.AddStringArg("profile", "p", "the path to the build profile", false)

	runCmd := cli.AddSubcommand("run", "lower a listing and execute it", true)
	runCmd.AddPrimaryArg("listing-path", "the path to the listing to run", true)
	runCmd.AddStringArg("profile", "p", "the path to the build profile", false)

	dumpCmd := cli.AddSubcommand("dump", "print the lowered LLVM module", true)
	dumpCmd.AddPrimaryArg("listing-path", "the path to the listing to dump", true)
	dumpCmd.AddStringArg("profile", "p", "the path to the build profile", false)
	dumpCmd.AddFlag("graph", "g", "print the block graph instead of the LLVM module")

	cli.AddSubcommand("version", "print the gonec version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	logLevel, _ := report.ParseLogLevel(result.Arguments["loglevel"].(string))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		execBuildCommand(subResult, logLevel)
	case "run":
		execRunCommand(subResult, logLevel)
	case "dump":
		execDumpCommand(subResult, logLevel)
	case "version":
		report.DisplayInfoMessage("gonec Version", common.GoneVersion)
	}
}

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult, logLevel int) {
	c := newCompilerFromArgs(result, logLevel)

	if outputPath, ok := result.Arguments["output"]; ok {
		c.profile.OutputPath = outputPath.(string)
	}

	report.ReportCompileHeader(c.target())

	if c.Read() && c.Generate() {
		c.WriteOutput()
	}

	report.ReportCompilationFinished(c.outputPath())

	if !report.ShouldProceed() {
		os.Exit(1)
	}
}

// execRunCommand executes the run subcommand: the lowered module is run by the
// interpreter and its output goes to stdout.
func execRunCommand(result *olive.ArgParseResult, logLevel int) {
	c := newCompilerFromArgs(result, logLevel)

	report.ReportCompileHeader(c.target())

	if c.Read() && c.Generate() {
		c.Run(os.Stdout)
	}

	if !report.ShouldProceed() {
		os.Exit(1)
	}
}

// execDumpCommand executes the dump subcommand.  No phase banners are displayed
// so that the output can be piped.
func execDumpCommand(result *olive.ArgParseResult, logLevel int) {
	if logLevel > report.LogLevelWarn {
		logLevel = report.LogLevelWarn
	}

	c := newCompilerFromArgs(result, logLevel)

	if !c.Read() {
		os.Exit(1)
	}

	if result.HasFlag("graph") {
		os.Stdout.WriteString(c.graph.Repr())
		return
	}

	if !c.Generate() {
		os.Exit(1)
	}

	os.Stdout.WriteString(c.mod.String())
}

// newCompilerFromArgs initializes the reporter and creates a compiler for the
// listing named by the primary argument.
func newCompilerFromArgs(result *olive.ArgParseResult, logLevel int) *Compiler {
	report.InitReporter(logLevel)

	listingPath, _ := result.PrimaryArg()

	profilePath := ""
	if profArgVal, ok := result.Arguments["profile"]; ok {
		profilePath = profArgVal.(string)
	}

	return NewCompiler(listingPath, profilePath)
}
