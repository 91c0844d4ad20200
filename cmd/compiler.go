package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gone/common"
	"gone/generate"
	"gone/interp"
	"gone/mir"
	"gone/profile"
	"gone/report"

	"github.com/llir/llvm/ir"
)

// Compiler represents the state of a single compilation of a listing.
type Compiler struct {
	// srcAbsPath is the absolute path to the listing.  reprPath is the path as
	// the user wrote it and is used in messages.
	srcAbsPath, reprPath string

	// profile is the build profile of the compilation.
	profile *profile.Profile

	// graph is the block graph read from the listing.
	graph *mir.Graph

	// mod is the lowered LLVM module.
	mod *ir.Module
}

// NewCompiler creates a new compiler for the listing at listingRelPath.  If
// profilePath is empty, the profile next to the listing is used if there is
// one.
func NewCompiler(listingRelPath, profilePath string) *Compiler {
	srcAbsPath, err := filepath.Abs(listingRelPath)
	if err != nil {
		report.ReportFatal("error calculating absolute path: %s", err.Error())
		return nil
	}

	if profilePath == "" {
		profilePath = profile.Find(filepath.Dir(srcAbsPath))
	}

	prof, err := profile.Load(profilePath, report.Global())
	if err != nil {
		report.ReportPhaseError(profilePath, profilePath, err)
		report.ReportFatal("unable to load build profile `%s`", profilePath)
		return nil
	}

	// the profile can only make the reporter quieter than the command line
	if level, ok := report.ParseLogLevel(prof.LogLevel); ok && level < report.Global().LogLevel() {
		report.Global().SetLogLevel(level)
	}

	return &Compiler{
		srcAbsPath: srcAbsPath,
		reprPath:   listingRelPath,
		profile:    prof,
	}
}

// target returns the name of the compilation target.
func (c *Compiler) target() string {
	if c.profile.TargetTriple == "" {
		return "default"
	}

	return c.profile.TargetTriple
}

// outputPath returns the path the LLVM module is written to.
func (c *Compiler) outputPath() string {
	if c.profile.OutputPath != "" {
		return c.profile.OutputPath
	}

	return strings.TrimSuffix(c.srcAbsPath, filepath.Ext(c.srcAbsPath)) + common.LLVMFileExt
}

// Read runs the reading phase of the compiler: the listing is parsed into a
// block graph.
func (c *Compiler) Read() bool {
	report.ReportBeginPhase("Reading")
	defer report.ReportEndPhase()

	file, err := os.Open(c.srcAbsPath)
	if err != nil {
		report.ReportFatal("unable to open listing `%s`: %s", c.reprPath, err.Error())
	}
	defer file.Close()

	graph, err := mir.ReadGraph(file)
	if err != nil {
		report.ReportPhaseError(c.srcAbsPath, c.reprPath, err)
		return false
	}

	c.graph = graph
	return report.ShouldProceed()
}

// Generate runs the generation phase of the compiler: the block graph is
// lowered into an LLVM module.  The Read phase must be run before this.
func (c *Compiler) Generate() bool {
	report.ReportBeginPhase("Generating")
	defer report.ReportEndPhase()

	opts := c.profile.Options()
	opts.SourcePath = c.srcAbsPath
	opts.ReprPath = c.reprPath

	mod, err := generate.NewGenerator(report.Global(), opts).Generate(c.graph)
	if err != nil {
		report.ReportPhaseError(c.srcAbsPath, c.reprPath, err)
		return false
	}

	if err := generate.Verify(mod); err != nil {
		report.ReportICE("generated invalid module: %s", err)
	}

	c.mod = mod
	return report.ShouldProceed()
}

// WriteOutput writes the LLVM module to the output path.  The Generate phase
// must be run before this.
func (c *Compiler) WriteOutput() {
	outputPath := c.outputPath()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		report.ReportFatal("failed to create output directory for `%s`: %s", outputPath, err.Error())
	}

	writeOutputFile(outputPath, c.mod.String())
}

// Run executes the LLVM module writing all printed values to out.  The
// Generate phase must be run before this.
func (c *Compiler) Run(out io.Writer) bool {
	m := interp.NewMachine(c.mod, out)
	m.BindPrinters(c.profile.Runtime.PrintInt, c.profile.Runtime.PrintFloat, c.profile.Runtime.PrintBool)

	if err := m.Run(common.EntryFuncName); err != nil {
		report.Global().StdError(c.reprPath, err)
		return false
	}

	return true
}

// writeOutputFile is used to quickly write an output file for the compiler.
func writeOutputFile(fpath, content string) {
	// open or create the file
	file, err := os.OpenFile(fpath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		report.ReportFatal("failed to open output file `%s`: %s", fpath, err.Error())
	}
	defer file.Close()

	// write the data
	_, err = file.WriteString(content)
	if err != nil {
		report.ReportFatal("failed to write output to file `%s`: %s", fpath, err.Error())
	}
}
