package generate

import (
	"gone/common"
	"gone/mir"
	"gone/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// RuntimeNames holds the names of the runtime print routines, one per scalar
// type.
type RuntimeNames struct {
	PrintInt, PrintFloat, PrintBool string
}

// Options configures a generator.
type Options struct {
	// SourcePath and ReprPath identify the listing being lowered in warnings.
	// Both may be empty.
	SourcePath, ReprPath string

	// TargetTriple and DataLayout are copied onto the generated module if
	// they are non-empty.
	TargetTriple, DataLayout string

	// Runtime holds the names of the runtime routines to declare.
	Runtime RuntimeNames
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Runtime: RuntimeNames{
			PrintInt:   common.RuntimePrintInt,
			PrintFloat: common.RuntimePrintFloat,
			PrintBool:  common.RuntimePrintBool,
		},
	}
}

// Generator is responsible for lowering a MIR block graph into an LLVM module.
// Each call to Generate is an independent lowering session: all of the state
// below is reset at its start.  A generator must not be used by multiple
// goroutines at once.
type Generator struct {
	rep  *report.Reporter
	opts Options

	// graph is the block graph being lowered.
	graph *mir.Graph

	// mod is the LLVM module being generated.
	mod *ir.Module

	// mainFunc is the function all instructions are generated into.
	mainFunc *ir.Func

	// block is the current insertion point.
	block *ir.Block

	// globals is the table of durable storage and declared extern functions:
	// they share a single namespace.
	globals map[string]value.Value

	// temps is the table of single-assignment temporaries.
	temps map[string]value.Value

	// runtime is the table of runtime routines by name.
	runtime map[string]*ir.Func

	// printFuncs maps each print op code to its runtime routine.
	printFuncs map[mir.OpCode]*ir.Func

	// lowered is the set of MIR blocks that have already been lowered.
	lowered blockSet

	// joins is the stack of blocks the chains being lowered may end at: the
	// stops of the enclosing chains and the successors of enclosing loops.
	joins []mir.BlockID

	// labelCounter is used to give each control structure unique block labels.
	labelCounter int
}

// NewGenerator creates a new generator reporting warnings to rep.  If rep is
// nil, warnings go to the global reporter.
func NewGenerator(rep *report.Reporter, opts Options) *Generator {
	if rep == nil {
		rep = report.Global()
	}

	return &Generator{
		rep:  rep,
		opts: opts,
	}
}

// Generate lowers a block graph into a new LLVM module containing the runtime
// declarations, the extern declarations, all variables as zero-initialized
// globals, and a `main` function holding the lowered instructions.  Unknown op
// codes are reported as warnings and skipped.  All other problems are fatal:
// the returned error is a *report.LocalCompileError and no module is returned.
func (g *Generator) Generate(graph *mir.Graph) (mod *ir.Module, err error) {
	defer report.CatchLocal(&err)

	g.reset(graph)
	g.declareRuntime()

	if graph.Entry != mir.NoBlock {
		g.visitChain(graph.Entry, mir.NoBlock)
	} else if graph.Len() > 0 {
		g.fail(nil, "graph has blocks but no entry block")
	}

	g.returnVoid()

	return g.mod, nil
}

// reset starts a new lowering session for graph.
func (g *Generator) reset(graph *mir.Graph) {
	g.graph = graph
	g.mod = ir.NewModule()
	g.mod.TargetTriple = g.opts.TargetTriple
	g.mod.DataLayout = g.opts.DataLayout

	g.mainFunc = g.mod.NewFunc(common.EntryFuncName, types.Void)
	g.block = g.mainFunc.NewBlock("entry")

	g.globals = make(map[string]value.Value)
	g.temps = make(map[string]value.Value)
	g.runtime = make(map[string]*ir.Func)
	g.printFuncs = make(map[mir.OpCode]*ir.Func)
	g.lowered = newBlockSet(graph.Len())
	g.joins = g.joins[:0]
	g.labelCounter = 0
}

// -----------------------------------------------------------------------------

// fail aborts the lowering session with a fatal error.  The span may be nil.
func (g *Generator) fail(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(span, msg, args...))
}

// failAt aborts the lowering session with a fatal error about an instruction.
func (g *Generator) failAt(instr *mir.Instruction, msg string, args ...interface{}) {
	cerr := report.Raise(instr.Span, msg, args...)
	cerr.Message = "`" + instr.Repr() + "`: " + cerr.Message
	panic(cerr)
}

// warnAt reports a non-fatal warning about an instruction.
func (g *Generator) warnAt(instr *mir.Instruction, msg string, args ...interface{}) {
	g.rep.CompileWarning(g.opts.SourcePath, g.opts.ReprPath, instr.Span, msg, args...)
}
