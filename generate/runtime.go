package generate

import (
	"gone/common"
	"gone/mir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// declareRuntime declares the runtime print routines: one per scalar type.
func (g *Generator) declareRuntime() {
	g.printFuncs[mir.OpPrintInt] = g.declareRuntimeFunc(g.opts.Runtime.PrintInt, intType)
	g.printFuncs[mir.OpPrintFloat] = g.declareRuntimeFunc(g.opts.Runtime.PrintFloat, floatType)
	g.printFuncs[mir.OpPrintBool] = g.declareRuntimeFunc(g.opts.Runtime.PrintBool, boolType)
}

// declareRuntimeFunc declares a void runtime routine taking a single argument.
func (g *Generator) declareRuntimeFunc(name string, paramType types.Type) *ir.Func {
	if _, ok := g.runtime[name]; ok {
		g.fail(nil, "runtime routine `%s` declared twice", name)
	} else if name == common.EntryFuncName {
		g.fail(nil, "runtime routine may not be named `%s`", name)
	}

	fn := g.declareFunc(name, types.Void, paramType)
	g.runtime[name] = fn
	return fn
}

// declareFunc declares an external function in the module.
func (g *Generator) declareFunc(name string, retType types.Type, paramTypes ...types.Type) *ir.Func {
	params := make([]*ir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		params[i] = ir.NewParam("", pt)
	}

	fn := g.mod.NewFunc(name, retType, params...)
	fn.Linkage = enum.LinkageExternal
	fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrNoUnwind)
	return fn
}

// -----------------------------------------------------------------------------

// genExternFunc generates an extern function declaration:
// extern_func @name, :ret, :param...
func (g *Generator) genExternFunc(instr *mir.Instruction) {
	if len(instr.Args) < 2 {
		g.failAt(instr, "expected a function name and a return type")
	}

	name := g.globalArg(instr, 0)

	// resolve every type before declaring anything so that a bad declaration
	// never leaves a partially declared function behind
	retType := g.convTypeName(instr, g.typeArg(instr, 1), true)
	paramTypes := make([]types.Type, len(instr.Args)-2)
	for i := range paramTypes {
		paramTypes[i] = g.convTypeName(instr, g.typeArg(instr, i+2), false)
	}

	g.checkGlobalName(instr, name)
	g.defineGlobal(name, g.declareFunc(name, retType, paramTypes...))
}

// genCallFunc generates a call to an extern function or runtime routine:
// call_func @name, $arg... => $dest.  The result is always bound to the
// destination, even if the callee returns void.
func (g *Generator) genCallFunc(instr *mir.Instruction) {
	if len(instr.Args) < 1 {
		g.failAt(instr, "expected a function name")
	}

	fn := g.lookupFunc(instr, g.globalArg(instr, 0))

	if len(fn.Params) != len(instr.Args)-1 {
		g.failAt(instr, "`%s` takes %d arguments, but %d were given", fn.Name(), len(fn.Params), len(instr.Args)-1)
	}

	args := make([]value.Value, len(instr.Args)-1)
	for i := range args {
		args[i] = g.tempArg(instr, i+1)

		if !args[i].Type().Equal(fn.Params[i].Typ) {
			g.failAt(instr, "argument %d of `%s` must be of type %s", i+1, fn.Name(), fn.Params[i].Typ)
		}
	}

	call := g.block.NewCall(fn, args...)

	if instr.Dest != "" {
		g.defineTemp(instr.Dest, call)
	}
}

// genPrint generates a call to the runtime print routine for the op code.
func (g *Generator) genPrint(instr *mir.Instruction) {
	g.expectArgs(instr, 1)

	fn := g.printFuncs[instr.OpCode]
	arg := g.tempArg(instr, 0)
	if !arg.Type().Equal(fn.Params[0].Typ) {
		g.failAt(instr, "operand must be of type %s", fn.Params[0].Typ)
	}

	g.block.NewCall(fn, arg)
}
