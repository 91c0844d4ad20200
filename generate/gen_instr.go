package generate

import (
	"math"

	"gone/mir"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// genInstrs generates the instructions of a block in order at the current
// insertion point.
func (g *Generator) genInstrs(block *mir.Block) {
	for _, instr := range block.Instrs {
		g.genInstr(instr)
	}
}

// genInstr generates a single instruction.  Instructions with an unknown op code
// are reported and skipped.
func (g *Generator) genInstr(instr *mir.Instruction) {
	switch instr.OpCode {
	case mir.OpLiteralInt, mir.OpLiteralFloat, mir.OpLiteralBool:
		g.genLiteral(instr)
	case mir.OpAllocInt, mir.OpAllocFloat, mir.OpAllocBool:
		g.genAlloc(instr)
	case mir.OpLoadInt, mir.OpLoadFloat, mir.OpLoadBool:
		g.expectArgs(instr, 1)
		glob := g.lookupVar(instr, g.globalArg(instr, 0))
		g.bind(instr, g.block.NewLoad(glob.ContentType, glob))
	case mir.OpStoreInt, mir.OpStoreFloat, mir.OpStoreBool:
		g.expectArgs(instr, 2)
		src := g.tempArg(instr, 0)
		glob := g.lookupVar(instr, g.globalArg(instr, 1))
		if !src.Type().Equal(glob.ContentType) {
			g.failAt(instr, "cannot store a value of type %s into a variable of type %s", src.Type(), glob.ContentType)
		}

		g.block.NewStore(src, glob)

	// integer arithmetic
	case mir.OpAddInt:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewAdd(x, y) })
	case mir.OpSubInt:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewSub(x, y) })
	case mir.OpMulInt:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewMul(x, y) })
	case mir.OpDivInt:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewSDiv(x, y) })

	// float arithmetic
	case mir.OpAddFloat:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewFAdd(x, y) })
	case mir.OpSubFloat:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewFSub(x, y) })
	case mir.OpMulFloat:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewFMul(x, y) })
	case mir.OpDivFloat:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewFDiv(x, y) })

	// comparison
	case mir.OpLtInt, mir.OpGtInt, mir.OpLteInt, mir.OpGteInt, mir.OpEqInt, mir.OpNeqInt:
		pred := intPreds[instr.OpCode]
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewICmp(pred, x, y) })
	case mir.OpLtFloat, mir.OpGtFloat, mir.OpLteFloat, mir.OpGteFloat, mir.OpEqFloat, mir.OpNeqFloat:
		pred := floatPreds[instr.OpCode]
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewFCmp(pred, x, y) })

	// boolean logic
	case mir.OpAndBool:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewAnd(x, y) })
	case mir.OpOrBool:
		g.genBinary(instr, func(x, y value.Value) value.Value { return g.block.NewOr(x, y) })
	case mir.OpNotBool:
		// !b => b xor true
		g.genUnary(instr, func(x value.Value) value.Value { return g.block.NewXor(x, constant.True) })

	// unary arithmetic: +x => 0 + x, -x => -1 * x
	case mir.OpUAddInt:
		g.genUnary(instr, func(x value.Value) value.Value { return g.block.NewAdd(constant.NewInt(intType, 0), x) })
	case mir.OpUAddFloat:
		g.genUnary(instr, func(x value.Value) value.Value { return g.block.NewFAdd(constant.NewFloat(floatType, 0), x) })
	case mir.OpUSubInt:
		g.genUnary(instr, func(x value.Value) value.Value { return g.block.NewMul(constant.NewInt(intType, -1), x) })
	case mir.OpUSubFloat:
		g.genUnary(instr, func(x value.Value) value.Value { return g.block.NewFMul(constant.NewFloat(floatType, -1), x) })

	case mir.OpPrintInt, mir.OpPrintFloat, mir.OpPrintBool:
		g.genPrint(instr)
	case mir.OpExternFunc:
		g.genExternFunc(instr)
	case mir.OpCallFunc:
		g.genCallFunc(instr)
	default:
		g.warnAt(instr, "no lowering for opcode `%s`; instruction skipped", instr.Name)
	}
}

// intPreds maps the integer comparison op codes to signed predicates.
var intPreds = map[mir.OpCode]enum.IPred{
	mir.OpLtInt:  enum.IPredSLT,
	mir.OpGtInt:  enum.IPredSGT,
	mir.OpLteInt: enum.IPredSLE,
	mir.OpGteInt: enum.IPredSGE,
	mir.OpEqInt:  enum.IPredEQ,
	mir.OpNeqInt: enum.IPredNE,
}

// floatPreds maps the float comparison op codes to unordered predicates: any
// comparison with a NaN operand is true.
var floatPreds = map[mir.OpCode]enum.FPred{
	mir.OpLtFloat:  enum.FPredULT,
	mir.OpGtFloat:  enum.FPredUGT,
	mir.OpLteFloat: enum.FPredULE,
	mir.OpGteFloat: enum.FPredUGE,
	mir.OpEqFloat:  enum.FPredUEQ,
	mir.OpNeqFloat: enum.FPredUNE,
}

// -----------------------------------------------------------------------------

// genLiteral binds a constant to the destination temporary.  No instruction is
// emitted.
func (g *Generator) genLiteral(instr *mir.Instruction) {
	g.expectArgs(instr, 1)

	var c constant.Constant
	switch lit := instr.Args[0].(type) {
	case mir.IntConst:
		switch instr.OpCode {
		case mir.OpLiteralInt:
			if lit < math.MinInt32 || lit > math.MaxInt32 {
				g.failAt(instr, "literal %d is out of range for int", int64(lit))
			}

			c = constant.NewInt(intType, int64(lit))
		case mir.OpLiteralFloat:
			c = constant.NewFloat(floatType, float64(lit))
		case mir.OpLiteralBool:
			c = constant.NewBool(lit != 0)
		}
	case mir.FloatConst:
		if instr.OpCode == mir.OpLiteralFloat {
			c = constant.NewFloat(floatType, float64(lit))
		}
	case mir.BoolConst:
		if instr.OpCode == mir.OpLiteralBool {
			c = constant.NewBool(bool(lit))
		}
	}

	if c == nil {
		g.failAt(instr, "invalid literal operand `%s`", instr.Args[0].Repr())
	}

	g.bind(instr, c)
}

// genAlloc defines a new variable as a global initialized to its zero value.
func (g *Generator) genAlloc(instr *mir.Instruction) {
	g.expectArgs(instr, 1)

	name := g.globalArg(instr, 0)
	typ := g.convTypeName(instr, opTypeNames[instr.OpCode], false)

	g.checkGlobalName(instr, name)
	g.defineGlobal(name, g.mod.NewGlobalDef(name, zeroValue(typ)))
}

// genBinary generates an instruction applied to two temporaries.
func (g *Generator) genBinary(instr *mir.Instruction, emit func(x, y value.Value) value.Value) {
	g.expectArgs(instr, 2)
	x, y := g.tempArg(instr, 0), g.tempArg(instr, 1)
	g.bind(instr, emit(x, y))
}

// genUnary generates an instruction applied to one temporary.
func (g *Generator) genUnary(instr *mir.Instruction, emit func(x value.Value) value.Value) {
	g.expectArgs(instr, 1)
	g.bind(instr, emit(g.tempArg(instr, 0)))
}

// -----------------------------------------------------------------------------

// bind binds the value produced by instr to its destination temporary.
func (g *Generator) bind(instr *mir.Instruction, val value.Value) {
	if instr.Dest == "" {
		g.failAt(instr, "missing destination temporary")
	}

	g.defineTemp(instr.Dest, val)
}

// expectArgs fails if instr does not have exactly n operands.
func (g *Generator) expectArgs(instr *mir.Instruction, n int) {
	if len(instr.Args) != n {
		g.failAt(instr, "expected %d operands, got %d", n, len(instr.Args))
	}
}

// tempArg returns the value of the temporary which is the i'th operand.
func (g *Generator) tempArg(instr *mir.Instruction, i int) value.Value {
	if t, ok := instr.Args[i].(mir.Temp); ok {
		return g.lookupTemp(instr, string(t))
	}

	g.failAt(instr, "operand %d must be a temporary", i+1)
	return nil
}

// globalArg returns the global name which is the i'th operand.
func (g *Generator) globalArg(instr *mir.Instruction, i int) string {
	if name, ok := instr.Args[i].(mir.Global); ok {
		return string(name)
	}

	g.failAt(instr, "operand %d must be a global name", i+1)
	return ""
}

// typeArg returns the type name which is the i'th operand.
func (g *Generator) typeArg(instr *mir.Instruction, i int) string {
	if name, ok := instr.Args[i].(mir.TypeRef); ok {
		return string(name)
	}

	g.failAt(instr, "operand %d must be a type name", i+1)
	return ""
}
