package generate

import (
	"gone/common"
	"gone/mir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// defineGlobal adds a variable or extern function to the global table.  The
// name must already have been checked with checkGlobalName.
func (g *Generator) defineGlobal(name string, val value.Value) {
	g.globals[name] = val
}

// checkGlobalName fails if name is already used by a global, a runtime
// routine, or the entry function.
func (g *Generator) checkGlobalName(instr *mir.Instruction, name string) {
	if _, ok := g.globals[name]; ok {
		g.failAt(instr, "multiple definitions of `%s`", name)
	}

	if _, ok := g.runtime[name]; ok {
		g.failAt(instr, "`%s` collides with a runtime routine", name)
	}

	if name == common.EntryFuncName {
		g.failAt(instr, "`%s` is reserved for the entry function", name)
	}
}

// lookupVar looks up the variable with the given name.
func (g *Generator) lookupVar(instr *mir.Instruction, name string) *ir.Global {
	if val, ok := g.globals[name]; ok {
		if glob, ok := val.(*ir.Global); ok {
			return glob
		}

		g.failAt(instr, "`%s` is a function, not a variable", name)
	}

	g.failAt(instr, "undefined variable `%s`", name)
	return nil
}

// lookupFunc looks up a declared extern function or runtime routine.
func (g *Generator) lookupFunc(instr *mir.Instruction, name string) *ir.Func {
	if val, ok := g.globals[name]; ok {
		if fn, ok := val.(*ir.Func); ok {
			return fn
		}

		g.failAt(instr, "`%s` is a variable, not a function", name)
	}

	if fn, ok := g.runtime[name]; ok {
		return fn
	}

	g.failAt(instr, "undefined function `%s`", name)
	return nil
}

// -----------------------------------------------------------------------------

// defineTemp binds a temporary to a value.  Instruction values are named after
// the temporary as it is written in the listing (`$name`): block labels never
// contain a `$` so the two cannot collide.  Single-assignment is assumed rather
// than checked.
func (g *Generator) defineTemp(name string, val value.Value) {
	if named, ok := val.(value.Named); ok && !val.Type().Equal(types.Void) {
		named.SetName(mir.Temp(name).Repr())
	}

	g.temps[name] = val
}

// lookupTemp looks up the value of a temporary.
func (g *Generator) lookupTemp(instr *mir.Instruction, name string) value.Value {
	if val, ok := g.temps[name]; ok {
		return val
	}

	g.failAt(instr, "use of undefined temporary `%s`", name)
	return nil
}
