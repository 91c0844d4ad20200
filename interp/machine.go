// Package interp executes lowered LLVM modules.  It supports the subset of LLVM
// IR produced by the generator: scalar arithmetic and comparison, loads and
// stores of globals, calls, and branches.  External functions are implemented
// by Go functions bound to their names.
package interp

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// Extern is a Go implementation of an external function.
type Extern func(args []Value) (Value, error)

// DefaultStepLimit is the default number of steps a machine will execute before
// giving up.  Executing an instruction or entering a block is one step.
const DefaultStepLimit = 1 << 22

// Machine executes the functions of a single module.
type Machine struct {
	mod *ir.Module
	out io.Writer

	externs map[string]Extern
	globals map[*ir.Global]Value

	// visits counts how many times each block has been entered.
	visits map[*ir.Block]int

	steps, stepLimit int
}

// NewMachine creates a new machine for mod.  The print routines are bound to
// their default names and write to out.
func NewMachine(mod *ir.Module, out io.Writer) *Machine {
	m := &Machine{
		mod:       mod,
		out:       out,
		externs:   make(map[string]Extern),
		stepLimit: DefaultStepLimit,
	}

	m.BindPrinters("_print_int", "_print_float", "_print_bool")
	return m
}

// BindPrinters binds the print routines of each scalar type to the given names.
// Each printed value is written to the machine's output on its own line.
func (m *Machine) BindPrinters(printInt, printFloat, printBool string) {
	for _, name := range []string{printInt, printFloat, printBool} {
		m.Bind(name, m.print)
	}
}

// Bind binds an external function to a Go implementation.
func (m *Machine) Bind(name string, fn Extern) {
	m.externs[name] = fn
}

// SetStepLimit sets the maximum number of instructions to execute.
func (m *Machine) SetStepLimit(n int) {
	m.stepLimit = n
}

// Visits returns the number of times the blocks named label have been entered
// during the last run.
func (m *Machine) Visits(label string) int {
	n := 0
	for block, count := range m.visits {
		if block.Name() == label {
			n += count
		}
	}

	return n
}

// Run executes the function named funcName which must take no arguments.  All
// globals are reset to their initial values first.
func (m *Machine) Run(funcName string) error {
	var entry *ir.Func
	for _, fn := range m.mod.Funcs {
		if fn.Name() == funcName {
			entry = fn
			break
		}
	}

	if entry == nil {
		return fmt.Errorf("no function named `%s`", funcName)
	}

	if len(entry.Params) != 0 {
		return fmt.Errorf("function `%s` must take no arguments", funcName)
	}

	if err := m.initGlobals(); err != nil {
		return err
	}

	m.visits = make(map[*ir.Block]int)
	m.steps = 0

	_, err := m.call(entry, nil)
	return err
}

// initGlobals sets every global to its initializer.
func (m *Machine) initGlobals() error {
	m.globals = make(map[*ir.Global]Value)

	for _, glob := range m.mod.Globals {
		var (
			v   Value
			err error
		)

		if glob.Init != nil {
			v, err = fromConstant(glob.Init)
		} else {
			v, err = zeroOf(glob.ContentType)
		}

		if err != nil {
			return fmt.Errorf("global `%s`: %w", glob.Name(), err)
		}

		m.globals[glob] = v
	}

	return nil
}

// print is the implementation of the print routines.
func (m *Machine) print(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("print routine takes 1 argument, got %d", len(args))
	}

	_, err := fmt.Fprintln(m.out, formatValue(args[0]))
	return nil, err
}

// -----------------------------------------------------------------------------

// frame holds the values of the parameters and instructions of a function call.
type frame map[value.Value]Value

// call executes a function.  Functions without a body are dispatched to their
// bound Go implementation.
func (m *Machine) call(fn *ir.Func, args []Value) (Value, error) {
	if len(fn.Blocks) == 0 {
		ext, ok := m.externs[fn.Name()]
		if !ok {
			return nil, fmt.Errorf("call to unbound external function `%s`", fn.Name())
		}

		return ext(args)
	}

	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("function `%s` takes %d arguments, got %d", fn.Name(), len(fn.Params), len(args))
	}

	fr := make(frame)
	for i, param := range fn.Params {
		fr[param] = args[i]
	}

	block := fn.Blocks[0]
	for {
		m.visits[block]++

		// entering a block counts as a step so that empty loops terminate
		if err := m.step(); err != nil {
			return nil, err
		}

		for _, inst := range block.Insts {
			if err := m.step(); err != nil {
				return nil, err
			}

			if err := m.exec(fr, inst); err != nil {
				return nil, fmt.Errorf("%s: %w", fn.Name(), err)
			}
		}

		switch term := block.Term.(type) {
		case *ir.TermRet:
			if term.X == nil {
				return nil, nil
			}

			return m.eval(fr, term.X)
		case *ir.TermBr:
			block = term.Succs()[0]
		case *ir.TermCondBr:
			cond, err := m.evalBool(fr, term.Cond)
			if err != nil {
				return nil, err
			}

			succs := term.Succs()
			if cond {
				block = succs[0]
			} else {
				block = succs[1]
			}
		case nil:
			return nil, fmt.Errorf("block `%s` of `%s` has no terminator", block.Name(), fn.Name())
		default:
			return nil, fmt.Errorf("unsupported terminator %T", term)
		}
	}
}

// step counts one step of execution.
func (m *Machine) step() error {
	m.steps++
	if m.stepLimit > 0 && m.steps > m.stepLimit {
		return fmt.Errorf("step limit of %d exceeded", m.stepLimit)
	}

	return nil
}
