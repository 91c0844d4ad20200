package interp

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// newModule creates a module with the print routines and an empty main.
func newModule() (*ir.Module, *ir.Func, map[string]*ir.Func) {
	mod := ir.NewModule()
	printers := map[string]*ir.Func{
		"int":   mod.NewFunc("_print_int", types.Void, ir.NewParam("", types.I32)),
		"float": mod.NewFunc("_print_float", types.Void, ir.NewParam("", types.Double)),
		"bool":  mod.NewFunc("_print_bool", types.Void, ir.NewParam("", types.I1)),
	}

	return mod, mod.NewFunc("main", types.Void), printers
}

func run(t *testing.T, mod *ir.Module) (string, *Machine, error) {
	t.Helper()

	out := &bytes.Buffer{}
	m := NewMachine(mod, out)
	err := m.Run("main")
	return out.String(), m, err
}

func TestCountingLoop(t *testing.T) {
	mod, main, printers := newModule()
	i := mod.NewGlobalDef("i", constant.NewInt(types.I32, 0))

	entry := main.NewBlock("entry")
	test := main.NewBlock("whiletest.1")
	loop := main.NewBlock("loop.1")
	after := main.NewBlock("afterloop.1")

	entry.NewBr(test)

	cur := test.NewLoad(types.I32, i)
	cond := test.NewICmp(enum.IPredSLT, cur, constant.NewInt(types.I32, 3))
	test.NewCondBr(cond, loop, after)

	v := loop.NewLoad(types.I32, i)
	loop.NewCall(printers["int"], v)
	loop.NewStore(loop.NewAdd(v, constant.NewInt(types.I32, 1)), i)
	loop.NewBr(test)

	after.NewRet(nil)

	out, m, err := run(t, mod)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n2\n")
	}

	if n := m.Visits("whiletest.1"); n != 4 {
		t.Errorf("whiletest.1 entered %d times, want 4", n)
	}
	if n := m.Visits("loop.1"); n != 3 {
		t.Errorf("loop.1 entered %d times, want 3", n)
	}
}

func TestPrintFormats(t *testing.T) {
	mod, main, printers := newModule()

	entry := main.NewBlock("entry")
	entry.NewCall(printers["int"], constant.NewInt(types.I32, -7))
	entry.NewCall(printers["float"], entry.NewFMul(constant.NewFloat(types.Double, -1), constant.NewFloat(types.Double, 2.5)))
	entry.NewCall(printers["bool"], entry.NewXor(constant.True, constant.True))
	entry.NewRet(nil)

	out, _, err := run(t, mod)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "-7\n-2.500000\nfalse\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestIntWraparound(t *testing.T) {
	mod, main, printers := newModule()

	entry := main.NewBlock("entry")
	sum := entry.NewAdd(constant.NewInt(types.I32, math.MaxInt32), constant.NewInt(types.I32, 1))
	entry.NewCall(printers["int"], sum)
	entry.NewRet(nil)

	out, _, err := run(t, mod)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out != "-2147483648\n" {
		t.Errorf("output = %q, want %q", out, "-2147483648\n")
	}
}

func TestUnorderedCompare(t *testing.T) {
	nan := constant.NewFloat(types.Double, math.NaN())
	one := constant.NewFloat(types.Double, 1)

	tests := []struct {
		pred enum.FPred
		x    constant.Constant
		want string
	}{
		{enum.FPredULT, nan, "true"},
		{enum.FPredUEQ, nan, "true"},
		{enum.FPredOLT, nan, "false"},
		{enum.FPredULT, one, "false"},
		{enum.FPredUEQ, one, "true"},
		{enum.FPredUNE, one, "false"},
	}

	for _, test := range tests {
		mod, main, printers := newModule()

		entry := main.NewBlock("entry")
		entry.NewCall(printers["bool"], entry.NewFCmp(test.pred, test.x, one))
		entry.NewRet(nil)

		out, _, err := run(t, mod)
		if err != nil {
			t.Fatalf("fcmp %s: Run failed: %v", test.pred, err)
		}

		if out != test.want+"\n" {
			t.Errorf("fcmp %s %s, 1.0 = %q, want %s", test.pred, test.x.Ident(), out, test.want)
		}
	}
}

func TestDivideByZero(t *testing.T) {
	mod, main, _ := newModule()

	entry := main.NewBlock("entry")
	entry.NewSDiv(constant.NewInt(types.I32, 1), constant.NewInt(types.I32, 0))
	entry.NewRet(nil)

	_, _, err := run(t, mod)
	if !errors.Is(err, ErrDivideByZero) {
		t.Errorf("err = %v, want %v", err, ErrDivideByZero)
	}
}

func TestStepLimit(t *testing.T) {
	mod, main, _ := newModule()

	entry := main.NewBlock("entry")
	spin := main.NewBlock("spin")
	entry.NewBr(spin)
	spin.NewBr(spin)

	m := NewMachine(mod, &bytes.Buffer{})
	m.SetStepLimit(100)

	if err := m.Run("main"); err == nil {
		t.Fatal("Run of an infinite loop succeeded")
	}
}

func TestExterns(t *testing.T) {
	mod, main, printers := newModule()
	twice := mod.NewFunc("twice", types.I32, ir.NewParam("", types.I32))
	missing := mod.NewFunc("missing", types.Void)

	entry := main.NewBlock("entry")
	entry.NewCall(printers["int"], entry.NewCall(twice, constant.NewInt(types.I32, 21)))
	entry.NewRet(nil)

	out := &bytes.Buffer{}
	m := NewMachine(mod, out)
	m.Bind("twice", func(args []Value) (Value, error) {
		return args[0].(int32) * 2, nil
	})

	if err := m.Run("main"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "42\n" {
		t.Errorf("output = %q, want %q", out.String(), "42\n")
	}

	other := mod.NewFunc("other", types.Void)
	otherEntry := other.NewBlock("entry")
	otherEntry.NewCall(missing)
	otherEntry.NewRet(nil)

	if err := m.Run("other"); err == nil {
		t.Error("call to an unbound external function succeeded")
	}

	if err := m.Run("nothing"); err == nil {
		t.Error("Run of an undefined function succeeded")
	}
}

func TestMissingTerminator(t *testing.T) {
	mod, main, _ := newModule()
	main.NewBlock("entry")

	if _, _, err := run(t, mod); err == nil {
		t.Error("Run of a block without a terminator succeeded")
	}
}
