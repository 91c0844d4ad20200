package generate

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"gone/interp"
	"gone/mir"
	"gone/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// lower reads a listing and lowers it into a verified module.
func lower(t *testing.T, listing string) (*ir.Module, *report.Reporter) {
	t.Helper()

	g, err := mir.ReadGraph(strings.NewReader(listing))
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}

	return lowerGraph(t, g)
}

func lowerGraph(t *testing.T, g *mir.Graph) (*ir.Module, *report.Reporter) {
	t.Helper()

	rep := report.NewReporter(report.LogLevelSilent, &bytes.Buffer{})
	mod, err := NewGenerator(rep, DefaultOptions()).Generate(g)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := Verify(mod); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	return mod, rep
}

// execute runs the main function of mod and returns its output.
func execute(t *testing.T, mod *ir.Module) (string, *interp.Machine) {
	t.Helper()

	out := &bytes.Buffer{}
	m := interp.NewMachine(mod, out)
	if err := m.Run("main"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	return out.String(), m
}

func mainOf(t *testing.T, mod *ir.Module) *ir.Func {
	t.Helper()

	for _, fn := range mod.Funcs {
		if fn.Name() == "main" {
			return fn
		}
	}

	t.Fatal("module has no main function")
	return nil
}

// countInsts counts the instructions of fn matching pred.
func countInsts(fn *ir.Func, pred func(ir.Instruction) bool) int {
	n := 0
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			if pred(inst) {
				n++
			}
		}
	}

	return n
}

func blockNames(fn *ir.Func) []string {
	names := make([]string, len(fn.Blocks))
	for i, block := range fn.Blocks {
		names[i] = block.Name()
	}

	return names
}

// -----------------------------------------------------------------------------

const assignListing = `# var x int; x = 2 + 3; print x
block 0 basic
    alloc_int @x
    $t1 := literal_int 2
    $t2 := literal_int 3
    $t3 := add_int $t1, $t2
    store_int $t3, @x
    $t4 := load_int @x
    print_int $t4
`

func TestAssignAndPrint(t *testing.T) {
	mod, rep := lower(t, assignListing)

	if out, _ := execute(t, mod); out != "5\n" {
		t.Errorf("output = %q, want %q", out, "5\n")
	}

	if n := len(rep.Warnings()); n != 0 {
		t.Errorf("got %d warnings, want none", n)
	}

	if len(mod.Globals) != 1 || mod.Globals[0].Name() != "x" {
		t.Errorf("globals = %v, want only x", mod.Globals)
	}

	if names := blockNames(mainOf(t, mod)); len(names) != 1 || names[0] != "entry" {
		t.Errorf("blocks = %v, want [entry]", names)
	}
}

const whileListing = `# var i int; i = 0; while i < 3 { print i; i = i + 1; }
entry 0

block 0 basic -> 1
    alloc_int @i
    $t1 := literal_int 0
    store_int $t1, @i
block 1 while $t4 body 2 -> -
    $t2 := load_int @i
    $t3 := literal_int 3
    $t4 := lt_int $t2, $t3
block 2 basic -> 1
    $t5 := load_int @i
    print_int $t5
    $t6 := load_int @i
    $t7 := literal_int 1
    $t8 := add_int $t6, $t7
    store_int $t8, @i
`

func TestWhileLoop(t *testing.T) {
	mod, _ := lower(t, whileListing)
	main := mainOf(t, mod)

	want := []string{"entry", "whiletest.1", "loop.1", "afterloop.1"}
	if got := blockNames(main); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("blocks = %v, want %v", got, want)
	}

	// the prologue is lowered exactly once, into the test block
	cmps := countInsts(main, func(inst ir.Instruction) bool {
		_, ok := inst.(*ir.InstICmp)
		return ok
	})
	if cmps != 1 {
		t.Errorf("got %d comparisons, want 1", cmps)
	}
	if len(main.Blocks[1].Insts) != 2 {
		t.Errorf("whiletest.1 has %d instructions, want 2", len(main.Blocks[1].Insts))
	}

	if _, ok := main.Blocks[2].Term.(*ir.TermBr); !ok {
		t.Errorf("loop.1 ends with %T, want a branch back to the test", main.Blocks[2].Term)
	}

	out, m := execute(t, mod)
	if out != "0\n1\n2\n" {
		t.Errorf("output = %q, want %q", out, "0\n1\n2\n")
	}

	if n := m.Visits("whiletest.1"); n != 4 {
		t.Errorf("whiletest.1 entered %d times, want 4", n)
	}
}

const ifListing = `block 0 if then 1 else 2 -> 3
    $c := literal_bool %s
block 1 basic -> 3
    $a := literal_int 1
    print_int $a
block 2 basic -> 3
    $b := literal_int 2
    print_int $b
block 3 basic
    $d := literal_int 3
    print_int $d
`

func TestIfElse(t *testing.T) {
	tests := []struct {
		cond, want string
	}{
		{"true", "1\n3\n"},
		{"false", "2\n3\n"},
	}

	for _, test := range tests {
		mod, _ := lower(t, fmt.Sprintf(ifListing, test.cond))
		main := mainOf(t, mod)

		want := []string{"entry", "then.1", "else.1", "merge.1"}
		if got := blockNames(main); fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("blocks = %v, want %v", got, want)
		}

		condBrs := 0
		for _, block := range main.Blocks {
			if _, ok := block.Term.(*ir.TermCondBr); ok {
				condBrs++
			}
		}
		if condBrs != 1 {
			t.Errorf("got %d conditional branches, want 1", condBrs)
		}

		if out, _ := execute(t, mod); out != test.want {
			t.Errorf("if %s: output = %q, want %q", test.cond, out, test.want)
		}
	}
}

func TestEmptyBranches(t *testing.T) {
	mod, _ := lower(t, `block 0 if $c then - else - -> 1
    $c := literal_bool true
block 1 basic
    $d := literal_int 7
    print_int $d
`)

	main := mainOf(t, mod)
	if len(main.Blocks) != 4 {
		t.Errorf("blocks = %v, want a block for each empty branch", blockNames(main))
	}

	if out, _ := execute(t, mod); out != "7\n" {
		t.Errorf("output = %q, want %q", out, "7\n")
	}
}

// A tail shared by a branch and the conditional's successor is lowered once.
func TestSharedTail(t *testing.T) {
	mod, _ := lower(t, `block 0 if then 1 else - -> 2
    $c := literal_bool true
block 1 basic -> 2
    $a := literal_int 1
    print_int $a
block 2 basic
    $b := literal_int 9
    print_int $b
`)

	calls := countInsts(mainOf(t, mod), func(inst ir.Instruction) bool {
		_, ok := inst.(*ir.InstCall)
		return ok
	})
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}

	if out, _ := execute(t, mod); out != "1\n9\n" {
		t.Errorf("output = %q, want %q", out, "1\n9\n")
	}
}

func TestNestedIfInWhile(t *testing.T) {
	g := mir.NewGraph()
	init := g.NewBasic(
		mir.NewInstr("alloc_int", "", mir.Global("i")),
		mir.NewInstr("literal_int", "c0", mir.IntConst(0)),
		mir.NewInstr("store_int", "", mir.Temp("c0"), mir.Global("i")),
	)
	loop := g.NewWhile("",
		mir.NewInstr("load_int", "a", mir.Global("i")),
		mir.NewInstr("literal_int", "b", mir.IntConst(4)),
		mir.NewInstr("lt_int", "c", mir.Temp("a"), mir.Temp("b")),
	)
	cond := g.NewIf("",
		mir.NewInstr("load_int", "d", mir.Global("i")),
		mir.NewInstr("literal_int", "e", mir.IntConst(2)),
		mir.NewInstr("lt_int", "f", mir.Temp("d"), mir.Temp("e")),
	)
	thenBlock := g.NewBasic(
		mir.NewInstr("load_int", "g", mir.Global("i")),
		mir.NewInstr("print_int", "", mir.Temp("g")),
	)
	elseBlock := g.NewBasic(
		mir.NewInstr("load_int", "h", mir.Global("i")),
		mir.NewInstr("usub_int", "k", mir.Temp("h")),
		mir.NewInstr("print_int", "", mir.Temp("k")),
	)
	incr := g.NewBasic(
		mir.NewInstr("load_int", "m", mir.Global("i")),
		mir.NewInstr("literal_int", "n", mir.IntConst(1)),
		mir.NewInstr("add_int", "o", mir.Temp("m"), mir.Temp("n")),
		mir.NewInstr("store_int", "", mir.Temp("o"), mir.Global("i")),
	)

	mir.Link(init, loop)
	loop.Body = cond.ID
	cond.Then, cond.Else, cond.Next = thenBlock.ID, elseBlock.ID, incr.ID
	mir.Link(thenBlock, incr)
	mir.Link(elseBlock, incr)
	mir.Link(incr, loop)

	mod, _ := lowerGraph(t, g)

	seen := make(map[string]bool)
	for _, name := range blockNames(mainOf(t, mod)) {
		if seen[name] {
			t.Errorf("duplicate block label %s", name)
		}
		seen[name] = true
	}
	for _, name := range []string{"whiletest.1", "then.2", "merge.2", "afterloop.1"} {
		if !seen[name] {
			t.Errorf("missing block label %s", name)
		}
	}

	out, m := execute(t, mod)
	if want := "0\n1\n-2\n-3\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if n := m.Visits("merge.2"); n != 4 {
		t.Errorf("merge.2 entered %d times, want 4", n)
	}
}

func TestStructuralIdentity(t *testing.T) {
	g, err := mir.ReadGraph(strings.NewReader(whileListing))
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}

	gen := NewGenerator(nil, DefaultOptions())

	first, err := gen.Generate(g)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	second, err := gen.Generate(g)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	third, _ := lowerGraph(t, g)

	if first.String() != second.String() || first.String() != third.String() {
		t.Errorf("lowering the same graph twice produced different modules:\n%s\n---\n%s", first, second)
	}
}

func TestZeroValues(t *testing.T) {
	mod, _ := lower(t, `block 0 basic
    alloc_int @i
    alloc_float @f
    alloc_bool @b
    $i := load_int @i
    print_int $i
    $f := load_float @f
    print_float $f
    $b := load_bool @b
    print_bool $b
`)

	if out, _ := execute(t, mod); out != "0\n0.000000\nfalse\n" {
		t.Errorf("output = %q, want %q", out, "0\n0.000000\nfalse\n")
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		lit, x, y string
		op, print string
		want      string
	}{
		{"literal_int", "7", "3", "add_int", "print_int", "10"},
		{"literal_int", "7", "3", "sub_int", "print_int", "4"},
		{"literal_int", "7", "3", "mul_int", "print_int", "21"},
		{"literal_int", "7", "3", "div_int", "print_int", "2"},
		{"literal_int", "-7", "2", "div_int", "print_int", "-3"},
		{"literal_float", "1.5", "2.25", "add_float", "print_float", "3.750000"},
		{"literal_float", "1.5", "2.25", "sub_float", "print_float", "-0.750000"},
		{"literal_float", "1.5", "2", "mul_float", "print_float", "3.000000"},
		{"literal_float", "1", "4", "div_float", "print_float", "0.250000"},
		{"literal_int", "3", "7", "lt_int", "print_bool", "true"},
		{"literal_int", "3", "7", "gt_int", "print_bool", "false"},
		{"literal_int", "3", "3", "lte_int", "print_bool", "true"},
		{"literal_int", "3", "7", "gte_int", "print_bool", "false"},
		{"literal_int", "3", "3", "eq_int", "print_bool", "true"},
		{"literal_int", "3", "3", "neq_int", "print_bool", "false"},
		{"literal_float", "1.5", "2.5", "lt_float", "print_bool", "true"},
		{"literal_float", "1.5", "2.5", "gt_float", "print_bool", "false"},
		{"literal_float", "2.5", "2.5", "lte_float", "print_bool", "true"},
		{"literal_float", "2.5", "2.5", "gte_float", "print_bool", "true"},
		{"literal_float", "2.5", "2.5", "eq_float", "print_bool", "true"},
		{"literal_float", "1.5", "2.5", "neq_float", "print_bool", "true"},
		{"literal_bool", "true", "false", "and_bool", "print_bool", "false"},
		{"literal_bool", "true", "false", "or_bool", "print_bool", "true"},
		{"literal_bool", "true", "", "not_bool", "print_bool", "false"},
		{"literal_int", "5", "", "uadd_int", "print_int", "5"},
		{"literal_int", "5", "", "usub_int", "print_int", "-5"},
		{"literal_float", "1.5", "", "uadd_float", "print_float", "1.500000"},
		{"literal_float", "1.5", "", "usub_float", "print_float", "-1.500000"},
	}

	for _, test := range tests {
		var listing string
		if test.y == "" {
			listing = fmt.Sprintf(`block 0 basic
    $x := %s %s
    $r := %s $x
    %s $r
`, test.lit, test.x, test.op, test.print)
		} else {
			listing = fmt.Sprintf(`block 0 basic
    $x := %s %s
    $y := %s %s
    $r := %s $x, $y
    %s $r
`, test.lit, test.x, test.lit, test.y, test.op, test.print)
		}

		mod, _ := lower(t, listing)
		if out, _ := execute(t, mod); out != test.want+"\n" {
			t.Errorf("%s %s, %s = %q, want %s", test.op, test.x, test.y, out, test.want)
		}
	}
}

// Unary minus is lowered as a multiplication by -1.
func TestUnaryMinusLowering(t *testing.T) {
	mod, _ := lower(t, `block 0 basic
    $x := literal_float 2
    $y := usub_float $x
`)

	insts := mainOf(t, mod).Blocks[0].Insts
	if len(insts) != 1 {
		t.Fatalf("got %d instructions, want 1", len(insts))
	}

	if _, ok := insts[0].(*ir.InstFMul); !ok {
		t.Errorf("usub_float lowered to %T, want *ir.InstFMul", insts[0])
	}
}

func TestUnknownOpCode(t *testing.T) {
	out := &bytes.Buffer{}
	rep := report.NewReporter(report.LogLevelWarn, out)

	g, err := mir.ReadGraph(strings.NewReader(`block 0 basic
    $a := literal_int 1
    frobnicate $a
    print_int $a
`))
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}

	mod, err := NewGenerator(rep, DefaultOptions()).Generate(g)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	warnings := rep.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "frobnicate") {
		t.Errorf("warnings = %q, want one about frobnicate", warnings)
	}

	if !strings.Contains(out.String(), "<listing>:3:5") {
		t.Errorf("warning output %q does not name the instruction position", out.String())
	}

	if output, _ := execute(t, mod); output != "1\n" {
		t.Errorf("output = %q, want %q", output, "1\n")
	}
}

func TestExternCalls(t *testing.T) {
	mod, _ := lower(t, `block 0 basic
    extern_func @add3, :int, :int, :int, :int
    extern_func @tick, :void
    $a := literal_int 1
    $b := literal_int 2
    $c := literal_int 3
    $r := call_func @add3, $a, $b, $c
    print_int $r
    $v := call_func @tick
`)

	var add3 *ir.Func
	for _, fn := range mod.Funcs {
		if fn.Name() == "add3" {
			add3 = fn
		}
	}

	if add3 == nil {
		t.Fatal("add3 was not declared")
	}
	if len(add3.Blocks) != 0 || add3.Linkage != enum.LinkageExternal || len(add3.Params) != 3 {
		t.Errorf("add3 = %s, want an external declaration with 3 parameters", add3.LLString())
	}

	out := &bytes.Buffer{}
	m := interp.NewMachine(mod, out)

	ticks := 0
	m.Bind("add3", func(args []interp.Value) (interp.Value, error) {
		return args[0].(int32) + args[1].(int32) + args[2].(int32), nil
	})
	m.Bind("tick", func(args []interp.Value) (interp.Value, error) {
		ticks++
		return nil, nil
	})

	if err := m.Run("main"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.String() != "6\n" {
		t.Errorf("output = %q, want %q", out.String(), "6\n")
	}
	if ticks != 1 {
		t.Errorf("tick called %d times, want 1", ticks)
	}
}

// The result of a void call is still bound to its destination.
func TestVoidCallResult(t *testing.T) {
	g, err := mir.ReadGraph(strings.NewReader(`block 0 basic
    extern_func @tick, :void
    $v := call_func @tick
`))
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}

	gen := NewGenerator(nil, DefaultOptions())
	if _, err := gen.Generate(g); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	v, ok := gen.temps["v"]
	if !ok {
		t.Fatal("void call result was not bound")
	}

	if call, ok := v.(*ir.InstCall); !ok || call.LocalName != "" {
		t.Errorf("void call result = %v, want an unnamed call", v)
	}
}

func TestOptions(t *testing.T) {
	g, err := mir.ReadGraph(strings.NewReader(`block 0 basic
    $a := literal_int 4
    print_int $a
`))
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}

	opts := Options{
		TargetTriple: "x86_64-pc-linux-gnu",
		Runtime:      RuntimeNames{PrintInt: "rt_int", PrintFloat: "rt_float", PrintBool: "rt_bool"},
	}

	mod, err := NewGenerator(nil, opts).Generate(g)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if mod.TargetTriple != opts.TargetTriple {
		t.Errorf("TargetTriple = %q, want %q", mod.TargetTriple, opts.TargetTriple)
	}

	out := &bytes.Buffer{}
	m := interp.NewMachine(mod, out)
	m.BindPrinters("rt_int", "rt_float", "rt_bool")
	if err := m.Run("main"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.String() != "4\n" {
		t.Errorf("output = %q, want %q", out.String(), "4\n")
	}
}

func TestEmptyGraph(t *testing.T) {
	mod, _ := lowerGraph(t, mir.NewGraph())

	if out, _ := execute(t, mod); out != "" {
		t.Errorf("output = %q, want nothing", out)
	}

	// the three runtime routines and main
	if len(mod.Funcs) != 4 {
		t.Errorf("got %d functions, want 4", len(mod.Funcs))
	}
}

func TestVerify(t *testing.T) {
	mod := ir.NewModule()
	fn := mod.NewFunc("f", types.Void)
	fn.NewBlock("entry")

	if err := Verify(mod); err == nil {
		t.Error("Verify accepted a block without a terminator")
	}
}

func TestIfScenario(t *testing.T) {
	mod, _ := lower(t, `# if 1 < 2 { print 1; } else { print 0; }
block 0 if then 1 else 2
    $t1 := literal_int 1
    $t2 := literal_int 2
    $t3 := lt_int $t1, $t2
block 1 basic
    $t4 := literal_int 1
    print_int $t4
block 2 basic
    $t5 := literal_int 0
    print_int $t5
`)

	main := mainOf(t, mod)
	if len(main.Blocks) != 4 {
		t.Errorf("blocks = %v, want entry plus then/else/merge", blockNames(main))
	}

	out, m := execute(t, mod)
	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}

	if m.Visits("then.1") != 1 || m.Visits("else.1") != 0 || m.Visits("merge.1") != 1 {
		t.Errorf("visits then/else/merge = %d/%d/%d, want 1/0/1", m.Visits("then.1"), m.Visits("else.1"), m.Visits("merge.1"))
	}
}

// A branch of a conditional without a successor may end at the enclosing loop.
func TestBranchJoinsLoopHeader(t *testing.T) {
	mod, _ := lower(t, `entry 0
block 0 basic -> 1
    alloc_int @i
    $z := literal_int 0
    store_int $z, @i
block 1 while body 2
    $a := load_int @i
    $b := literal_int 2
    $c := lt_int $a, $b
block 2 if then 3 else 4
    $d := load_int @i
    $e := literal_int 1
    $f := lt_int $d, $e
block 3 basic -> 1
    $g := load_int @i
    print_int $g
    $h := literal_int 1
    $k := add_int $g, $h
    store_int $k, @i
block 4 basic -> 1
    $m := load_int @i
    $n := usub_int $m
    print_int $n
    $o := literal_int 1
    $p := add_int $m, $o
    store_int $p, @i
`)

	if out, _ := execute(t, mod); out != "0\n-1\n" {
		t.Errorf("output = %q, want %q", out, "0\n-1\n")
	}
}

// Temporaries named like generated block labels do not clash with them.
func TestTempNamesDoNotClashWithLabels(t *testing.T) {
	mod, _ := lower(t, `block 0 while $c body 1
    $entry := literal_int 0
    $whiletest.1 := literal_int 1
    $c := lt_int $entry, $whiletest.1
block 1 basic
    alloc_int @x
    $loop.1 := load_int @x
    print_int $loop.1
`)

	main := mainOf(t, mod)

	labels := make(map[string]bool)
	for _, block := range main.Blocks {
		labels[block.Name()] = true
	}

	for _, block := range main.Blocks {
		for _, inst := range block.Insts {
			if named, ok := inst.(value.Named); ok && labels[named.Name()] {
				t.Errorf("instruction %s is named like a block", named.Name())
			}
		}
	}

	text := mod.String()
	if strings.Contains(text, "%loop.1 =") || strings.Contains(text, "%whiletest.1 =") {
		t.Errorf("a temporary reuses a block label:\n%s", text)
	}
	if !strings.Contains(text, "%$loop.1 = load i32") {
		t.Errorf("load is not named after its temporary:\n%s", text)
	}
}

func TestWarningsWithoutReporter(t *testing.T) {
	report.InitReporter(report.LogLevelSilent)
	before := len(report.Global().Warnings())

	g, err := mir.ReadGraph(strings.NewReader("block 0 basic\n    frobnicate\n"))
	if err != nil {
		t.Fatalf("ReadGraph failed: %v", err)
	}

	if _, err := NewGenerator(nil, DefaultOptions()).Generate(g); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if after := len(report.Global().Warnings()); after != before+1 {
		t.Errorf("global reporter has %d new warnings, want 1", after-before)
	}
}
