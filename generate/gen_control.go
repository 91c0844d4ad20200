package generate

import (
	"gone/mir"

	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// visitChain lowers the chain of blocks starting at id by following their Next
// links until there is no successor or the walk reaches stop.  Each block is
// marked before it is lowered so that the back-edge of a loop is never
// followed.  Reaching a block that has already been lowered, or the join target
// of an enclosing block other than stop, is fatal: the graph has a cycle that
// is not rooted at a while block or a branch that escapes its structure.
func (g *Generator) visitChain(id, stop mir.BlockID) {
	g.pushJoin(stop)
	defer g.popJoin()

	for id != mir.NoBlock && id != stop {
		b, ok := g.graph.Block(id)
		if !ok {
			g.fail(nil, "reference to undefined block %d", id)
		}

		if g.isJoin(id) {
			g.fail(b.Span, "%s follows an enclosing block and cannot be reached from inside it", b)
		}

		if g.lowered.has(id) {
			g.fail(b.Span, "%s is reached twice: cycles must go through a while block", b)
		}

		g.lowered.add(id)

		switch b.Kind {
		case mir.BKBasic:
			g.genInstrs(b)
		case mir.BKIf:
			g.genIfBlock(b, stop)
		case mir.BKWhile:
			g.genWhileBlock(b)
		default:
			g.fail(b.Span, "%s has an invalid kind", b)
		}

		id = b.Next
	}
}

// genIfBlock lowers a conditional block.  Both branches are always given their
// own block, even if they are empty, and both fall through into the merge
// block which becomes the new insertion point.  The branches join at the
// conditional's successor or, if it has none, at the stop of the enclosing
// chain.
func (g *Generator) genIfBlock(b *mir.Block, stop mir.BlockID) {
	g.genInstrs(b)
	test := g.testValue(b)

	join := b.Next
	if join == mir.NoBlock {
		join = stop
	}

	label := g.nextLabel()
	thenBlock := g.appendBlock("then", label)
	elseBlock := g.appendBlock("else", label)
	mergeBlock := g.appendBlock("merge", label)

	g.condBranch(test, thenBlock, elseBlock)

	g.setBlock(thenBlock)
	g.visitChain(b.Then, join)
	g.branch(mergeBlock)

	g.setBlock(elseBlock)
	g.visitChain(b.Else, join)
	g.branch(mergeBlock)

	g.setBlock(mergeBlock)
}

// genWhileBlock lowers a loop block.  The prologue is lowered into the test
// block so that it is re-evaluated on every iteration.  The body jumps back to
// the test block and the insertion point is left at the block after the loop.
func (g *Generator) genWhileBlock(b *mir.Block) {
	label := g.nextLabel()
	testBlock := g.appendBlock("whiletest", label)

	g.branch(testBlock)
	g.setBlock(testBlock)

	g.genInstrs(b)
	test := g.testValue(b)

	loopBlock := g.appendBlock("loop", label)
	afterBlock := g.appendBlock("afterloop", label)

	g.condBranch(test, loopBlock, afterBlock)

	// the body may not run into the block after the loop
	g.pushJoin(b.Next)
	g.setBlock(loopBlock)
	g.visitChain(b.Body, b.ID)
	g.branch(testBlock)
	g.popJoin()

	g.setBlock(afterBlock)
}

// testValue returns the boolean test value of an if or while block.
func (g *Generator) testValue(b *mir.Block) value.Value {
	name := b.TestVar()
	if name == "" {
		g.fail(b.Span, "%s has no test value", b)
	}

	test, ok := g.temps[name]
	if !ok {
		g.fail(b.Span, "test value of %s uses undefined temporary `%s`", b, name)
	}

	if !test.Type().Equal(types.I1) {
		g.fail(b.Span, "test value of %s must be a bool, not %s", b, test.Type())
	}

	return test
}

// -----------------------------------------------------------------------------

// pushJoin adds a join target of the block being lowered.  Absent blocks are
// pushed too so that pushes and pops always pair up.
func (g *Generator) pushJoin(id mir.BlockID) {
	g.joins = append(g.joins, id)
}

func (g *Generator) popJoin() {
	g.joins = g.joins[:len(g.joins)-1]
}

// isJoin returns whether id is a join target of an enclosing block.
func (g *Generator) isJoin(id mir.BlockID) bool {
	for _, join := range g.joins {
		if join == id {
			return true
		}
	}

	return false
}
