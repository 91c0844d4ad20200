package generate

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// The functions in this file are the only ones that create blocks or move the
// insertion point.  All instructions are emitted into g.block.

// nextLabel returns a new number used to make the labels of the blocks of a
// single control structure unique.
func (g *Generator) nextLabel() int {
	g.labelCounter++
	return g.labelCounter
}

// appendBlock adds a new basic block to the main function.  It does *not* set
// the current block to this new block.
func (g *Generator) appendBlock(name string, label int) *ir.Block {
	return g.mainFunc.NewBlock(fmt.Sprintf("%s.%d", name, label))
}

// setBlock sets the insertion point to the end of block.
func (g *Generator) setBlock(block *ir.Block) {
	g.block = block
}

// branch terminates the current block with an unconditional branch.
func (g *Generator) branch(target *ir.Block) {
	g.block.NewBr(target)
}

// condBranch terminates the current block with a conditional branch.
func (g *Generator) condBranch(test value.Value, ifTrue, ifFalse *ir.Block) {
	g.block.NewCondBr(test, ifTrue, ifFalse)
}

// returnVoid terminates the current block with a void return.
func (g *Generator) returnVoid() {
	g.block.NewRet(nil)
}
