package mir

import (
	"fmt"

	"gone/report"
)

// BlockID is the index of a block within its graph.
type BlockID int

// NoBlock marks an absent successor or an empty branch.
const NoBlock BlockID = -1

// BlockKind is the control-flow shape of a block.
type BlockKind int

// Enumeration of block kinds.
const (
	BKBasic BlockKind = iota // instructions followed by the next block
	BKIf                     // prologue, then one of two branches, then the next block
	BKWhile                  // prologue, body repeated while the test holds, then the next block
)

var blockKindNames = [...]string{
	BKBasic: "basic",
	BKIf:    "if",
	BKWhile: "while",
}

func (k BlockKind) String() string {
	if 0 <= int(k) && int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}

	return "unknown"
}

// Block is a unit of sequential instruction execution.  For conditional and
// loop blocks, the instructions are the prologue computing the test value.
type Block struct {
	ID   BlockID
	Kind BlockKind

	// Instrs is the list of instructions in the block.
	Instrs []*Instruction

	// Test is the name of the temporary used as the branch condition of an if
	// or while block.  If it is empty, the destination of the last
	// value-producing prologue instruction is used.
	Test string

	// Then and Else are the entries of the branches of an if block.
	Then, Else BlockID

	// Body is the entry of the body of a while block.
	Body BlockID

	// Next is the block control resumes at after this block.
	Next BlockID

	// Span is the position of the block header in its listing.  It is nil for
	// blocks built in memory.
	Span *report.TextSpan
}

// TestVar returns the name of the temporary holding the test value of an if or
// while block.  It returns an empty string if there is none.
func (b *Block) TestVar() string {
	if b.Test != "" {
		return b.Test
	}

	for i := len(b.Instrs) - 1; i >= 0; i-- {
		if b.Instrs[i].Dest != "" {
			return b.Instrs[i].Dest
		}
	}

	return ""
}

// Add appends instructions to the block.
func (b *Block) Add(instrs ...*Instruction) *Block {
	b.Instrs = append(b.Instrs, instrs...)
	return b
}

// -----------------------------------------------------------------------------

// Graph is the block graph of a program.  Blocks are stored in an arena and
// refer to each other by index.  The graph may contain cycles: a loop body may
// link back to its loop block.
type Graph struct {
	Blocks []*Block

	// Entry is the block execution starts at.  It is NoBlock for an empty
	// program.
	Entry BlockID
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{Entry: NoBlock}
}

// Len returns the number of blocks in the graph.
func (g *Graph) Len() int {
	return len(g.Blocks)
}

// Block returns the block with the given ID.
func (g *Graph) Block(id BlockID) (*Block, bool) {
	if id < 0 || int(id) >= len(g.Blocks) {
		return nil, false
	}

	return g.Blocks[id], true
}

// newBlock adds a new unlinked block to the graph.  The first block added
// becomes the entry of the graph.
func (g *Graph) newBlock(kind BlockKind, instrs []*Instruction) *Block {
	b := &Block{
		ID:     BlockID(len(g.Blocks)),
		Kind:   kind,
		Instrs: instrs,
		Then:   NoBlock,
		Else:   NoBlock,
		Body:   NoBlock,
		Next:   NoBlock,
	}

	g.Blocks = append(g.Blocks, b)

	if g.Entry == NoBlock {
		g.Entry = b.ID
	}

	return b
}

// NewBasic adds a new sequential block.
func (g *Graph) NewBasic(instrs ...*Instruction) *Block {
	return g.newBlock(BKBasic, instrs)
}

// NewIf adds a new conditional block whose prologue is instrs.  Its branches
// are attached by setting Then and Else.
func (g *Graph) NewIf(test string, instrs ...*Instruction) *Block {
	b := g.newBlock(BKIf, instrs)
	b.Test = test
	return b
}

// NewWhile adds a new loop block whose prologue is instrs.  Its body is
// attached by setting Body.
func (g *Graph) NewWhile(test string, instrs ...*Instruction) *Block {
	b := g.newBlock(BKWhile, instrs)
	b.Test = test
	return b
}

// Link chains the given blocks together in order through their Next links.
func Link(blocks ...*Block) {
	for i := 0; i < len(blocks)-1; i++ {
		blocks[i].Next = blocks[i+1].ID
	}
}

// String returns a short identifier for the block.
func (b *Block) String() string {
	return fmt.Sprintf("block %d (%s)", b.ID, b.Kind)
}
