package mir

import (
	"strconv"
	"strings"
)

// Repr returns the full listing representation of the graph.  The result can
// be read back by ReadGraph.
func (g *Graph) Repr() string {
	sb := strings.Builder{}

	sb.WriteString("entry ")
	sb.WriteString(blockRef(g.Entry))
	sb.WriteRune('\n')

	for _, b := range g.Blocks {
		sb.WriteRune('\n')
		sb.WriteString(b.header())
		sb.WriteRune('\n')

		for _, instr := range b.Instrs {
			sb.WriteString("    ")
			sb.WriteString(instr.Repr())
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// header returns the listing header line of a block.
func (b *Block) header() string {
	sb := strings.Builder{}

	sb.WriteString("block ")
	sb.WriteString(strconv.Itoa(int(b.ID)))
	sb.WriteRune(' ')
	sb.WriteString(b.Kind.String())

	if b.Kind != BKBasic && b.Test != "" {
		sb.WriteRune(' ')
		sb.WriteString(Temp(b.Test).Repr())
	}

	switch b.Kind {
	case BKIf:
		sb.WriteString(" then ")
		sb.WriteString(blockRef(b.Then))
		sb.WriteString(" else ")
		sb.WriteString(blockRef(b.Else))
	case BKWhile:
		sb.WriteString(" body ")
		sb.WriteString(blockRef(b.Body))
	}

	if b.Next != NoBlock {
		sb.WriteString(" -> ")
		sb.WriteString(blockRef(b.Next))
	}

	return sb.String()
}

// blockRef returns the listing representation of a block reference.
func blockRef(id BlockID) string {
	if id == NoBlock {
		return "-"
	}

	return strconv.Itoa(int(id))
}
