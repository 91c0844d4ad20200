package mir

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"gone/report"
)

// The listing format read by ReadGraph is line-oriented:
//
//	entry 0
//	block 0 basic -> 1
//	    alloc_int @x
//	    $t1 := literal_int 2
//	block 1 if $t2 then 2 else 3 -> 4
//	block 2 while $t5 body 3 -> -
//
// Lines starting with `#` are comments.  A `-` block reference denotes an
// absent block.  Instruction lines belong to the closest preceding block
// header.

// listingReader reads a block graph from a listing.
type listingReader struct {
	sc *bufio.Scanner

	// line is the zero-indexed number of the line being read and text is its
	// raw content.
	line int
	text string

	g   *Graph
	cur *Block

	// entry is the block named by an explicit entry line and entrySet
	// indicates whether one has been read.
	entry    BlockID
	entrySet bool
}

// ReadGraph reads a block graph from a listing.  It returns a
// *report.LocalCompileError describing the first malformed line if the listing
// is invalid.  Block references are not checked: that happens when the graph is
// lowered.
func ReadGraph(r io.Reader) (g *Graph, err error) {
	lr := &listingReader{
		sc:   bufio.NewScanner(r),
		line: -1,
		g:    NewGraph(),
	}

	defer report.CatchLocal(&err)

	for lr.sc.Scan() {
		lr.line++
		lr.text = lr.sc.Text()
		lr.readLine()
	}

	if serr := lr.sc.Err(); serr != nil {
		return nil, serr
	}

	if lr.entrySet {
		lr.g.Entry = lr.entry
	}

	return lr.g, nil
}

// span returns the text span of the current line without its indentation.
func (lr *listingReader) span() *report.TextSpan {
	trimmed := strings.TrimLeft(lr.text, " \t")
	return &report.TextSpan{
		StartLine: lr.line,
		StartCol:  len(lr.text) - len(trimmed),
		EndLine:   lr.line,
		EndCol:    len(strings.TrimRight(lr.text, " \t")),
	}
}

// fail aborts reading with an error on the current line.
func (lr *listingReader) fail(msg string, args ...interface{}) {
	panic(report.Raise(lr.span(), msg, args...))
}

// readLine reads a single line of the listing.
func (lr *listingReader) readLine() {
	content := strings.TrimSpace(lr.text)
	if content == "" || strings.HasPrefix(content, "#") {
		return
	}

	fields := strings.Fields(content)
	switch fields[0] {
	case "entry":
		if len(fields) != 2 {
			lr.fail("expected `entry <block>`")
		}

		lr.entry = lr.readBlockRef(fields[1])
		lr.entrySet = true
	case "block":
		lr.readHeader(fields[1:])
	default:
		if lr.cur == nil {
			lr.fail("instruction outside of a block")
		}

		lr.cur.Instrs = append(lr.cur.Instrs, lr.readInstr(content))
	}
}

// readHeader reads the fields of a block header following `block`.
func (lr *listingReader) readHeader(fields []string) {
	if len(fields) < 2 {
		lr.fail("expected `block <id> <kind>`")
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id != len(lr.g.Blocks) {
		lr.fail("expected block id %d, got `%s`", len(lr.g.Blocks), fields[0])
	}

	var b *Block
	switch fields[1] {
	case "basic":
		b = lr.g.NewBasic()
	case "if":
		b = lr.g.NewIf("")
	case "while":
		b = lr.g.NewWhile("")
	default:
		lr.fail("unknown block kind `%s`", fields[1])
	}

	b.Span = lr.span()

	hasThen, hasElse, hasBody := false, false, false
	rest := fields[2:]
	for i := 0; i < len(rest); i++ {
		tok := rest[i]

		if strings.HasPrefix(tok, "$") && b.Kind != BKBasic && i == 0 {
			b.Test = lr.readName(tok[1:])
			continue
		}

		if i+1 >= len(rest) {
			lr.fail("expected block reference after `%s`", tok)
		}

		ref := lr.readBlockRef(rest[i+1])
		i++

		switch {
		case tok == "then" && b.Kind == BKIf:
			b.Then, hasThen = ref, true
		case tok == "else" && b.Kind == BKIf:
			b.Else, hasElse = ref, true
		case tok == "body" && b.Kind == BKWhile:
			b.Body, hasBody = ref, true
		case tok == "->":
			b.Next = ref
		default:
			lr.fail("unexpected `%s` in %s block header", tok, b.Kind)
		}
	}

	if b.Kind == BKIf && !(hasThen && hasElse) {
		lr.fail("if block requires both `then` and `else` references")
	} else if b.Kind == BKWhile && !hasBody {
		lr.fail("while block requires a `body` reference")
	}

	lr.cur = b
}

// readInstr reads an instruction line.
func (lr *listingReader) readInstr(content string) *Instruction {
	dest := ""
	if strings.HasPrefix(content, "$") {
		ndx := strings.Index(content, ":=")
		if ndx < 0 {
			lr.fail("expected `:=` after destination")
		}

		dest = lr.readName(strings.TrimSpace(content[1:ndx]))
		content = strings.TrimSpace(content[ndx+2:])
	}

	name := content
	operands := ""
	if ndx := strings.IndexAny(content, " \t"); ndx >= 0 {
		name = content[:ndx]
		operands = strings.TrimSpace(content[ndx:])
	}

	if name == "" {
		lr.fail("missing op code")
	}

	instr := NewInstr(name, dest)
	instr.Span = lr.span()

	if operands != "" {
		for _, tok := range strings.Split(operands, ",") {
			instr.Args = append(instr.Args, lr.readValue(strings.TrimSpace(tok)))
		}
	}

	return instr
}

// readValue reads a single operand.
func (lr *listingReader) readValue(tok string) Value {
	if tok == "" {
		lr.fail("missing operand")
	}

	switch tok[0] {
	case '$':
		return Temp(lr.readName(tok[1:]))
	case '@':
		return Global(lr.readName(tok[1:]))
	case ':':
		return TypeRef(lr.readName(tok[1:]))
	}

	switch tok {
	case "true":
		return BoolConst(true)
	case "false":
		return BoolConst(false)
	}

	if x, err := strconv.ParseInt(tok, 0, 64); err == nil {
		return IntConst(x)
	}

	if x, err := strconv.ParseFloat(tok, 64); err == nil {
		return FloatConst(x)
	}

	lr.fail("invalid operand `%s`", tok)
	return nil
}

// readName checks that a name is non-empty and contains no whitespace.
func (lr *listingReader) readName(name string) string {
	if name == "" || strings.ContainsAny(name, " \t,") {
		lr.fail("invalid name `%s`", name)
	}

	return name
}

// readBlockRef reads a block reference: a block index or `-`.
func (lr *listingReader) readBlockRef(tok string) BlockID {
	if tok == "-" {
		return NoBlock
	}

	id, err := strconv.Atoi(tok)
	if err != nil || id < 0 {
		lr.fail("invalid block reference `%s`", tok)
	}

	return BlockID(id)
}
