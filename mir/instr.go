package mir

import (
	"strings"

	"gone/report"
)

// Instruction is a single three-address instruction: an op code applied to
// some operands, optionally bound to a destination temporary.
type Instruction struct {
	// OpCode is the op code of the instruction.  It is OpUnknown if the name is
	// not a known op code.
	OpCode OpCode

	// Name is the op code name as it was written by the producer.
	Name string

	// Args are the operands of the instruction in order.
	Args []Value

	// Dest is the name of the temporary the instruction defines.  It is empty
	// if the instruction yields no value.
	Dest string

	// Span is the position of the instruction in its listing.  It is nil for
	// instructions built in memory.
	Span *report.TextSpan
}

// NewInstr creates a new instruction from an op code name.
func NewInstr(name, dest string, args ...Value) *Instruction {
	return &Instruction{
		OpCode: LookupOpCode(name),
		Name:   name,
		Args:   args,
		Dest:   dest,
	}
}

// Repr returns the listing representation of the instruction.
func (instr *Instruction) Repr() string {
	sb := strings.Builder{}

	if instr.Dest != "" {
		sb.WriteString(Temp(instr.Dest).Repr())
		sb.WriteString(" := ")
	}

	sb.WriteString(instr.Name)

	for i, arg := range instr.Args {
		if i == 0 {
			sb.WriteRune(' ')
		} else {
			sb.WriteString(", ")
		}

		sb.WriteString(arg.Repr())
	}

	return sb.String()
}
