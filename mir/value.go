package mir

import (
	"strconv"
	"strings"
)

// Value represents an operand of an instruction.
type Value interface {
	// Repr returns the listing representation of the value.
	Repr() string
}

// Temp names a single-assignment temporary.
type Temp string

func (t Temp) Repr() string {
	return "$" + string(t)
}

// Global names durable storage (a variable) or a function.
type Global string

func (g Global) Repr() string {
	return "@" + string(g)
}

// TypeRef names a scalar type by its type name (eg. `int`).
type TypeRef string

func (tr TypeRef) Repr() string {
	return ":" + string(tr)
}

// IntConst is an embedded integer literal.
type IntConst int64

func (ic IntConst) Repr() string {
	return strconv.FormatInt(int64(ic), 10)
}

// FloatConst is an embedded floating-point literal.
type FloatConst float64

func (fc FloatConst) Repr() string {
	s := strconv.FormatFloat(float64(fc), 'g', -1, 64)

	// make sure the literal is read back as a float and not as an int
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}

	return s
}

// BoolConst is an embedded boolean literal.
type BoolConst bool

func (bc BoolConst) Repr() string {
	return strconv.FormatBool(bool(bc))
}
