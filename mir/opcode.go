// Package mir defines the three-address intermediate representation consumed
// by the generator: instructions tagged with op codes, organized into a graph
// of sequential, conditional, and loop blocks.
package mir

// OpCode designates the operation performed by an instruction.
type OpCode int

// Enumeration of instruction op codes.
const (
	OpUnknown OpCode = iota // any op code name the generator does not know

	// Literals: literal_<type> <const> => $dest
	OpLiteralInt
	OpLiteralFloat
	OpLiteralBool

	// Variable allocation: alloc_<type> @name
	OpAllocInt
	OpAllocFloat
	OpAllocBool

	// Variable access: load_<type> @name => $dest, store_<type> $src, @name
	OpLoadInt
	OpLoadFloat
	OpLoadBool
	OpStoreInt
	OpStoreFloat
	OpStoreBool

	// Arithmetic: <op>_<type> $lhs, $rhs => $dest
	OpAddInt
	OpAddFloat
	OpSubInt
	OpSubFloat
	OpMulInt
	OpMulFloat
	OpDivInt
	OpDivFloat

	// Integer comparison (signed)
	OpLtInt
	OpGtInt
	OpLteInt
	OpGteInt
	OpEqInt
	OpNeqInt

	// Float comparison (unordered)
	OpLtFloat
	OpGtFloat
	OpLteFloat
	OpGteFloat
	OpEqFloat
	OpNeqFloat

	// Boolean logic
	OpAndBool
	OpOrBool
	OpNotBool

	// Unary arithmetic: u<op>_<type> $src => $dest
	OpUAddInt
	OpUAddFloat
	OpUSubInt
	OpUSubFloat

	// Printing: print_<type> $src
	OpPrintInt
	OpPrintFloat
	OpPrintBool

	// Functions: extern_func @name, :ret, :param...
	//            call_func @name, $arg... => $dest
	OpExternFunc
	OpCallFunc
)

// opCodeNames maps each op code to the name used for it in listings.
var opCodeNames = [...]string{
	OpUnknown: "<unknown>",

	OpLiteralInt:   "literal_int",
	OpLiteralFloat: "literal_float",
	OpLiteralBool:  "literal_bool",

	OpAllocInt:   "alloc_int",
	OpAllocFloat: "alloc_float",
	OpAllocBool:  "alloc_bool",

	OpLoadInt:    "load_int",
	OpLoadFloat:  "load_float",
	OpLoadBool:   "load_bool",
	OpStoreInt:   "store_int",
	OpStoreFloat: "store_float",
	OpStoreBool:  "store_bool",

	OpAddInt:   "add_int",
	OpAddFloat: "add_float",
	OpSubInt:   "sub_int",
	OpSubFloat: "sub_float",
	OpMulInt:   "mul_int",
	OpMulFloat: "mul_float",
	OpDivInt:   "div_int",
	OpDivFloat: "div_float",

	OpLtInt:  "lt_int",
	OpGtInt:  "gt_int",
	OpLteInt: "lte_int",
	OpGteInt: "gte_int",
	OpEqInt:  "eq_int",
	OpNeqInt: "neq_int",

	OpLtFloat:  "lt_float",
	OpGtFloat:  "gt_float",
	OpLteFloat: "lte_float",
	OpGteFloat: "gte_float",
	OpEqFloat:  "eq_float",
	OpNeqFloat: "neq_float",

	OpAndBool: "and_bool",
	OpOrBool:  "or_bool",
	OpNotBool: "not_bool",

	OpUAddInt:   "uadd_int",
	OpUAddFloat: "uadd_float",
	OpUSubInt:   "usub_int",
	OpUSubFloat: "usub_float",

	OpPrintInt:   "print_int",
	OpPrintFloat: "print_float",
	OpPrintBool:  "print_bool",

	OpExternFunc: "extern_func",
	OpCallFunc:   "call_func",
}

// opCodesByName is the inverse of opCodeNames.
var opCodesByName = make(map[string]OpCode, len(opCodeNames))

func init() {
	for op, name := range opCodeNames {
		if OpCode(op) != OpUnknown {
			opCodesByName[name] = OpCode(op)
		}
	}
}

// LookupOpCode returns the op code with the given name.  Names that are not
// known yield OpUnknown.
func LookupOpCode(name string) OpCode {
	if op, ok := opCodesByName[name]; ok {
		return op
	}

	return OpUnknown
}

// String returns the listing name of the op code.
func (op OpCode) String() string {
	if 0 <= int(op) && int(op) < len(opCodeNames) {
		return opCodeNames[op]
	}

	return opCodeNames[OpUnknown]
}
