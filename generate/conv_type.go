package generate

import (
	"gone/mir"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// The LLVM types used for the scalar types of the IR.
var (
	intType   = types.I32
	floatType = types.Double
	boolType  = types.I1
)

// TypeMap maps the type names used in the IR to their LLVM types.  It is the
// single source of truth for scalar type identity.  A nil entry is a type name
// which is known but not supported yet.
var TypeMap = map[string]types.Type{
	"int":    intType,
	"float":  floatType,
	"bool":   boolType,
	"void":   types.Void,
	"string": nil,
}

// opTypeNames gives the type name of the typed alloc op codes.
var opTypeNames = map[mir.OpCode]string{
	mir.OpAllocInt:   "int",
	mir.OpAllocFloat: "float",
	mir.OpAllocBool:  "bool",
}

// convTypeName converts a type name into an LLVM type.  Names that are not in
// the type map or that are not supported yet are fatal.  The void type is only
// accepted if allowVoid is set.
func (g *Generator) convTypeName(instr *mir.Instruction, name string, allowVoid bool) types.Type {
	typ, ok := TypeMap[name]
	if !ok {
		g.failAt(instr, "unknown type name `%s`", name)
	}

	if typ == nil {
		g.failAt(instr, "type `%s` is not supported yet", name)
	}

	if !allowVoid && typ.Equal(types.Void) {
		g.failAt(instr, "type `void` is only valid as a return type")
	}

	return typ
}

// zeroValue returns the zero value of a scalar type.
func zeroValue(typ types.Type) constant.Constant {
	switch v := typ.(type) {
	case *types.IntType:
		return constant.NewInt(v, 0)
	case *types.FloatType:
		return constant.NewFloat(v, 0)
	}

	// unreachable: only scalar types are allocated
	return nil
}
