package interp

import (
	"fmt"
	"math"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// Value is a runtime value.  It is one of int32 (i32), float64 (double), or
// bool (i1).  The result of a void call is nil.
type Value interface{}

// fromConstant converts an LLVM scalar constant to a runtime value.
func fromConstant(c constant.Constant) (Value, error) {
	switch v := c.(type) {
	case *constant.Int:
		if v.Typ.BitSize == 1 {
			return v.X.Sign() != 0, nil
		}

		return int32(v.X.Int64()), nil
	case *constant.Float:
		if v.NaN {
			return math.NaN(), nil
		}

		f, _ := v.X.Float64()
		return f, nil
	}

	return nil, fmt.Errorf("unsupported constant `%s`", c.Ident())
}

// zeroOf returns the zero value of a scalar type.
func zeroOf(typ types.Type) (Value, error) {
	switch t := typ.(type) {
	case *types.IntType:
		if t.BitSize == 1 {
			return false, nil
		}

		return int32(0), nil
	case *types.FloatType:
		return float64(0), nil
	}

	return nil, fmt.Errorf("unsupported type `%s`", typ)
}

// formatValue formats a value the way the default print routines do.
func formatValue(v Value) string {
	switch x := v.(type) {
	case int32:
		return fmt.Sprintf("%d", x)
	case float64:
		return fmt.Sprintf("%f", x)
	case bool:
		if x {
			return "true"
		}

		return "false"
	}

	return fmt.Sprint(v)
}
