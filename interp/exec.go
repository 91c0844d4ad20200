package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// ErrDivideByZero is returned when an integer is divided by zero.
var ErrDivideByZero = errors.New("integer division by zero")

// exec executes a single instruction and records its result in the frame.
func (m *Machine) exec(fr frame, inst ir.Instruction) error {
	var (
		result Value
		err    error
	)

	switch in := inst.(type) {
	case *ir.InstAdd:
		result, err = m.intOp(fr, in.X, in.Y, func(x, y int32) (int32, error) { return x + y, nil })
	case *ir.InstSub:
		result, err = m.intOp(fr, in.X, in.Y, func(x, y int32) (int32, error) { return x - y, nil })
	case *ir.InstMul:
		result, err = m.intOp(fr, in.X, in.Y, func(x, y int32) (int32, error) { return x * y, nil })
	case *ir.InstSDiv:
		result, err = m.intOp(fr, in.X, in.Y, func(x, y int32) (int32, error) {
			if y == 0 {
				return 0, ErrDivideByZero
			}

			return x / y, nil
		})
	case *ir.InstFAdd:
		result, err = m.floatOp(fr, in.X, in.Y, func(x, y float64) float64 { return x + y })
	case *ir.InstFSub:
		result, err = m.floatOp(fr, in.X, in.Y, func(x, y float64) float64 { return x - y })
	case *ir.InstFMul:
		result, err = m.floatOp(fr, in.X, in.Y, func(x, y float64) float64 { return x * y })
	case *ir.InstFDiv:
		result, err = m.floatOp(fr, in.X, in.Y, func(x, y float64) float64 { return x / y })
	case *ir.InstICmp:
		result, err = m.icmp(fr, in.Pred, in.X, in.Y)
	case *ir.InstFCmp:
		result, err = m.fcmp(fr, in.Pred, in.X, in.Y)
	case *ir.InstAnd:
		result, err = m.logicOp(fr, in.X, in.Y, func(x, y bool) bool { return x && y }, func(x, y int32) int32 { return x & y })
	case *ir.InstOr:
		result, err = m.logicOp(fr, in.X, in.Y, func(x, y bool) bool { return x || y }, func(x, y int32) int32 { return x | y })
	case *ir.InstXor:
		result, err = m.logicOp(fr, in.X, in.Y, func(x, y bool) bool { return x != y }, func(x, y int32) int32 { return x ^ y })
	case *ir.InstLoad:
		glob, ok := in.Src.(*ir.Global)
		if !ok {
			return fmt.Errorf("load from non-global `%s`", in.Src.Ident())
		}

		result = m.globals[glob]
	case *ir.InstStore:
		glob, ok := in.Dst.(*ir.Global)
		if !ok {
			return fmt.Errorf("store to non-global `%s`", in.Dst.Ident())
		}

		v, err := m.eval(fr, in.Src)
		if err != nil {
			return err
		}

		m.globals[glob] = v
		return nil
	case *ir.InstCall:
		result, err = m.execCall(fr, in)
	default:
		return fmt.Errorf("unsupported instruction %T", inst)
	}

	if err != nil {
		return err
	}

	fr[inst.(value.Value)] = result
	return nil
}

// execCall executes a call instruction.
func (m *Machine) execCall(fr frame, in *ir.InstCall) (Value, error) {
	callee, ok := in.Callee.(*ir.Func)
	if !ok {
		return nil, fmt.Errorf("indirect call through `%s`", in.Callee.Ident())
	}

	args := make([]Value, len(in.Args))
	for i, arg := range in.Args {
		v, err := m.eval(fr, arg)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return m.call(callee, args)
}

// -----------------------------------------------------------------------------

// eval returns the runtime value of an operand.
func (m *Machine) eval(fr frame, v value.Value) (Value, error) {
	if result, ok := fr[v]; ok {
		return result, nil
	}

	switch x := v.(type) {
	case *ir.Global:
		return nil, fmt.Errorf("address of `%s` used as a value", x.Name())
	case constant.Constant:
		return fromConstant(x)
	}

	return nil, fmt.Errorf("use of undefined value `%s`", v.Ident())
}

func (m *Machine) evalBool(fr frame, v value.Value) (bool, error) {
	x, err := m.eval(fr, v)
	if err != nil {
		return false, err
	}

	if b, ok := x.(bool); ok {
		return b, nil
	}

	return false, fmt.Errorf("`%s` is not a bool", v.Ident())
}

// intOp applies an operation to two i32 operands.  Overflow wraps.
func (m *Machine) intOp(fr frame, x, y value.Value, op func(x, y int32) (int32, error)) (Value, error) {
	a, b, err := m.evalPair(fr, x, y)
	if err != nil {
		return nil, err
	}

	ai, ok1 := a.(int32)
	bi, ok2 := b.(int32)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("integer operation on `%s` and `%s`", x.Ident(), y.Ident())
	}

	return op(ai, bi)
}

// floatOp applies an operation to two double operands.
func (m *Machine) floatOp(fr frame, x, y value.Value, op func(x, y float64) float64) (Value, error) {
	a, b, err := m.evalPair(fr, x, y)
	if err != nil {
		return nil, err
	}

	af, ok1 := a.(float64)
	bf, ok2 := b.(float64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("floating point operation on `%s` and `%s`", x.Ident(), y.Ident())
	}

	return op(af, bf), nil
}

// logicOp applies a bitwise operation to two i1 or two i32 operands.
func (m *Machine) logicOp(fr frame, x, y value.Value, boolOp func(x, y bool) bool, intOp func(x, y int32) int32) (Value, error) {
	a, b, err := m.evalPair(fr, x, y)
	if err != nil {
		return nil, err
	}

	switch av := a.(type) {
	case bool:
		if bv, ok := b.(bool); ok {
			return boolOp(av, bv), nil
		}
	case int32:
		if bv, ok := b.(int32); ok {
			return intOp(av, bv), nil
		}
	}

	return nil, fmt.Errorf("logical operation on `%s` and `%s`", x.Ident(), y.Ident())
}

// icmp compares two i32 operands.  Only the signed and equality predicates are
// supported.
func (m *Machine) icmp(fr frame, pred enum.IPred, x, y value.Value) (Value, error) {
	a, b, err := m.evalPair(fr, x, y)
	if err != nil {
		return nil, err
	}

	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch pred {
			case enum.IPredEQ:
				return ab == bb, nil
			case enum.IPredNE:
				return ab != bb, nil
			}
		}
	}

	ai, ok1 := a.(int32)
	bi, ok2 := b.(int32)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("integer comparison of `%s` and `%s`", x.Ident(), y.Ident())
	}

	switch pred {
	case enum.IPredEQ:
		return ai == bi, nil
	case enum.IPredNE:
		return ai != bi, nil
	case enum.IPredSLT:
		return ai < bi, nil
	case enum.IPredSGT:
		return ai > bi, nil
	case enum.IPredSLE:
		return ai <= bi, nil
	case enum.IPredSGE:
		return ai >= bi, nil
	}

	return nil, fmt.Errorf("unsupported integer predicate `%s`", pred)
}

// fcmp compares two double operands.  Both ordered and unordered predicates
// are supported: unordered ones are true if either operand is NaN.
func (m *Machine) fcmp(fr frame, pred enum.FPred, x, y value.Value) (Value, error) {
	a, b, err := m.evalPair(fr, x, y)
	if err != nil {
		return nil, err
	}

	af, ok1 := a.(float64)
	bf, ok2 := b.(float64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("floating point comparison of `%s` and `%s`", x.Ident(), y.Ident())
	}

	uno := math.IsNaN(af) || math.IsNaN(bf)

	switch pred {
	case enum.FPredFalse:
		return false, nil
	case enum.FPredTrue:
		return true, nil
	case enum.FPredUNO:
		return uno, nil
	case enum.FPredORD:
		return !uno, nil
	case enum.FPredULT:
		return uno || af < bf, nil
	case enum.FPredUGT:
		return uno || af > bf, nil
	case enum.FPredULE:
		return uno || af <= bf, nil
	case enum.FPredUGE:
		return uno || af >= bf, nil
	case enum.FPredUEQ:
		return uno || af == bf, nil
	case enum.FPredUNE:
		return uno || af != bf, nil
	case enum.FPredOLT:
		return !uno && af < bf, nil
	case enum.FPredOGT:
		return !uno && af > bf, nil
	case enum.FPredOLE:
		return !uno && af <= bf, nil
	case enum.FPredOGE:
		return !uno && af >= bf, nil
	case enum.FPredOEQ:
		return !uno && af == bf, nil
	case enum.FPredONE:
		return !uno && af != bf, nil
	}

	return nil, fmt.Errorf("unsupported floating point predicate `%s`", pred)
}

func (m *Machine) evalPair(fr frame, x, y value.Value) (Value, Value, error) {
	a, err := m.eval(fr, x)
	if err != nil {
		return nil, nil, err
	}

	b, err := m.eval(fr, y)
	if err != nil {
		return nil, nil, err
	}

	return a, b, nil
}
