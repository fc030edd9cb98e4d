package interpreter

import (
	"fmt"
	"math"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

// numericOperands widens a numeric pair to float64 for mixed or real arithmetic.
func numericOperands(left, right runtime.Value) (l, r float64, ok bool) {
	switch lv := left.(type) {
	case runtime.IntegerValue:
		switch rv := right.(type) {
		case runtime.IntegerValue:
			return float64(lv.Val), float64(rv.Val), true
		case runtime.RealValue:
			return float64(lv.Val), rv.Val, true
		}
	case runtime.RealValue:
		switch rv := right.(type) {
		case runtime.IntegerValue:
			return lv.Val, float64(rv.Val), true
		case runtime.RealValue:
			return lv.Val, rv.Val, true
		}
	}
	return 0, 0, false
}

// arithmetic applies + - * / div mod. Integer operands stay integers except
// for /, which always yields a real; a real operand promotes the result.
func arithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if li, ok := left.(runtime.IntegerValue); ok {
		if ri, ok := right.(runtime.IntegerValue); ok && op != string(ast.OpDivide) {
			return integerArithmetic(op, li.Val, ri.Val)
		}
	}
	l, r, ok := numericOperands(left, right)
	if !ok {
		return nil, runtime.NewTypeMismatch("operator %s is not defined for %s and %s", op, kindName(left), kindName(right))
	}
	switch op {
	case string(ast.OpAdd):
		return runtime.RealValue{Val: l + r}, nil
	case string(ast.OpSubtract):
		return runtime.RealValue{Val: l - r}, nil
	case string(ast.OpMultiply):
		return runtime.RealValue{Val: l * r}, nil
	case string(ast.OpDivide):
		return runtime.RealValue{Val: l / r}, nil
	case string(ast.OpDiv):
		return runtime.RealValue{Val: math.Trunc(l / r)}, nil
	case string(ast.OpMod):
		return runtime.RealValue{Val: math.Mod(l, r)}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported arithmetic operator %q", op)
	}
}

func integerArithmetic(op string, l, r int64) (runtime.Value, error) {
	switch op {
	case string(ast.OpAdd):
		return runtime.IntegerValue{Val: l + r}, nil
	case string(ast.OpSubtract):
		return runtime.IntegerValue{Val: l - r}, nil
	case string(ast.OpMultiply):
		return runtime.IntegerValue{Val: l * r}, nil
	case string(ast.OpDiv):
		if r == 0 {
			return nil, runtime.NewDivisionByZero()
		}
		return runtime.IntegerValue{Val: l / r}, nil
	case string(ast.OpMod):
		if r == 0 {
			return nil, runtime.NewDivisionByZero()
		}
		return runtime.IntegerValue{Val: l % r}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported arithmetic operator %q", op)
	}
}

// logical applies and/or: logical on booleans, bitwise on integers.
func logical(op string, left, right runtime.Value) (runtime.Value, error) {
	switch lv := left.(type) {
	case runtime.BoolValue:
		if rv, ok := right.(runtime.BoolValue); ok {
			if op == string(ast.OpAnd) {
				return runtime.BoolValue{Val: lv.Val && rv.Val}, nil
			}
			return runtime.BoolValue{Val: lv.Val || rv.Val}, nil
		}
	case runtime.IntegerValue:
		if rv, ok := right.(runtime.IntegerValue); ok {
			if op == string(ast.OpAnd) {
				return runtime.IntegerValue{Val: lv.Val & rv.Val}, nil
			}
			return runtime.IntegerValue{Val: lv.Val | rv.Val}, nil
		}
	}
	return nil, runtime.NewTypeMismatch("operator %s is not defined for %s and %s", op, kindName(left), kindName(right))
}

func negate(v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return runtime.IntegerValue{Val: -val.Val}, nil
	case runtime.RealValue:
		return runtime.RealValue{Val: -val.Val}, nil
	default:
		return nil, runtime.NewTypeMismatch("cannot negate a %s", kindName(v))
	}
}

func not(v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.BoolValue:
		return runtime.BoolValue{Val: !val.Val}, nil
	case runtime.IntegerValue:
		return runtime.IntegerValue{Val: ^val.Val}, nil
	default:
		return nil, runtime.NewTypeMismatch("not is not defined for %s", kindName(v))
	}
}

// compare applies a relational operator. Numbers compare numerically, chars
// and strings by code point, booleans with false < true.
func compare(op ast.RelationalOperator, left, right runtime.Value) (bool, error) {
	var cmp int
	li, lInt := left.(runtime.IntegerValue)
	ri, rInt := right.(runtime.IntegerValue)
	if lInt && rInt {
		cmp = order(li.Val < ri.Val, li.Val > ri.Val)
	} else if l, r, ok := numericOperands(left, right); ok {
		cmp = order(l < r, l > r)
	} else {
		switch lv := left.(type) {
		case runtime.BoolValue:
			rv, ok := right.(runtime.BoolValue)
			if !ok {
				return false, mismatch(op, left, right)
			}
			cmp = order(!lv.Val && rv.Val, lv.Val && !rv.Val)
		case runtime.CharValue, runtime.StringValue:
			ls, lok := textOf(left)
			rs, rok := textOf(right)
			if !lok || !rok {
				return false, mismatch(op, left, right)
			}
			cmp = order(ls < rs, ls > rs)
		default:
			return false, mismatch(op, left, right)
		}
	}
	switch op {
	case ast.OpEqual:
		return cmp == 0, nil
	case ast.OpNotEqual:
		return cmp != 0, nil
	case ast.OpLess:
		return cmp < 0, nil
	case ast.OpLessEqual:
		return cmp <= 0, nil
	case ast.OpGreater:
		return cmp > 0, nil
	case ast.OpGreaterEqual:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("interpreter: unsupported relational operator %q", op)
	}
}

func order(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

func textOf(v runtime.Value) (string, bool) {
	switch val := v.(type) {
	case runtime.CharValue:
		return string(val.Val), true
	case runtime.StringValue:
		return val.Val, true
	default:
		return "", false
	}
}

func mismatch(op ast.RelationalOperator, left, right runtime.Value) error {
	return runtime.NewTypeMismatch("cannot compare %s %s %s", kindName(left), op, kindName(right))
}
