package interpreter

import (
	"fmt"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

// evaluate walks the five expression tiers. Chains fold strictly left to
// right and every operand is evaluated; nothing short-circuits. A nil value
// with a nil error is the result of a procedure without a result identifier.
func (e *execution) evaluate(expr ast.Expression) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.RelationalExpression:
		return e.evaluateRelational(n)
	case *ast.AdditiveExpression:
		return e.evaluateAdditive(n)
	case *ast.MultiplicativeExpression:
		return e.evaluateMultiplicative(n)
	case *ast.NegatedFactor:
		val, err := e.operand(n.Operand)
		if err != nil {
			return nil, err
		}
		return negate(val)
	case *ast.Identifier:
		return e.env.Value(e.frame, n.Name)
	case *ast.Constant:
		return runtime.ConstantValue(n)
	case *ast.ParenExpression:
		return e.evaluate(n.Inner)
	case *ast.CallExpression:
		return e.call(n.Name, n.Arguments)
	case *ast.NotExpression:
		val, err := e.operand(n.Operand)
		if err != nil {
			return nil, err
		}
		return not(val)
	case nil:
		return nil, fmt.Errorf("interpreter: missing expression")
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression type: %s", n.NodeType())
	}
}

// operand evaluates an expression whose value feeds an operator, rejecting
// calls to procedures that produce no result.
func (e *execution) operand(expr ast.Expression) (runtime.Value, error) {
	val, err := e.evaluate(expr)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, runtime.NewTypeMismatch("a procedure without result cannot be used as an operand")
	}
	return val, nil
}

func (e *execution) evaluateRelational(expr *ast.RelationalExpression) (runtime.Value, error) {
	acc, err := e.operand(expr.Head)
	if err != nil {
		return nil, err
	}
	for _, t := range expr.Tail {
		right, err := e.operand(t.Operand)
		if err != nil {
			return nil, err
		}
		result, err := compare(t.Operator, acc, right)
		if err != nil {
			return nil, err
		}
		acc = runtime.BoolValue{Val: result}
	}
	return acc, nil
}

func (e *execution) evaluateAdditive(expr *ast.AdditiveExpression) (runtime.Value, error) {
	acc, err := e.operand(expr.Head)
	if err != nil {
		return nil, err
	}
	for _, t := range expr.Tail {
		right, err := e.operand(t.Operand)
		if err != nil {
			return nil, err
		}
		switch t.Operator {
		case ast.OpAdd, ast.OpSubtract:
			acc, err = arithmetic(string(t.Operator), acc, right)
		case ast.OpOr:
			acc, err = logical(string(t.Operator), acc, right)
		default:
			err = fmt.Errorf("interpreter: unsupported additive operator %q", t.Operator)
		}
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (e *execution) evaluateMultiplicative(expr *ast.MultiplicativeExpression) (runtime.Value, error) {
	acc, err := e.operand(expr.Head)
	if err != nil {
		return nil, err
	}
	for _, t := range expr.Tail {
		right, err := e.operand(t.Operand)
		if err != nil {
			return nil, err
		}
		switch t.Operator {
		case ast.OpMultiply, ast.OpDivide, ast.OpDiv, ast.OpMod:
			acc, err = arithmetic(string(t.Operator), acc, right)
		case ast.OpAnd:
			acc, err = logical(string(t.Operator), acc, right)
		default:
			err = fmt.Errorf("interpreter: unsupported multiplicative operator %q", t.Operator)
		}
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
