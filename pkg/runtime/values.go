package runtime

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindReal
	KindBoolean
	KindChar
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type RealValue struct {
	Val float64
}

func (v RealValue) Kind() Kind { return KindReal }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBoolean }

type CharValue struct {
	Val rune
}

func (v CharValue) Kind() Kind { return KindChar }

// StringValue only arises from multi-character char constants; it can be
// written and compared but never read or declared.
type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// KindOfType maps a declared primitive type to the value kind it holds.
func KindOfType(t ast.PrimitiveType) Kind {
	switch t {
	case ast.TypeReal:
		return KindReal
	case ast.TypeBoolean:
		return KindBoolean
	case ast.TypeChar:
		return KindChar
	default:
		return KindInteger
	}
}

// Coerce adapts a value to the declared type of the variable receiving it.
// Only integer to real promotion is performed; every other value is stored
// as-is.
func Coerce(t ast.PrimitiveType, v Value) Value {
	if iv, ok := v.(IntegerValue); ok && t == ast.TypeReal {
		return RealValue{Val: float64(iv.Val)}
	}
	return v
}

// ConstantValue converts a typed AST literal into its runtime value.
func ConstantValue(c *ast.Constant) (Value, error) {
	if c == nil {
		return nil, fmt.Errorf("runtime: nil constant")
	}
	switch c.Type {
	case ast.TypeInteger:
		switch n := c.Value.(type) {
		case int64:
			return IntegerValue{Val: n}, nil
		case int:
			return IntegerValue{Val: int64(n)}, nil
		case float64:
			if n == math.Trunc(n) {
				return IntegerValue{Val: int64(n)}, nil
			}
		}
	case ast.TypeReal:
		switch n := c.Value.(type) {
		case float64:
			return RealValue{Val: n}, nil
		case int64:
			return RealValue{Val: float64(n)}, nil
		case int:
			return RealValue{Val: float64(n)}, nil
		}
	case ast.TypeBoolean:
		if b, ok := c.Value.(bool); ok {
			return BoolValue{Val: b}, nil
		}
	case ast.TypeChar:
		if s, ok := c.Value.(string); ok {
			runes := []rune(s)
			if len(runes) == 1 {
				return CharValue{Val: runes[0]}, nil
			}
			return StringValue{Val: s}, nil
		}
	}
	return nil, fmt.Errorf("runtime: invalid %s constant %#v", c.Type, c.Value)
}

// Format renders a value in its natural textual form: decimal numbers,
// true/false for booleans and characters/strings verbatim.
func Format(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case RealValue:
		return formatReal(val.Val)
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case CharValue:
		return string(val.Val)
	case StringValue:
		return val.Val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
