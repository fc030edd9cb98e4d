package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

// C precedence levels of emitted text; a lower level binds tighter.
const (
	levelPrimary = iota
	levelUnary
	levelMultiplicative
	levelAdditive
	levelRelational
	levelEquality
	levelBitAnd
	levelBitOr
)

// cExpr is emitted C text with the precedence of its outermost operator and
// the inferred type of the value ("" when it cannot be known statically).
type cExpr struct {
	text  string
	level int
	typ   ast.PrimitiveType
}

// wrap parenthesizes e when its outermost operator binds looser than level
// allows.
func (e cExpr) wrap(level int) string {
	if e.level > level {
		return "(" + e.text + ")"
	}
	return e.text
}

func (g *generator) expr(expr ast.Expression) (string, error) {
	out, err := g.emitExpr(expr)
	if err != nil {
		return "", err
	}
	return out.text, nil
}

func (g *generator) emitExpr(expr ast.Expression) (cExpr, error) {
	switch n := expr.(type) {
	case *ast.RelationalExpression:
		return g.relational(n)
	case *ast.AdditiveExpression:
		return g.additive(n)
	case *ast.MultiplicativeExpression:
		return g.multiplicative(n)
	case *ast.NegatedFactor:
		operand, err := g.emitExpr(n.Operand)
		if err != nil {
			return cExpr{}, err
		}
		text := operand.wrap(levelUnary)
		if strings.HasPrefix(text, "-") {
			text = "(" + text + ")"
		}
		return cExpr{text: "-" + text, level: levelUnary, typ: operand.typ}, nil
	case *ast.Identifier:
		v, err := g.env.LookupVariable(g.frame, n.Name)
		if err != nil {
			return cExpr{}, err
		}
		text, err := g.identifier(n.Name)
		if err != nil {
			return cExpr{}, err
		}
		return cExpr{text: text, typ: v.Type}, nil
	case *ast.Constant:
		text, err := constant(n)
		if err != nil {
			return cExpr{}, err
		}
		typ := n.Type
		if s, ok := n.Value.(string); ok && typ == ast.TypeChar && utf8.RuneCountInString(s) != 1 {
			typ = ""
		}
		return cExpr{text: text, typ: typ}, nil
	case *ast.ParenExpression:
		inner, err := g.emitExpr(n.Inner)
		if err != nil {
			return cExpr{}, err
		}
		return cExpr{text: "(" + inner.text + ")", typ: inner.typ}, nil
	case *ast.CallExpression:
		proc, err := g.env.LookupProcedure(g.frame, n.Name)
		if err != nil {
			return cExpr{}, err
		}
		typ, err := procedureType(proc)
		if err != nil {
			return cExpr{}, err
		}
		if typ == "" {
			return cExpr{}, runtime.NewTypeMismatch("procedure %s has no result and cannot be used as a value", n.Name)
		}
		text, err := g.call(n.Name, n.Arguments)
		if err != nil {
			return cExpr{}, err
		}
		return cExpr{text: text, typ: typ}, nil
	case *ast.NotExpression:
		operand, err := g.emitExpr(n.Operand)
		if err != nil {
			return cExpr{}, err
		}
		return cExpr{text: "!" + operand.wrap(levelUnary), level: levelUnary, typ: operand.typ}, nil
	case nil:
		return cExpr{}, fmt.Errorf("compiler: missing expression")
	default:
		return cExpr{}, fmt.Errorf("compiler: unsupported expression type: %s", n.NodeType())
	}
}

// numericType is the type of an arithmetic result: real when either side is
// real, otherwise the left side's type.
func numericType(left, right ast.PrimitiveType) ast.PrimitiveType {
	if left == ast.TypeReal || right == ast.TypeReal {
		return ast.TypeReal
	}
	if left == right {
		return left
	}
	return ""
}

// binary joins acc and right with a left-associative C operator at level.
func binary(acc cExpr, op string, level int, right cExpr, typ ast.PrimitiveType) cExpr {
	return cExpr{
		text:  acc.wrap(level) + " " + op + " " + right.wrap(level-1),
		level: level,
		typ:   typ,
	}
}

func (g *generator) relational(expr *ast.RelationalExpression) (cExpr, error) {
	acc, err := g.emitExpr(expr.Head)
	if err != nil {
		return cExpr{}, err
	}
	for _, t := range expr.Tail {
		right, err := g.emitExpr(t.Operand)
		if err != nil {
			return cExpr{}, err
		}
		switch t.Operator {
		case ast.OpEqual:
			acc = binary(acc, "==", levelEquality, right, ast.TypeBoolean)
		case ast.OpNotEqual:
			acc = binary(acc, "!=", levelEquality, right, ast.TypeBoolean)
		default:
			acc = binary(acc, string(t.Operator), levelRelational, right, ast.TypeBoolean)
		}
	}
	return acc, nil
}

func (g *generator) additive(expr *ast.AdditiveExpression) (cExpr, error) {
	acc, err := g.emitExpr(expr.Head)
	if err != nil {
		return cExpr{}, err
	}
	for _, t := range expr.Tail {
		right, err := g.emitExpr(t.Operand)
		if err != nil {
			return cExpr{}, err
		}
		if t.Operator == ast.OpOr {
			acc = binary(acc, "|", levelBitOr, right, acc.typ)
			continue
		}
		acc = binary(acc, string(t.Operator), levelAdditive, right, numericType(acc.typ, right.typ))
	}
	return acc, nil
}

// multiplicative emits a term chain. / always divides reals; div and mod on
// reals go through trunc and fmod.
func (g *generator) multiplicative(expr *ast.MultiplicativeExpression) (cExpr, error) {
	acc, err := g.emitExpr(expr.Head)
	if err != nil {
		return cExpr{}, err
	}
	for _, t := range expr.Tail {
		right, err := g.emitExpr(t.Operand)
		if err != nil {
			return cExpr{}, err
		}
		typ := numericType(acc.typ, right.typ)
		switch t.Operator {
		case ast.OpMultiply:
			acc = binary(acc, "*", levelMultiplicative, right, typ)
		case ast.OpDivide:
			left := cExpr{text: "(real)" + acc.wrap(levelUnary), level: levelUnary, typ: ast.TypeReal}
			acc = binary(left, "/", levelMultiplicative, right, ast.TypeReal)
		case ast.OpDiv:
			if typ == ast.TypeReal {
				g.needsMath = true
				quotient := binary(acc, "/", levelMultiplicative, right, typ)
				acc = cExpr{text: "trunc(" + quotient.text + ")", typ: typ}
				continue
			}
			acc = binary(acc, "/", levelMultiplicative, right, typ)
		case ast.OpMod:
			if typ == ast.TypeReal {
				g.needsMath = true
				acc = cExpr{text: "fmod(" + acc.text + ", " + right.text + ")", typ: typ}
				continue
			}
			acc = binary(acc, "%", levelMultiplicative, right, typ)
		case ast.OpAnd:
			acc = binary(acc, "&", levelBitAnd, right, acc.typ)
		default:
			return cExpr{}, fmt.Errorf("compiler: unsupported multiplicative operator %q", t.Operator)
		}
	}
	return acc, nil
}

// identifier renders a variable reference; by-reference parameters are
// dereferenced.
func (g *generator) identifier(name string) (string, error) {
	v, err := g.env.LookupVariable(g.frame, name)
	if err != nil {
		return "", err
	}
	if v.IsReference() {
		return "(*" + sanitizeIdent(name) + ")", nil
	}
	return sanitizeIdent(name), nil
}

// call renders a procedure call. Arguments bound to by-reference parameters
// pass the address of the named variable, or the pointer itself when the
// variable is already a by-reference parameter.
func (g *generator) call(name string, args []ast.Expression) (string, error) {
	proc, err := g.env.LookupProcedure(g.frame, name)
	if err != nil {
		return "", err
	}
	if len(args) != len(proc.Params) {
		return "", runtime.NewTypeMismatch("procedure %s expects %d arguments, got %d", name, len(proc.Params), len(args))
	}
	parts := make([]string, 0, len(args))
	for i, param := range proc.Params {
		if param.Mode != ast.ByReference {
			text, err := g.expr(args[i])
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
			continue
		}
		id, ok := ast.BareIdentifier(args[i])
		if !ok {
			return "", runtime.NewTypeMismatch("argument for reference parameter %s of %s must be a variable", param.Name, name)
		}
		target, err := g.env.LookupVariable(g.frame, id.Name)
		if err != nil {
			return "", err
		}
		if target.Type != param.Type {
			return "", runtime.NewTypeMismatch("reference parameter %s of %s is %s but %s is %s", param.Name, name, param.Type, id.Name, target.Type)
		}
		if target.IsReference() {
			parts = append(parts, sanitizeIdent(id.Name))
			continue
		}
		parts = append(parts, "&"+sanitizeIdent(id.Name))
	}
	return functionName(name) + "(" + strings.Join(parts, ", ") + ")", nil
}

func constant(c *ast.Constant) (string, error) {
	val, err := runtime.ConstantValue(c)
	if err != nil {
		return "", err
	}
	switch v := val.(type) {
	case runtime.IntegerValue:
		return integerLiteral(v.Val), nil
	case runtime.RealValue:
		return realLiteral(v.Val), nil
	case runtime.BoolValue:
		return runtime.Format(v), nil
	case runtime.CharValue:
		return charLiteral(v.Val), nil
	case runtime.StringValue:
		return stringLiteral(v.Val), nil
	default:
		return "", fmt.Errorf("compiler: unsupported constant %#v", c.Value)
	}
}

func integerLiteral(n int64) string {
	if n == math.MinInt64 {
		return "(-9223372036854775807LL - 1)"
	}
	if n < 0 {
		return "(" + strconv.FormatInt(n, 10) + ")"
	}
	return strconv.FormatInt(n, 10)
}

func realLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return "(0.0 / 0.0)"
	case math.IsInf(f, 1):
		return "(1.0 / 0.0)"
	case math.IsInf(f, -1):
		return "(-1.0 / 0.0)"
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	if f < 0 {
		return "(" + text + ")"
	}
	return text
}

// charLiteral renders a character constant. Characters outside ASCII become
// their numeric code.
func charLiteral(r rune) string {
	switch r {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\r':
		return `'\r'`
	}
	if r < 0x20 || r >= 0x7f {
		return strconv.Itoa(int(r))
	}
	return "'" + string(r) + "'"
}

func stringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\%03o`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
