package compiler

import (
	"fmt"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

var _ ast.StatementVisitor = (*statementWriter)(nil)

// statementWriter renders one statement into lines of C.
type statementWriter struct {
	g     *generator
	lines []string
}

func (w *statementWriter) emit(format string, args ...any) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (g *generator) statement(stmt ast.Statement) ([]string, error) {
	if stmt == nil {
		return nil, nil
	}
	w := &statementWriter{g: g}
	if err := stmt.Accept(w); err != nil {
		return nil, runtime.WithSpan(err, stmt)
	}
	return w.lines, nil
}

// blockLines renders the statements of a compound statement without the
// surrounding braces.
func (g *generator) blockLines(block *ast.CompoundStatement) ([]string, error) {
	if block == nil {
		return nil, nil
	}
	var lines []string
	for _, stmt := range block.Statements {
		out, err := g.statement(stmt)
		if err != nil {
			return nil, err
		}
		lines = append(lines, out...)
	}
	return lines, nil
}

// bodyLines renders a branch or loop body; a compound statement is flattened
// into the enclosing braces.
func (g *generator) bodyLines(stmt ast.Statement) ([]string, error) {
	if block, ok := stmt.(*ast.CompoundStatement); ok {
		return g.blockLines(block)
	}
	return g.statement(stmt)
}

func (w *statementWriter) VisitCompound(block *ast.CompoundStatement) error {
	lines, err := w.g.blockLines(block)
	if err != nil {
		return err
	}
	w.emit("{")
	w.lines = append(w.lines, indentLines(lines, 1)...)
	w.emit("}")
	return nil
}

func (w *statementWriter) VisitAssign(stmt *ast.AssignStatement) error {
	target, err := w.g.identifier(stmt.Target)
	if err != nil {
		return err
	}
	value, err := w.g.expr(stmt.Value)
	if err != nil {
		return err
	}
	w.emit("%s = %s;", target, value)
	return nil
}

func (w *statementWriter) VisitIf(stmt *ast.IfStatement) error {
	cond, err := w.g.expr(stmt.Condition)
	if err != nil {
		return err
	}
	then, err := w.g.bodyLines(stmt.Then)
	if err != nil {
		return err
	}
	w.emit("if (%s) {", cond)
	w.lines = append(w.lines, indentLines(then, 1)...)
	if stmt.Else == nil {
		w.emit("}")
		return nil
	}
	otherwise, err := w.g.bodyLines(stmt.Else)
	if err != nil {
		return err
	}
	w.emit("} else {")
	w.lines = append(w.lines, indentLines(otherwise, 1)...)
	w.emit("}")
	return nil
}

func (w *statementWriter) VisitRepeat(stmt *ast.RepeatStatement) error {
	var body []string
	for _, s := range stmt.Body {
		lines, err := w.g.bodyLines(s)
		if err != nil {
			return err
		}
		body = append(body, lines...)
	}
	cond, err := w.g.expr(stmt.Until)
	if err != nil {
		return err
	}
	w.emit("do {")
	w.lines = append(w.lines, indentLines(body, 1)...)
	w.emit("} while (!(%s));", cond)
	return nil
}

func (w *statementWriter) VisitRead(stmt *ast.ReadStatement) error {
	for _, name := range stmt.Targets {
		v, err := w.g.env.LookupVariable(w.g.frame, name)
		if err != nil {
			return err
		}
		addr := "&" + sanitizeIdent(name)
		if v.IsReference() {
			addr = sanitizeIdent(name)
		}
		switch v.Type {
		case ast.TypeBoolean:
			w.g.needsScanBoolean = true
			w.emit("scan_boolean(%s);", addr)
		case ast.TypeChar:
			w.emit("scanf(\" %%c\", %s);", addr)
		case ast.TypeReal:
			w.emit("scanf(\"%%lf\", %s);", addr)
		default:
			w.emit("scanf(\"%%lld\", %s);", addr)
		}
	}
	return nil
}

func (w *statementWriter) VisitWrite(stmt *ast.WriteStatement) error {
	for _, arg := range stmt.Arguments {
		line, err := w.g.writeArgument(arg)
		if err != nil {
			return err
		}
		w.lines = append(w.lines, line)
	}
	w.emit("printf(\"\\n\");")
	return nil
}

func (w *statementWriter) VisitCall(stmt *ast.CallStatement) error {
	call, err := w.g.call(stmt.Name, stmt.Arguments)
	if err != nil {
		return err
	}
	w.emit("%s;", call)
	return nil
}

func (w *statementWriter) VisitBareReference(stmt *ast.BareReference) error {
	call, err := w.g.call(stmt.Name, nil)
	if err != nil {
		return err
	}
	w.emit("%s;", call)
	return nil
}

// writeArgument renders the printf call for one Write argument. Constants
// and identifiers print according to their declared type, other expressions
// by their inferred type, falling back to integer.
func (g *generator) writeArgument(arg ast.Expression) (string, error) {
	switch n := ast.Unwrap(arg).(type) {
	case *ast.Constant:
		val, err := runtime.ConstantValue(n)
		if err != nil {
			return "", err
		}
		switch v := val.(type) {
		case runtime.IntegerValue:
			return fmt.Sprintf("printf(\"%%lld\", (integer)%s);", integerLiteral(v.Val)), nil
		case runtime.RealValue:
			return fmt.Sprintf("printf(\"%%g\", %s);", realLiteral(v.Val)), nil
		case runtime.BoolValue:
			return fmt.Sprintf("printf(\"%s\");", runtime.Format(v)), nil
		case runtime.CharValue:
			if v.Val < 0x80 {
				return fmt.Sprintf("printf(\"%%c\", %s);", charLiteral(v.Val)), nil
			}
			return fmt.Sprintf("printf(\"%%s\", %s);", stringLiteral(string(v.Val))), nil
		case runtime.StringValue:
			return fmt.Sprintf("printf(\"%%s\", %s);", stringLiteral(v.Val)), nil
		}
	case *ast.Identifier:
		v, err := g.env.LookupVariable(g.frame, n.Name)
		if err != nil {
			return "", err
		}
		ref, err := g.identifier(n.Name)
		if err != nil {
			return "", err
		}
		switch v.Type {
		case ast.TypeBoolean:
			return fmt.Sprintf("printf(\"%%s\", %s ? \"true\" : \"false\");", ref), nil
		case ast.TypeChar:
			return fmt.Sprintf("printf(\"%%c\", %s);", ref), nil
		case ast.TypeReal:
			return fmt.Sprintf("printf(\"%%g\", %s);", ref), nil
		default:
			return fmt.Sprintf("printf(\"%%lld\", %s);", ref), nil
		}
	}
	out, err := g.emitExpr(arg)
	if err != nil {
		return "", err
	}
	switch out.typ {
	case ast.TypeReal:
		return fmt.Sprintf("printf(\"%%g\", (real)(%s));", out.text), nil
	case ast.TypeBoolean:
		return fmt.Sprintf("printf(\"%%s\", (%s) ? \"true\" : \"false\");", out.text), nil
	case ast.TypeChar:
		return fmt.Sprintf("printf(\"%%c\", (char)(%s));", out.text), nil
	default:
		return fmt.Sprintf("printf(\"%%lld\", (integer)(%s));", out.text), nil
	}
}
