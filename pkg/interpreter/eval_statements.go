package interpreter

import (
	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

func (e *execution) execStatement(stmt ast.Statement) error {
	if stmt == nil {
		return nil
	}
	return runtime.WithSpan(stmt.Accept(e), stmt)
}

func (e *execution) execCompound(block *ast.CompoundStatement) error {
	if block == nil {
		return nil
	}
	return e.VisitCompound(block)
}

func (e *execution) VisitCompound(block *ast.CompoundStatement) error {
	for _, stmt := range block.Statements {
		if err := e.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *execution) VisitAssign(stmt *ast.AssignStatement) error {
	val, err := e.evaluate(stmt.Value)
	if err != nil {
		return err
	}
	if val == nil {
		return runtime.NewTypeMismatch("cannot assign a procedure without result to %s", stmt.Target)
	}
	return e.env.SetValue(e.frame, stmt.Target, val)
}

func (e *execution) VisitIf(stmt *ast.IfStatement) error {
	cond, err := e.condition(stmt.Condition, "if")
	if err != nil {
		return err
	}
	if cond {
		return e.execStatement(stmt.Then)
	}
	return e.execStatement(stmt.Else)
}

func (e *execution) VisitRepeat(stmt *ast.RepeatStatement) error {
	for {
		for _, s := range stmt.Body {
			if err := e.execStatement(s); err != nil {
				return err
			}
		}
		done, err := e.condition(stmt.Until, "repeat")
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (e *execution) VisitRead(stmt *ast.ReadStatement) error {
	for _, name := range stmt.Targets {
		target, err := e.env.LookupVariable(e.frame, name)
		if err != nil {
			return err
		}
		val, ok := e.reader.read(target.Type)
		if !ok {
			return runtime.NewReadFormat(name, target.Type)
		}
		target.Set(val)
	}
	return nil
}

func (e *execution) VisitWrite(stmt *ast.WriteStatement) error {
	for _, arg := range stmt.Arguments {
		val, err := e.evaluate(arg)
		if err != nil {
			return err
		}
		if val == nil {
			return runtime.NewTypeMismatch("cannot write the result of a procedure without result")
		}
		e.writer.write(val)
	}
	e.writer.newline()
	return nil
}

func (e *execution) VisitCall(stmt *ast.CallStatement) error {
	_, err := e.call(stmt.Name, stmt.Arguments)
	return err
}

func (e *execution) VisitBareReference(stmt *ast.BareReference) error {
	_, err := e.call(stmt.Name, nil)
	return err
}

// condition evaluates a branch or loop condition, which must be boolean.
func (e *execution) condition(expr ast.Expression, construct string) (bool, error) {
	val, err := e.evaluate(expr)
	if err != nil {
		return false, err
	}
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, runtime.NewTypeMismatch("the %s condition did not evaluate to a boolean, got %s", construct, kindName(val))
	}
	return b.Val, nil
}

func kindName(v runtime.Value) string {
	if v == nil {
		return "no value"
	}
	return v.Kind().String()
}
