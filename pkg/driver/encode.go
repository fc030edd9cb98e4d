package driver

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

// EncodeProgram renders program as a YAML AST document that DecodeProgram
// reads back. Map keys are emitted in sorted order, so output is stable.
func EncodeProgram(program *ast.Program) ([]byte, error) {
	if program == nil {
		return nil, fmt.Errorf("document: nil program")
	}
	doc, err := encodeProgram(program)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("document: marshal %s: %w", program.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: encoder close: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeProgram(program *ast.Program) (map[string]any, error) {
	decls, err := encodeDeclarations(program.Declarations)
	if err != nil {
		return nil, err
	}
	body, err := encodeStatement(program.Body)
	if err != nil {
		return nil, err
	}
	out := map[string]any{
		"type":       "program",
		"identifier": program.Name,
		"body":       body,
	}
	if len(decls) > 0 {
		out["declarations"] = decls
	}
	return withSpan(out, program), nil
}

func encodeDeclarations(decls []ast.Declaration) ([]any, error) {
	out := make([]any, 0, len(decls))
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.VariableDeclaration:
			out = append(out, withSpan(map[string]any{
				"type":       "var",
				"identifier": d.Name,
				"varType":    string(d.Type),
			}, d))
		case *ast.ProcedureDeclaration:
			proc, err := encodeProcedure(d)
			if err != nil {
				return nil, err
			}
			out = append(out, proc)
		default:
			return nil, fmt.Errorf("document: unsupported declaration %T", decl)
		}
	}
	return out, nil
}

func encodeProcedure(d *ast.ProcedureDeclaration) (map[string]any, error) {
	params := make([]any, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, withSpan(map[string]any{
			"identifier": p.Name,
			"type":       string(p.Type),
			"mode":       string(p.Mode),
		}, p))
	}
	body := d.Body
	if body == nil {
		body = ast.NewProcedureBody(nil, ast.Block(), "")
	}
	locals, err := encodeDeclarations(body.Declarations)
	if err != nil {
		return nil, err
	}
	stmt, err := encodeStatement(body.Statement)
	if err != nil {
		return nil, err
	}
	rawBody := map[string]any{"stmt": stmt}
	if len(locals) > 0 {
		rawBody["declarations"] = locals
	}
	if body.Result != "" {
		rawBody["return"] = body.Result
	}
	out := map[string]any{
		"type":       "procedure",
		"identifier": d.Name,
		"params":     params,
		"body":       withSpan(rawBody, body),
	}
	if d.ReturnType != nil {
		out["returnType"] = string(*d.ReturnType)
	}
	return withSpan(out, d), nil
}

func encodeStatements(stmts []ast.Statement) ([]any, error) {
	out := make([]any, 0, len(stmts))
	for _, stmt := range stmts {
		raw, err := encodeStatement(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func encodeStatement(stmt ast.Statement) (map[string]any, error) {
	var out map[string]any
	switch s := stmt.(type) {
	case *ast.CompoundStatement:
		if s == nil {
			return map[string]any{"type": "compound", "stmts": []any{}}, nil
		}
		stmts, err := encodeStatements(s.Statements)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "compound", "stmts": stmts}
	case *ast.AssignStatement:
		value, err := encodeExpression(s.Value)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "assign", "identifier": s.Target, "expression": value}
	case *ast.IfStatement:
		cond, err := encodeExpression(s.Condition)
		if err != nil {
			return nil, err
		}
		then, err := encodeStatement(s.Then)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "if", "condition": cond, "then": then}
		if s.Else != nil {
			otherwise, err := encodeStatement(s.Else)
			if err != nil {
				return nil, err
			}
			out["else"] = otherwise
		}
	case *ast.RepeatStatement:
		body, err := encodeStatements(s.Body)
		if err != nil {
			return nil, err
		}
		until, err := encodeExpression(s.Until)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "repeat", "body": body, "condition": until}
	case *ast.ReadStatement:
		targets := make([]any, 0, len(s.Targets))
		for _, name := range s.Targets {
			targets = append(targets, name)
		}
		out = map[string]any{"type": "read", "params": targets}
	case *ast.WriteStatement:
		args, err := encodeExpressions(s.Arguments)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "write", "params": args}
	case *ast.CallStatement:
		args, err := encodeExpressions(s.Arguments)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "call", "identifier": s.Name, "params": args}
	case *ast.BareReference:
		out = map[string]any{"type": "identifier", "value": s.Name}
	case nil:
		return nil, fmt.Errorf("document: missing statement")
	default:
		return nil, fmt.Errorf("document: unsupported statement %T", stmt)
	}
	return withSpan(out, stmt), nil
}

func encodeExpressions(exprs []ast.Expression) ([]any, error) {
	out := make([]any, 0, len(exprs))
	for _, expr := range exprs {
		raw, err := encodeExpression(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func encodeExpression(expr ast.Expression) (map[string]any, error) {
	var out map[string]any
	switch e := expr.(type) {
	case *ast.RelationalExpression:
		head, err := encodeExpression(e.Head)
		if err != nil {
			return nil, err
		}
		tail := make([]any, 0, len(e.Tail))
		for _, t := range e.Tail {
			right, err := encodeExpression(t.Operand)
			if err != nil {
				return nil, err
			}
			tail = append(tail, map[string]any{"op": string(t.Operator), "expr": right})
		}
		out = map[string]any{"type": "rel", "head": head, "tail": tail}
	case *ast.AdditiveExpression:
		head, err := encodeExpression(e.Head)
		if err != nil {
			return nil, err
		}
		tail := make([]any, 0, len(e.Tail))
		for _, t := range e.Tail {
			right, err := encodeExpression(t.Operand)
			if err != nil {
				return nil, err
			}
			tail = append(tail, map[string]any{"op": string(t.Operator), "expr": right})
		}
		out = map[string]any{"type": "simple", "head": head, "tail": tail}
	case *ast.MultiplicativeExpression:
		head, err := encodeExpression(e.Head)
		if err != nil {
			return nil, err
		}
		tail := make([]any, 0, len(e.Tail))
		for _, t := range e.Tail {
			right, err := encodeExpression(t.Operand)
			if err != nil {
				return nil, err
			}
			tail = append(tail, map[string]any{"op": string(t.Operator), "expr": right})
		}
		out = map[string]any{"type": "term", "head": head, "tail": tail}
	case *ast.NegatedFactor:
		operand, err := encodeExpression(e.Operand)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "neg", "expr": operand}
	case *ast.Identifier:
		out = map[string]any{"type": "identifier", "value": e.Name}
	case *ast.Constant:
		out = map[string]any{"type": "constant", "kind": string(e.Type), "value": e.Value}
	case *ast.ParenExpression:
		inner, err := encodeExpression(e.Inner)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "block", "expr": inner}
	case *ast.CallExpression:
		args, err := encodeExpressions(e.Arguments)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "call", "identifier": e.Name, "params": args}
	case *ast.NotExpression:
		operand, err := encodeExpression(e.Operand)
		if err != nil {
			return nil, err
		}
		out = map[string]any{"type": "not", "factor": operand}
	case nil:
		return nil, fmt.Errorf("document: missing expression")
	default:
		return nil, fmt.Errorf("document: unsupported expression %T", expr)
	}
	return withSpan(out, expr), nil
}

func withSpan(out map[string]any, node ast.Node) map[string]any {
	span := node.Span()
	if span.IsZero() {
		return out
	}
	out["span"] = map[string]any{
		"start": map[string]any{"line": span.Start.Line, "column": span.Start.Column},
		"end":   map[string]any{"line": span.End.Line, "column": span.End.Column},
	}
	return out
}
