package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

// LoadProgram reads an AST document (YAML or JSON) from disk.
func LoadProgram(path string) (*ast.Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("document: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", abs, err)
	}
	program, err := DecodeProgram(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	return program, nil
}

// DecodeProgram parses an AST document. JSON documents are accepted as the
// YAML subset they are.
func DecodeProgram(data []byte) (*ast.Program, error) {
	var raw map[string]any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("document: empty document")
		}
		return nil, fmt.Errorf("document: parse: %w", err)
	}
	return decodeProgram(raw)
}

func decodeProgram(raw map[string]any) (*ast.Program, error) {
	if raw == nil {
		return nil, fmt.Errorf("document: empty document")
	}
	if typ, ok := raw["type"]; ok && typ != "program" {
		return nil, pathError("", "expected program, got %v", typ)
	}
	name, err := stringField(raw, "identifier", "")
	if err != nil {
		return nil, err
	}
	decls, err := decodeDeclarations(raw["declarations"], "declarations")
	if err != nil {
		return nil, err
	}
	body, err := decodeCompound(raw["body"], "body")
	if err != nil {
		return nil, err
	}
	program := ast.NewProgram(name, decls, body)
	if err := applySpan(program, raw, ""); err != nil {
		return nil, err
	}
	return program, nil
}

func decodeDeclarations(value any, path string) ([]ast.Declaration, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, pathError(path, "expected a list")
	}
	decls := make([]ast.Declaration, 0, len(items))
	for i, item := range items {
		decl, err := decodeDeclaration(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func decodeDeclaration(value any, path string) (ast.Declaration, error) {
	node, typ, err := nodeMap(value, path)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "var":
		name, err := stringField(node, "identifier", path)
		if err != nil {
			return nil, err
		}
		varType, err := primitiveField(node, "varType", path)
		if err != nil {
			return nil, err
		}
		decl := ast.NewVariableDeclaration(name, varType)
		return decl, applySpan(decl, node, path)
	case "procedure":
		return decodeProcedure(node, path)
	default:
		return nil, pathError(path, "unknown declaration type %q", typ)
	}
}

func decodeProcedure(node map[string]any, path string) (*ast.ProcedureDeclaration, error) {
	name, err := stringField(node, "identifier", path)
	if err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	if rawParams, ok := node["params"]; ok && rawParams != nil {
		items, ok := rawParams.([]any)
		if !ok {
			return nil, pathError(path+".params", "expected a list")
		}
		for i, item := range items {
			param, err := decodeParameter(item, fmt.Sprintf("%s.params[%d]", path, i))
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
	}
	var returnType *ast.PrimitiveType
	if _, ok := node["returnType"]; ok && node["returnType"] != nil {
		typ, err := primitiveField(node, "returnType", path)
		if err != nil {
			return nil, err
		}
		returnType = &typ
	}
	bodyPath := path + ".body"
	rawBody, ok := node["body"].(map[string]any)
	if !ok {
		return nil, pathError(bodyPath, "expected a procedure body")
	}
	locals, err := decodeDeclarations(rawBody["declarations"], bodyPath+".declarations")
	if err != nil {
		return nil, err
	}
	stmt, err := decodeCompound(rawBody["stmt"], bodyPath+".stmt")
	if err != nil {
		return nil, err
	}
	result, err := optionalString(rawBody, "return", bodyPath)
	if err != nil {
		return nil, err
	}
	body := ast.NewProcedureBody(locals, stmt, result)
	if err := applySpan(body, rawBody, bodyPath); err != nil {
		return nil, err
	}
	decl := ast.NewProcedureDeclaration(name, params, returnType, body)
	return decl, applySpan(decl, node, path)
}

func decodeParameter(value any, path string) (*ast.Parameter, error) {
	node, ok := value.(map[string]any)
	if !ok {
		return nil, pathError(path, "expected a parameter mapping")
	}
	name, err := stringField(node, "identifier", path)
	if err != nil {
		return nil, err
	}
	typ, err := primitiveField(node, "type", path)
	if err != nil {
		return nil, err
	}
	mode := ast.ByValue
	if rawMode, err := optionalString(node, "mode", path); err != nil {
		return nil, err
	} else if rawMode != "" {
		mode = ast.PassingMode(rawMode)
		if mode != ast.ByValue && mode != ast.ByReference {
			return nil, pathError(path+".mode", "unknown passing mode %q", rawMode)
		}
	}
	param := ast.NewParameter(name, typ, mode)
	return param, applySpan(param, node, path)
}

func decodeCompound(value any, path string) (*ast.CompoundStatement, error) {
	stmt, err := decodeStatement(value, path)
	if err != nil {
		return nil, err
	}
	block, ok := stmt.(*ast.CompoundStatement)
	if !ok {
		return nil, pathError(path, "expected a compound statement, got %s", stmt.NodeType())
	}
	return block, nil
}

func decodeStatements(value any, path string) ([]ast.Statement, error) {
	if value == nil {
		return []ast.Statement{}, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, pathError(path, "expected a list")
	}
	stmts := make([]ast.Statement, 0, len(items))
	for i, item := range items {
		stmt, err := decodeStatement(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func decodeStatement(value any, path string) (ast.Statement, error) {
	node, typ, err := nodeMap(value, path)
	if err != nil {
		return nil, err
	}
	var stmt ast.Statement
	switch typ {
	case "compound":
		stmts, err := decodeStatements(node["stmts"], path+".stmts")
		if err != nil {
			return nil, err
		}
		stmt = ast.NewCompoundStatement(stmts)
	case "assign":
		target, err := stringField(node, "identifier", path)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(node["expression"], path+".expression")
		if err != nil {
			return nil, err
		}
		stmt = ast.NewAssignStatement(target, value)
	case "if":
		cond, err := decodeExpression(node["condition"], path+".condition")
		if err != nil {
			return nil, err
		}
		then, err := decodeStatement(node["then"], path+".then")
		if err != nil {
			return nil, err
		}
		var otherwise ast.Statement
		if rawElse, ok := node["else"]; ok && rawElse != nil {
			otherwise, err = decodeStatement(rawElse, path+".else")
			if err != nil {
				return nil, err
			}
		}
		stmt = ast.NewIfStatement(cond, then, otherwise)
	case "repeat":
		body, err := decodeStatements(node["body"], path+".body")
		if err != nil {
			return nil, err
		}
		until, err := decodeExpression(node["condition"], path+".condition")
		if err != nil {
			return nil, err
		}
		stmt = ast.NewRepeatStatement(body, until)
	case "read":
		targets, err := stringList(node["params"], path+".params")
		if err != nil {
			return nil, err
		}
		stmt = ast.NewReadStatement(targets)
	case "write":
		args, err := decodeExpressions(node["params"], path+".params")
		if err != nil {
			return nil, err
		}
		stmt = ast.NewWriteStatement(args)
	case "call":
		name, err := stringField(node, "identifier", path)
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(node["params"], path+".params")
		if err != nil {
			return nil, err
		}
		stmt = ast.NewCallStatement(name, args)
	case "identifier":
		name, err := stringField(node, "value", path)
		if err != nil {
			return nil, err
		}
		stmt = ast.NewBareReference(name)
	default:
		return nil, pathError(path, "unknown statement type %q", typ)
	}
	return stmt, applySpan(stmt, node, path)
}

func decodeExpressions(value any, path string) ([]ast.Expression, error) {
	if value == nil {
		return nil, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, pathError(path, "expected a list")
	}
	exprs := make([]ast.Expression, 0, len(items))
	for i, item := range items {
		expr, err := decodeExpression(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeExpression(value any, path string) (ast.Expression, error) {
	node, typ, err := nodeMap(value, path)
	if err != nil {
		return nil, err
	}
	var expr ast.Expression
	switch typ {
	case "rel":
		head, err := decodeSimple(node["head"], path+".head")
		if err != nil {
			return nil, err
		}
		var tail []ast.RelationalOperand
		err = eachOperand(node["tail"], path+".tail", func(op string, operand any, opPath string) error {
			rel := ast.RelationalOperator(op)
			switch rel {
			case ast.OpNotEqual, ast.OpEqual, ast.OpLessEqual, ast.OpLess, ast.OpGreaterEqual, ast.OpGreater:
			default:
				return pathError(opPath, "unknown relational operator %q", op)
			}
			right, err := decodeSimple(operand, opPath+".expr")
			if err != nil {
				return err
			}
			tail = append(tail, ast.RelationalOperand{Operator: rel, Operand: right})
			return nil
		})
		if err != nil {
			return nil, err
		}
		expr = ast.NewRelationalExpression(head, tail)
	case "simple":
		head, err := decodeTerm(node["head"], path+".head")
		if err != nil {
			return nil, err
		}
		var tail []ast.AdditiveOperand
		err = eachOperand(node["tail"], path+".tail", func(op string, operand any, opPath string) error {
			add := ast.AdditiveOperator(op)
			switch add {
			case ast.OpAdd, ast.OpSubtract, ast.OpOr:
			default:
				return pathError(opPath, "unknown additive operator %q", op)
			}
			right, err := decodeTerm(operand, opPath+".expr")
			if err != nil {
				return err
			}
			tail = append(tail, ast.AdditiveOperand{Operator: add, Operand: right})
			return nil
		})
		if err != nil {
			return nil, err
		}
		expr = ast.NewAdditiveExpression(head, tail)
	case "term":
		head, err := decodeSigned(node["head"], path+".head")
		if err != nil {
			return nil, err
		}
		var tail []ast.MultiplicativeOperand
		err = eachOperand(node["tail"], path+".tail", func(op string, operand any, opPath string) error {
			mul := ast.MultiplicativeOperator(op)
			switch mul {
			case ast.OpMultiply, ast.OpDivide, ast.OpDiv, ast.OpMod, ast.OpAnd:
			default:
				return pathError(opPath, "unknown multiplicative operator %q", op)
			}
			right, err := decodeSigned(operand, opPath+".expr")
			if err != nil {
				return err
			}
			tail = append(tail, ast.MultiplicativeOperand{Operator: mul, Operand: right})
			return nil
		})
		if err != nil {
			return nil, err
		}
		expr = ast.NewMultiplicativeExpression(head, tail)
	case "neg":
		operand, err := decodeFactor(node["expr"], path+".expr")
		if err != nil {
			return nil, err
		}
		expr = ast.NewNegatedFactor(operand)
	case "identifier":
		name, err := stringField(node, "value", path)
		if err != nil {
			return nil, err
		}
		expr = ast.NewIdentifier(name)
	case "constant":
		c, err := decodeConstant(node, path)
		if err != nil {
			return nil, err
		}
		expr = c
	case "block":
		inner, err := decodeExpression(node["expr"], path+".expr")
		if err != nil {
			return nil, err
		}
		expr = ast.NewParenExpression(inner)
	case "call":
		name, err := stringField(node, "identifier", path)
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressions(node["params"], path+".params")
		if err != nil {
			return nil, err
		}
		expr = ast.NewCallExpression(name, args)
	case "not":
		operand, err := decodeFactor(node["factor"], path+".factor")
		if err != nil {
			return nil, err
		}
		expr = ast.NewNotExpression(operand)
	default:
		return nil, pathError(path, "unknown expression type %q", typ)
	}
	return expr, applySpan(expr, node, path)
}

func decodeSimple(value any, path string) (ast.SimpleExpression, error) {
	expr, err := decodeExpression(value, path)
	if err != nil {
		return nil, err
	}
	simple, ok := expr.(ast.SimpleExpression)
	if !ok {
		return nil, pathError(path, "%s is not allowed here; wrap it in a block", expr.NodeType())
	}
	return simple, nil
}

func decodeTerm(value any, path string) (ast.Term, error) {
	expr, err := decodeExpression(value, path)
	if err != nil {
		return nil, err
	}
	term, ok := expr.(ast.Term)
	if !ok {
		return nil, pathError(path, "%s is not allowed here; wrap it in a block", expr.NodeType())
	}
	return term, nil
}

func decodeSigned(value any, path string) (ast.SignedFactor, error) {
	expr, err := decodeExpression(value, path)
	if err != nil {
		return nil, err
	}
	signed, ok := expr.(ast.SignedFactor)
	if !ok {
		return nil, pathError(path, "%s is not allowed here; wrap it in a block", expr.NodeType())
	}
	return signed, nil
}

func decodeFactor(value any, path string) (ast.Factor, error) {
	expr, err := decodeExpression(value, path)
	if err != nil {
		return nil, err
	}
	factor, ok := expr.(ast.Factor)
	if !ok {
		return nil, pathError(path, "%s is not allowed here; wrap it in a block", expr.NodeType())
	}
	return factor, nil
}

func decodeConstant(node map[string]any, path string) (*ast.Constant, error) {
	kind, err := primitiveField(node, "kind", path)
	if err != nil {
		return nil, err
	}
	raw, ok := node["value"]
	if !ok {
		return nil, pathError(path+".value", "missing constant value")
	}
	valuePath := path + ".value"
	switch kind {
	case ast.TypeInteger:
		switch n := raw.(type) {
		case int:
			return ast.NewConstant(kind, int64(n)), nil
		case int64:
			return ast.NewConstant(kind, n), nil
		case uint64:
			if n > math.MaxInt64 {
				return nil, pathError(valuePath, "integer constant %d out of range", n)
			}
			return ast.NewConstant(kind, int64(n)), nil
		case float64:
			if n == math.Trunc(n) && math.Abs(n) <= 1<<53 {
				return ast.NewConstant(kind, int64(n)), nil
			}
		}
		return nil, pathError(valuePath, "expected an integer, got %v", raw)
	case ast.TypeReal:
		switch n := raw.(type) {
		case float64:
			return ast.NewConstant(kind, n), nil
		case int:
			return ast.NewConstant(kind, float64(n)), nil
		case int64:
			return ast.NewConstant(kind, float64(n)), nil
		}
		return nil, pathError(valuePath, "expected a real, got %v", raw)
	case ast.TypeBoolean:
		if b, ok := raw.(bool); ok {
			return ast.NewConstant(kind, b), nil
		}
		return nil, pathError(valuePath, "expected a boolean, got %v", raw)
	default:
		if s, ok := raw.(string); ok && s != "" {
			return ast.NewConstant(kind, s), nil
		}
		return nil, pathError(valuePath, "expected a non-empty string, got %v", raw)
	}
}

func eachOperand(value any, path string, fn func(op string, operand any, opPath string) error) error {
	if value == nil {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		return pathError(path, "expected a list")
	}
	for i, item := range items {
		opPath := fmt.Sprintf("%s[%d]", path, i)
		entry, ok := item.(map[string]any)
		if !ok {
			return pathError(opPath, "expected an operator mapping")
		}
		op, err := stringField(entry, "op", opPath)
		if err != nil {
			return err
		}
		if err := fn(op, entry["expr"], opPath); err != nil {
			return err
		}
	}
	return nil
}

func applySpan(node ast.Node, raw map[string]any, path string) error {
	value, ok := raw["span"]
	if !ok || value == nil {
		return nil
	}
	spanPath := joinPath(path, "span")
	m, ok := value.(map[string]any)
	if !ok {
		return pathError(spanPath, "expected a mapping")
	}
	start, err := decodePosition(m["start"], spanPath+".start")
	if err != nil {
		return err
	}
	end, err := decodePosition(m["end"], spanPath+".end")
	if err != nil {
		return err
	}
	ast.SetSpan(node, ast.Span{Start: start, End: end})
	return nil
}

func decodePosition(value any, path string) (ast.Position, error) {
	if value == nil {
		return ast.Position{}, nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return ast.Position{}, pathError(path, "expected a mapping")
	}
	line, _ := m["line"].(int)
	column, _ := m["column"].(int)
	return ast.Position{Line: line, Column: column}, nil
}

func nodeMap(value any, path string) (map[string]any, string, error) {
	node, ok := value.(map[string]any)
	if !ok {
		if value == nil {
			return nil, "", pathError(path, "missing node")
		}
		return nil, "", pathError(path, "expected a node mapping")
	}
	typ, ok := node["type"].(string)
	if !ok || typ == "" {
		return nil, "", pathError(path, "missing node type")
	}
	return node, typ, nil
}

func stringField(node map[string]any, key, path string) (string, error) {
	value, ok := node[key].(string)
	if !ok || value == "" {
		return "", pathError(joinPath(path, key), "expected a non-empty string")
	}
	return value, nil
}

func optionalString(node map[string]any, key, path string) (string, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", pathError(joinPath(path, key), "expected a string")
	}
	return value, nil
}

func primitiveField(node map[string]any, key, path string) (ast.PrimitiveType, error) {
	value, err := stringField(node, key, path)
	if err != nil {
		return "", err
	}
	typ := ast.PrimitiveType(value)
	if !typ.Valid() {
		return "", pathError(joinPath(path, key), "unknown type %q", value)
	}
	return typ, nil
}

func stringList(value any, path string) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, pathError(path, "expected a list of names")
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			name, err := stringField(v, "value", fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, name)
		default:
			return nil, pathError(fmt.Sprintf("%s[%d]", path, i), "expected a name")
		}
	}
	return out, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func pathError(path, format string, args ...any) error {
	if path == "" {
		path = "<root>"
	}
	return fmt.Errorf("document: %s: %s", path, fmt.Sprintf(format, args...))
}
