package ast

// Construction helpers used by tests, the built-in examples and the document
// decoder. They mirror the surface syntax closely enough that a program reads
// top to bottom like its source.

// Program and declaration helpers.

func Prog(name string, decls []Declaration, body ...Statement) *Program {
	return NewProgram(name, decls, Block(body...))
}

func Decls(decls ...Declaration) []Declaration {
	return decls
}

func Var(name string, typ PrimitiveType) *VariableDeclaration {
	return NewVariableDeclaration(name, typ)
}

func Val(name string, typ PrimitiveType) *Parameter {
	return NewParameter(name, typ, ByValue)
}

func Ref(name string, typ PrimitiveType) *Parameter {
	return NewParameter(name, typ, ByReference)
}

func Params(params ...*Parameter) []*Parameter {
	return params
}

// Returns wraps a primitive type as a procedure return type.
func Returns(typ PrimitiveType) *PrimitiveType {
	return &typ
}

// Proc declares a procedure. A nil returnType declares a procedure without a
// result; result names the local holding the return value ("" for none).
func Proc(name string, params []*Parameter, returnType *PrimitiveType, locals []Declaration, result string, body ...Statement) *ProcedureDeclaration {
	return NewProcedureDeclaration(name, params, returnType, NewProcedureBody(locals, Block(body...), result))
}

// Statement helpers.

func Block(stmts ...Statement) *CompoundStatement {
	if stmts == nil {
		stmts = []Statement{}
	}
	return NewCompoundStatement(stmts)
}

func Assign(target string, value Expression) *AssignStatement {
	return NewAssignStatement(target, value)
}

func If(condition Expression, then Statement) *IfStatement {
	return NewIfStatement(condition, then, nil)
}

func IfElse(condition Expression, then, otherwise Statement) *IfStatement {
	return NewIfStatement(condition, then, otherwise)
}

func Repeat(until Expression, body ...Statement) *RepeatStatement {
	return NewRepeatStatement(body, until)
}

func Read(targets ...string) *ReadStatement {
	return NewReadStatement(targets)
}

func Write(args ...Expression) *WriteStatement {
	return NewWriteStatement(args)
}

func CallStmt(name string, args ...Expression) *CallStatement {
	return NewCallStatement(name, args)
}

func Bare(name string) *BareReference {
	return NewBareReference(name)
}

// Atom helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *Constant {
	return NewConstant(TypeInteger, value)
}

func Real(value float64) *Constant {
	return NewConstant(TypeReal, value)
}

func Bool(value bool) *Constant {
	return NewConstant(TypeBoolean, value)
}

func Chr(value string) *Constant {
	return NewConstant(TypeChar, value)
}

// Chars expands a string into one char constant per rune, the way a
// write('h','e','l','o') argument list spells text.
func Chars(text string) []Expression {
	out := make([]Expression, 0, len(text))
	for _, r := range text {
		out = append(out, Chr(string(r)))
	}
	return out
}

func Paren(inner Expression) *ParenExpression {
	return NewParenExpression(inner)
}

func Call(name string, args ...Expression) *CallExpression {
	return NewCallExpression(name, args)
}

func Not(operand Factor) *NotExpression {
	return NewNotExpression(operand)
}

func Neg(operand Factor) *NegatedFactor {
	return NewNegatedFactor(operand)
}

// Binary chain helpers. Each takes the head and a flat list of alternating
// operator/operand pairs built with the *Op helpers below.

func Rel(head SimpleExpression, tail ...RelationalOperand) *RelationalExpression {
	return NewRelationalExpression(head, tail)
}

func RelOp(op RelationalOperator, operand SimpleExpression) RelationalOperand {
	return RelationalOperand{Operator: op, Operand: operand}
}

func Add(head Term, tail ...AdditiveOperand) *AdditiveExpression {
	return NewAdditiveExpression(head, tail)
}

func AddOp(op AdditiveOperator, operand Term) AdditiveOperand {
	return AdditiveOperand{Operator: op, Operand: operand}
}

func Mul(head SignedFactor, tail ...MultiplicativeOperand) *MultiplicativeExpression {
	return NewMultiplicativeExpression(head, tail)
}

func MulOp(op MultiplicativeOperator, operand SignedFactor) MultiplicativeOperand {
	return MultiplicativeOperand{Operator: op, Operand: operand}
}

// Shorthands for single-operator chains.

func Eq(left, right SimpleExpression) *RelationalExpression {
	return Rel(left, RelOp(OpEqual, right))
}

func Less(left, right SimpleExpression) *RelationalExpression {
	return Rel(left, RelOp(OpLess, right))
}

func Greater(left, right SimpleExpression) *RelationalExpression {
	return Rel(left, RelOp(OpGreater, right))
}

func Plus(left, right Term) *AdditiveExpression {
	return Add(left, AddOp(OpAdd, right))
}

func Minus(left, right Term) *AdditiveExpression {
	return Add(left, AddOp(OpSubtract, right))
}

func Times(left, right SignedFactor) *MultiplicativeExpression {
	return Mul(left, MulOp(OpMultiply, right))
}
