package runtime

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		val  Value
		want string
	}{
		{IntegerValue{Val: -42}, "-42"},
		{RealValue{Val: 2.5}, "2.5"},
		{RealValue{Val: 3}, "3"},
		{RealValue{Val: math.Copysign(0, -1)}, "0"},
		{RealValue{Val: 1e21}, "1e+21"},
		{RealValue{Val: 1e-7}, "1e-07"},
		{RealValue{Val: math.Inf(1)}, "Infinity"},
		{RealValue{Val: math.Inf(-1)}, "-Infinity"},
		{RealValue{Val: math.NaN()}, "NaN"},
		{BoolValue{Val: true}, "true"},
		{BoolValue{Val: false}, "false"},
		{CharValue{Val: 'é'}, "é"},
		{StringValue{Val: "abc"}, "abc"},
	}
	for _, tc := range cases {
		if got := Format(tc.val); got != tc.want {
			t.Fatalf("Format(%#v): expected %q, got %q", tc.val, tc.want, got)
		}
	}
}

func TestConstantValue(t *testing.T) {
	cases := []struct {
		constant *ast.Constant
		want     Value
	}{
		{ast.Int(7), IntegerValue{Val: 7}},
		{ast.NewConstant(ast.TypeInteger, 7.0), IntegerValue{Val: 7}},
		{ast.NewConstant(ast.TypeInteger, 7), IntegerValue{Val: 7}},
		{ast.Real(1.5), RealValue{Val: 1.5}},
		{ast.NewConstant(ast.TypeReal, int64(2)), RealValue{Val: 2}},
		{ast.Bool(true), BoolValue{Val: true}},
		{ast.Chr("x"), CharValue{Val: 'x'}},
		{ast.Chr("xy"), StringValue{Val: "xy"}},
	}
	for _, tc := range cases {
		got, err := ConstantValue(tc.constant)
		if err != nil {
			t.Fatalf("ConstantValue(%v): %v", tc.constant.Value, err)
		}
		if got != tc.want {
			t.Fatalf("ConstantValue(%v): expected %#v, got %#v", tc.constant.Value, tc.want, got)
		}
	}
	if _, err := ConstantValue(ast.NewConstant(ast.TypeInteger, 1.5)); err == nil {
		t.Fatalf("expected fractional integer constant to fail")
	}
	if _, err := ConstantValue(ast.NewConstant(ast.TypeBoolean, "yes")); err == nil {
		t.Fatalf("expected mistyped boolean constant to fail")
	}
}

func TestErrorKindsAndSpans(t *testing.T) {
	err := NewTypeMismatch("bad %s", "thing")
	if !errors.Is(err, ErrTypeMismatch) || errors.Is(err, ErrReadFormat) {
		t.Fatalf("unexpected sentinel matching for %v", err)
	}
	if err.Error() != "TypeMismatchError: bad thing" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	node := ast.ID("x")
	ast.SetSpan(node, ast.Span{Start: ast.Position{Line: 2, Column: 4}})
	err = WithSpan(err, node)
	if !strings.HasPrefix(err.Error(), "TypeMismatchError at 2:4:") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	wrapped := errors.New("plain")
	if WithSpan(wrapped, node) != wrapped || KindOf(wrapped) != "" {
		t.Fatalf("non-engine errors must pass through")
	}
	if KindOf(NewRecursionLimit("f", 3)) != RecursionLimitExceeded {
		t.Fatalf("unexpected kind")
	}
	if KindOf(NewReadFormat("n", ast.TypeInteger)) != ReadFormatError {
		t.Fatalf("unexpected kind")
	}
}
