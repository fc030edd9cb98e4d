package driver

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/examples"
	"github.com/jeronimonunes/simple-compiler/pkg/interpreter"
)

func TestDocumentRoundTripPreservesBehaviour(t *testing.T) {
	for _, ex := range examples.All() {
		ex := ex
		t.Run(ex.Name, func(t *testing.T) {
			doc, err := EncodeProgram(ex.Program)
			if err != nil {
				t.Fatalf("EncodeProgram: %v", err)
			}
			program, err := DecodeProgram(doc)
			if err != nil {
				t.Fatalf("DecodeProgram: %v\n%s", err, doc)
			}
			if program.Name != ex.Program.Name {
				t.Fatalf("expected name %q, got %q", ex.Program.Name, program.Name)
			}
			out, err := interpreter.Run(program, ex.Input)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if out != ex.Output {
				t.Fatalf("expected %q, got %q", ex.Output, out)
			}

			again, err := EncodeProgram(program)
			if err != nil {
				t.Fatalf("EncodeProgram (second pass): %v", err)
			}
			if !bytes.Equal(doc, again) {
				t.Fatalf("encoding is not stable:\n%s\n---\n%s", doc, again)
			}
		})
	}
}

func TestDecodeProgramAcceptsJSON(t *testing.T) {
	doc := `{
  "type": "program",
  "identifier": "arith",
  "body": {"type": "compound", "stmts": [
    {"type": "write", "params": [
      {"type": "simple",
       "head": {"type": "constant", "kind": "integer", "value": 1},
       "tail": [{"op": "+", "expr": {"type": "term",
         "head": {"type": "constant", "kind": "integer", "value": 2},
         "tail": [{"op": "*", "expr": {"type": "constant", "kind": "integer", "value": 3}}]}}]}
    ]}
  ]}
}`
	program, err := DecodeProgram([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	out, err := interpreter.Run(program, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "7\n" {
		t.Fatalf("expected %q, got %q", "7\n", out)
	}
}

func TestDecodeProgramReadsSpans(t *testing.T) {
	doc := `
type: program
identifier: spans
body:
  type: compound
  stmts:
    - type: read
      params: [x]
      span:
        start: {line: 3, column: 5}
        end: {line: 3, column: 12}
`
	program, err := DecodeProgram([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	stmt := program.Body.Statements[0]
	span := stmt.Span()
	if span.Start.Line != 3 || span.Start.Column != 5 || span.End.Column != 12 {
		t.Fatalf("unexpected span %+v", span)
	}
	if _, ok := stmt.(*ast.ReadStatement); !ok {
		t.Fatalf("expected read statement, got %T", stmt)
	}
}

func TestDecodeProgramErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", ``, "empty document"},
		{"not a program", `type: var`, "expected program"},
		{"missing name", `body: {type: compound, stmts: []}`, "identifier"},
		{"body not compound", `
identifier: p
body: {type: read, params: [x]}
`, "body"},
		{"unknown statement", `
identifier: p
body: {type: compound, stmts: [{type: loop}]}
`, `unknown statement type "loop"`},
		{"unknown type", `
identifier: p
declarations: [{type: var, identifier: x, varType: string8}]
body: {type: compound, stmts: []}
`, `declarations[0].varType`},
		{"unknown operator", `
identifier: p
body:
  type: compound
  stmts:
    - type: write
      params:
        - type: simple
          head: {type: constant, kind: integer, value: 1}
          tail: [{op: "^", expr: {type: constant, kind: integer, value: 2}}]
`, `unknown additive operator "^"`},
		{"tier violation", `
identifier: p
body:
  type: compound
  stmts:
    - type: write
      params:
        - type: term
          head:
            type: simple
            head: {type: constant, kind: integer, value: 1}
          tail: []
`, "wrap it in a block"},
		{"bad constant", `
identifier: p
body:
  type: compound
  stmts:
    - type: write
      params: [{type: constant, kind: integer, value: abc}]
`, "expected an integer"},
		{"bad mode", `
identifier: p
declarations:
  - type: procedure
    identifier: q
    params: [{identifier: a, type: integer, mode: copy}]
    body: {stmt: {type: compound, stmts: []}}
body: {type: compound, stmts: []}
`, `unknown passing mode "copy"`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeProgram([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadProgramReportsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	writeFile(t, path, `
identifier: broken
`)
	_, err := LoadProgram(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error naming %s, got %v", path, err)
	}
}

func TestEncodeProgramRejectsNil(t *testing.T) {
	if _, err := EncodeProgram(nil); err == nil {
		t.Fatalf("expected error for nil program")
	}
}
