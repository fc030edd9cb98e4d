package interpreter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
	"github.com/jeronimonunes/simple-compiler/pkg/runtime"
)

var (
	integerPrefix = regexp.MustCompile(`^[+-]?\d+`)
	realPrefix    = regexp.MustCompile(`^[+-]?((\d+\.\d*)|(\.\d+)|(\d+))([eE][+-]?\d+)?`)
)

// reader is a cursor over the whitespace-trimmed program input.
type reader struct {
	input string
}

func newReader(input string) *reader {
	return &reader{input: strings.TrimSpace(input)}
}

// read consumes one value of type t. ok is false when the input does not start
// with a literal of that type; the cursor is left untouched in that case.
func (r *reader) read(t ast.PrimitiveType) (runtime.Value, bool) {
	switch t {
	case ast.TypeBoolean:
		for _, word := range []string{"true", "false"} {
			if strings.HasPrefix(r.input, word) {
				r.advance(len(word))
				return runtime.BoolValue{Val: word == "true"}, true
			}
		}
		return nil, false
	case ast.TypeChar:
		if r.input == "" {
			return nil, false
		}
		ch, size := utf8.DecodeRuneInString(r.input)
		r.advance(size)
		return runtime.CharValue{Val: ch}, true
	case ast.TypeInteger:
		match := integerPrefix.FindString(r.input)
		if match == "" {
			return nil, false
		}
		n, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			return nil, false
		}
		r.advance(len(match))
		return runtime.IntegerValue{Val: n}, true
	case ast.TypeReal:
		match := realPrefix.FindString(r.input)
		if match == "" {
			return nil, false
		}
		f, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return nil, false
		}
		r.advance(len(match))
		return runtime.RealValue{Val: f}, true
	default:
		return nil, false
	}
}

func (r *reader) advance(n int) {
	r.input = strings.TrimLeftFunc(r.input[n:], unicode.IsSpace)
}

// writer is the append-only program output.
type writer struct {
	buf strings.Builder
}

func (w *writer) write(v runtime.Value) {
	w.buf.WriteString(runtime.Format(v))
}

func (w *writer) newline() {
	w.buf.WriteByte('\n')
}

func (w *writer) String() string {
	return w.buf.String()
}
