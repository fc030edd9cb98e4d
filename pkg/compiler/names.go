package compiler

import (
	"strings"
	"unicode"
)

// cReserved holds C keywords plus the names the generated prelude defines or
// relies on. Source identifiers matching one of them are prefixed.
var cReserved = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extern": {}, "float": {}, "for": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "register": {},
	"restrict": {}, "return": {}, "short": {}, "signed": {}, "sizeof": {},
	"static": {}, "struct": {}, "switch": {}, "typedef": {}, "union": {},
	"unsigned": {}, "void": {}, "volatile": {}, "while": {},
	"boolean": {}, "real": {}, "integer": {}, "true": {}, "false": {},
	"main": {}, "printf": {}, "scanf": {}, "strcmp": {}, "scan_boolean": {},
}

// sanitizeIdent maps a source name onto a C identifier. Names starting with
// the procedure prefix are escaped so variables never shadow functions.
func sanitizeIdent(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		if r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if i == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	out := b.String()
	if _, ok := cReserved[out]; ok {
		return "_" + out
	}
	if strings.HasPrefix(out, "fn_") {
		return "_" + out
	}
	return out
}

// functionName is the C name of a procedure. The prefix keeps procedures out
// of the variable namespace and away from C library names.
func functionName(name string) string {
	return "fn_" + sanitizeIdent(name)
}
