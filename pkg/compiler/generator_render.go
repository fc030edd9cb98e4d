package compiler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

const scanBooleanHelper = `static void scan_boolean(boolean *target) {
	char word[6];
	if (scanf("%5s", word) == 1) {
		*target = strcmp(word, "true") == 0;
	}
}
`

func (g *generator) render(program *ast.Program) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Program: %s\n", strings.ReplaceAll(program.Name, "\n", " "))
	fmt.Fprintf(&buf, "// C translation generated by simplec\n\n")

	if g.needsMath {
		fmt.Fprintf(&buf, "#include <math.h>\n")
	}
	fmt.Fprintf(&buf, "#include <stdio.h>\n")
	if g.needsScanBoolean {
		fmt.Fprintf(&buf, "#include <string.h>\n")
	}
	fmt.Fprintf(&buf, "\n")
	fmt.Fprintf(&buf, "typedef char boolean;\n")
	fmt.Fprintf(&buf, "typedef double real;\n")
	fmt.Fprintf(&buf, "typedef long long integer;\n\n")
	fmt.Fprintf(&buf, "#define true 1\n")
	fmt.Fprintf(&buf, "#define false 0\n\n")

	if g.needsScanBoolean {
		fmt.Fprintf(&buf, "%s\n", scanBooleanHelper)
	}
	writeSection(&buf, g.globals)
	writeSection(&buf, g.prototypes)
	for _, line := range g.functions {
		fmt.Fprintf(&buf, "%s\n", line)
	}

	fmt.Fprintf(&buf, "int main(void) {\n")
	for _, line := range indentLines(g.main, 1) {
		fmt.Fprintf(&buf, "%s\n", line)
	}
	fmt.Fprintf(&buf, "\treturn 0;\n")
	fmt.Fprintf(&buf, "}\n")
	return buf.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, lines []string) {
	if len(lines) == 0 {
		return
	}
	for _, line := range lines {
		fmt.Fprintf(buf, "%s\n", line)
	}
	fmt.Fprintf(buf, "\n")
}
