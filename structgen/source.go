package structgen

import (
	"fmt"
	"strings"

	"github.com/wippyai/platform-probe/errors"
)

// GenerateSource returns the C diagnostic program for d. The program prints
// "sizeof(<name>) <n>" followed by "<field> <offset> <size>" per field.
func GenerateSource(d *Description) (string, error) {
	if d.name == "" {
		return "", errors.NotConfigured("struct name")
	}

	var b strings.Builder
	b.WriteString("#include <stdio.h>\n")
	for _, h := range d.headers {
		fmt.Fprintf(&b, "#include <%s>\n", h)
	}
	b.WriteString("#include <stddef.h>\n\n")

	b.WriteString("int main(int argc, char **argv)\n{\n")
	fmt.Fprintf(&b, "  %s s;\n", d.name)
	fmt.Fprintf(&b, "  printf(\"sizeof(%s) %%u\\n\", (unsigned int) sizeof(%s));\n", d.name, d.name)

	for _, f := range d.fields {
		fmt.Fprintf(&b, "  printf(\"%s %%u %%u\\n\", (unsigned int) offsetof(%s, %s),\n", f.name, d.name, f.name)
		fmt.Fprintf(&b, "         (unsigned int) sizeof(s.%s));\n", f.name)
	}

	b.WriteString("\n  return 0;\n}\n")
	return b.String(), nil
}
