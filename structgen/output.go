package structgen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wippyai/platform-probe/errors"
)

var (
	sizeofLine = regexp.MustCompile(`^\s*sizeof\([^)]+\) (\d+)\s*$`)
	fieldLine  = regexp.MustCompile(`^.+ (\d+) (\d+)\s*$`)
)

// parseOutput decodes probe stdout: one aggregate line followed by exactly
// fieldCount field lines, matched to fields by position.
func parseOutput(structName string, fieldCount int, out []byte) (uint64, []FieldLayout, error) {
	text := strings.TrimRight(string(out), "\r\n")
	if text == "" {
		return 0, nil, errors.InvalidOutput(structName, 1, "")
	}
	lines := strings.Split(text, "\n")

	head := strings.TrimRight(lines[0], "\r")
	m := sizeofLine.FindStringSubmatch(head)
	if m == nil {
		return 0, nil, errors.InvalidOutput(structName, 1, head)
	}
	size, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, nil, errors.InvalidOutput(structName, 1, head)
	}

	rest := lines[1:]
	if len(rest) != fieldCount {
		return 0, nil, errors.OutputMismatch(structName, len(rest), fieldCount)
	}

	fields := make([]FieldLayout, len(rest))
	for i, line := range rest {
		line = strings.TrimRight(line, "\r")
		m := fieldLine.FindStringSubmatch(line)
		if m == nil {
			return 0, nil, errors.InvalidOutput(structName, i+2, line)
		}
		off, err1 := strconv.ParseUint(m[1], 10, 64)
		sz, err2 := strconv.ParseUint(m[2], 10, 64)
		if err1 != nil || err2 != nil {
			return 0, nil, errors.InvalidOutput(structName, i+2, line)
		}
		fields[i] = FieldLayout{Offset: off, Size: sz}
	}

	return size, fields, nil
}
