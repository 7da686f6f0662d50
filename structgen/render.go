package structgen

import (
	"strconv"
	"strings"

	"github.com/wippyai/platform-probe/errors"
)

// ConfigPrefix is the leading namespace of every config key.
const ConfigPrefix = "rbx.platform"

const (
	layoutKeyword = "layout "
	layoutIndent  = "       "
)

// RenderLayout renders the probed fields as a layout declaration body:
//
//	layout :x, :int, 0,
//	       :y, :int, 4
//
// Fields without a type tag render as ":name, offset".
func RenderLayout(d *Description) (string, error) {
	if !d.probed {
		return "", errors.NotProbed(d.name)
	}

	var b strings.Builder
	for i, f := range d.fields {
		if i == 0 {
			b.WriteString(layoutKeyword)
		} else {
			b.WriteString(",\n")
			b.WriteString(layoutIndent)
		}
		b.WriteByte(':')
		b.WriteString(f.name)
		if f.typ != "" {
			b.WriteString(", :")
			b.WriteString(f.typ)
		}
		b.WriteString(", ")
		b.WriteString(strconv.FormatUint(f.offset, 10))
	}
	return b.String(), nil
}

// RenderConfig renders the aggregate size and every field as
// "rbx.platform.<ns>.<key> = <value>" lines in declaration order.
func RenderConfig(d *Description, ns string) (string, error) {
	if !d.probed {
		return "", errors.NotProbed(d.name)
	}

	lines := []string{ConfigPrefix + "." + ns + ".sizeof = " + strconv.FormatUint(d.size, 10)}
	for _, f := range d.fields {
		lines = append(lines, f.ConfigLines(ns)...)
	}
	return strings.Join(lines, "\n"), nil
}
