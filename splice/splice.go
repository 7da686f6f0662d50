package splice

import (
	"context"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/platform-probe/errors"
	"github.com/wippyai/platform-probe/structgen"
)

// GeneratedHeader is written at the top of every file produced by File.
const GeneratedHeader = "# This file is generated. Do not edit."

// TemplateSuffix is appended to the destination path to find its template.
const TemplateSuffix = ".in"

var region = regexp.MustCompile(`(?ms)^( *)@@@(.*?)@@@`)

// Prober measures a description in place; *structgen.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, d *structgen.Description) (bool, error)
}

// GenerateFromCode builds a description from mini-language code, probes it,
// and renders its layout text. A structure that does not compile on this
// platform yields "".
func GenerateFromCode(ctx context.Context, p Prober, code string) (string, error) {
	d, err := structgen.FromSource(code)
	if err != nil {
		return "", err
	}
	found, err := p.Probe(ctx, d)
	if err != nil {
		return "", err
	}
	if !found {
		Logger().Warn("struct unavailable, region left blank",
			zap.String("struct", d.Name()))
		return "", nil
	}
	return structgen.RenderLayout(d)
}

// Template replaces every @@@ ... @@@ region with the layout generated from
// its contents. Each generated line is prefixed with the indentation that
// preceded the opening marker, and the result is padded with empty lines
// so the file keeps its line count.
func Template(ctx context.Context, p Prober, text string) (string, error) {
	var firstErr error

	out := region.ReplaceAllStringFunc(text, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := region.FindStringSubmatch(match)
		indent, code := sub[1], sub[2]
		regionLines := strings.Count(code, "\n") - 1

		generated, err := GenerateFromCode(ctx, p, code)
		if err != nil {
			firstErr = err
			return match
		}

		var lines []string
		if generated != "" {
			for _, line := range strings.Split(generated, "\n") {
				lines = append(lines, indent+line)
			}
		}
		if len(lines) > regionLines {
			Logger().Warn("generated layout is longer than its template region",
				zap.Int("region_lines", regionLines),
				zap.Int("generated_lines", len(lines)))
		}
		for len(lines) < regionLines {
			lines = append(lines, "")
		}
		return strings.Join(lines, "\n")
	})

	if firstErr != nil {
		return "", errors.Wrap(errors.PhaseSplice, errors.KindInvalidInput, firstErr, "generate region")
	}
	return out, nil
}

// File regenerates dest from dest+".in".
func File(ctx context.Context, p Prober, dest string) error {
	src := dest + TemplateSuffix
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.IO(errors.PhaseSplice, "read template "+src, err)
	}

	Logger().Info("generating", zap.String("dest", dest))

	body, err := Template(ctx, p, string(data))
	if err != nil {
		return err
	}

	content := GeneratedHeader + "\n\n" + body
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return errors.IO(errors.PhaseSplice, "write "+dest, err)
	}
	return nil
}
