package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/platform-probe/manifest"
	"github.com/wippyai/platform-probe/splice"
	"github.com/wippyai/platform-probe/structgen"
	"github.com/wippyai/platform-probe/toolchain"
)

var sourceStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#87CEEB"))

func main() {
	var (
		template    = flag.String("template", "", "Regenerate this file from its .in template")
		code        = flag.String("code", "", "Struct description to probe, printed as layout text")
		file        = flag.String("file", "", "File holding a struct description")
		manifestArg = flag.String("manifest", "", "YAML manifest of structs to probe into config text")
		out         = flag.String("out", "", "Write manifest config here instead of stdout")
		cc          = flag.String("cc", "", "C compiler (default $CC or gcc)")
		workDir     = flag.String("workdir", "", "Directory for the probe binary")
		verbose     = flag.Bool("v", false, "Print generated C sources and debug logs to stderr")
		strict      = flag.Bool("strict", false, "Fail when a manifest struct is unavailable")
		interactive = flag.Bool("i", false, "Browse manifest results in a TUI")
	)
	flag.Parse()

	modes := 0
	for _, set := range []bool{*template != "", *code != "", *file != "", *manifestArg != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "Usage: structgen -template <dest> [-cc gcc] [-workdir dir] [-v]")
		fmt.Fprintln(os.Stderr, "       structgen -code '<description>' | -file <path>")
		fmt.Fprintln(os.Stderr, "       structgen -manifest <file.yaml> [-out file] [-strict]")
		fmt.Fprintln(os.Stderr, "       structgen -manifest <file.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		if err := installLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prober := newProber(*cc, *workDir, *verbose)

	var err error
	switch {
	case *interactive:
		if *manifestArg == "" {
			err = fmt.Errorf("-i requires -manifest")
			break
		}
		err = runInteractive(ctx, prober, *manifestArg)
	case *template != "":
		err = splice.File(ctx, prober, *template)
	case *code != "":
		err = printLayout(ctx, prober, *code)
	case *file != "":
		var data []byte
		data, err = os.ReadFile(*file)
		if err == nil {
			err = printLayout(ctx, prober, string(data))
		}
	case *manifestArg != "":
		err = runManifest(ctx, prober, *manifestArg, *out, *strict)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func installLogger() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	structgen.SetLogger(logger)
	toolchain.SetLogger(logger)
	splice.SetLogger(logger)
	manifest.SetLogger(logger)
	return nil
}

func newProber(cc, workDir string, verbose bool) *structgen.Prober {
	tc := toolchain.FromEnv()
	if cc != "" {
		fields := strings.Fields(cc)
		tc.Command = fields[0]
		tc.Flags = append(fields[1:], toolchain.Default().Flags...)
	}

	opts := []structgen.Option{structgen.WithToolchain(tc)}
	if workDir != "" {
		opts = append(opts, structgen.WithWorkDir(workDir))
	}
	if verbose {
		opts = append(opts, structgen.WithVerbose(styledWriter{w: os.Stderr, style: sourceStyle}))
	}
	return structgen.NewProber(opts...)
}

func printLayout(ctx context.Context, p *structgen.Prober, code string) error {
	layout, err := splice.GenerateFromCode(ctx, p, code)
	if err != nil {
		return err
	}
	if layout == "" {
		return fmt.Errorf("struct is not available on this platform")
	}
	fmt.Println(layout)
	return nil
}

func runManifest(ctx context.Context, p *structgen.Prober, path, out string, strict bool) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	res, err := manifest.Generate(ctx, p, m)
	if err != nil {
		return err
	}
	if strict {
		if err := res.MissingError(); err != nil {
			return err
		}
	}

	text := res.Config
	if text != "" {
		text += "\n"
	}
	if out == "" {
		_, err = io.WriteString(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Probed %d struct(s), %d unavailable, wrote %s\n", len(res.Found), len(res.Missing), out)
	return nil
}

// styledWriter renders everything written through it with style.
type styledWriter struct {
	w     io.Writer
	style lipgloss.Style
}

func (s styledWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(s.w, s.style.Render(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
