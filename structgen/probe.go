package structgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/platform-probe/errors"
	"github.com/wippyai/platform-probe/toolchain"
)

// Prober measures structure layouts by compiling and running a diagnostic
// program with the host toolchain. Probes are synchronous; a Prober is not
// meant to run two probes at once because the binary path is per process.
type Prober struct {
	tc      *toolchain.Toolchain
	verbose io.Writer
	workDir string
}

type Option func(*Prober)

// WithToolchain sets the compiler used for probes.
func WithToolchain(tc *toolchain.Toolchain) Option {
	return func(p *Prober) { p.tc = tc }
}

// WithWorkDir sets the directory the probe binary is written to.
func WithWorkDir(dir string) Option {
	return func(p *Prober) { p.workDir = dir }
}

// WithVerbose copies every generated program to w before compiling it.
func WithVerbose(w io.Writer) Option {
	return func(p *Prober) { p.verbose = w }
}

// NewProber returns a Prober using $CC (or gcc) and the system temp directory.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		tc:      toolchain.FromEnv(),
		workDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BinaryPath is where the probe executable is written. The name carries the
// process id so concurrent generator processes do not collide.
func (p *Prober) BinaryPath() string {
	return filepath.Join(p.workDir, fmt.Sprintf("struct_gen_bin_%d", os.Getpid()))
}

// Probe measures d in place. It returns false with a nil error when the
// compiler rejects the program, which means the structure or one of its
// headers does not exist on this platform; d is left unprobed and its
// fields untouched. A missing struct name is reported as an error before
// anything runs.
func (p *Prober) Probe(ctx context.Context, d *Description) (bool, error) {
	src, err := GenerateSource(d)
	if err != nil {
		return false, err
	}

	srcFile, err := os.CreateTemp("", "struct_gen_*.c")
	if err != nil {
		return false, errors.IO(errors.PhaseGenerate, "create probe source", err)
	}
	defer removeFile(srcFile.Name())

	_, werr := io.WriteString(srcFile, src)
	cerr := srcFile.Close()
	if werr != nil || cerr != nil {
		if werr == nil {
			werr = cerr
		}
		return false, errors.IO(errors.PhaseGenerate, "write probe source", werr)
	}

	if p.verbose != nil {
		fmt.Fprint(p.verbose, src)
	}

	bin := p.BinaryPath()
	defer removeFile(bin)

	d.probed = false

	res, err := p.tc.Compile(ctx, srcFile.Name(), bin)
	if err != nil {
		return false, err
	}
	switch res.Status {
	case toolchain.StatusRejected:
		Logger().Debug("struct unavailable on this platform",
			zap.String("struct", d.name),
			zap.ByteString("diagnostics", res.Diagnostics))
		return false, nil
	case toolchain.StatusAbnormal:
		Logger().Warn("compiler exited abnormally, treating as success",
			zap.String("struct", d.name),
			zap.Int("exit_code", res.ExitCode),
			zap.ByteString("diagnostics", res.Diagnostics))
	}

	out, err := p.tc.Run(ctx, bin)
	if err != nil {
		return false, err
	}

	size, ms, err := parseOutput(d.name, len(d.fields), out)
	if err != nil {
		return false, err
	}

	if d.sizeSet && d.size != size {
		Logger().Debug("keeping caller-supplied size",
			zap.String("struct", d.name),
			zap.Uint64("size", d.size),
			zap.Uint64("probed", size))
	}
	if err := d.Record(size, ms); err != nil {
		return false, err
	}

	Logger().Debug("probed struct",
		zap.String("struct", d.name),
		zap.Uint64("size", d.size),
		zap.Int("fields", len(d.fields)))

	return true, nil
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		Logger().Warn("failed to remove probe file during cleanup",
			zap.String("path", path),
			zap.Error(err))
	}
}
