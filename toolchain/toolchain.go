package toolchain

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/platform-probe/errors"
)

// Status classifies a finished compiler invocation.
type Status int

const (
	// StatusOK means the compiler exited 0.
	StatusOK Status = iota
	// StatusRejected means the compiler exited with the reject status,
	// i.e. it refused the program (missing struct, missing header).
	StatusRejected
	// StatusAbnormal means any other nonzero exit.
	StatusAbnormal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRejected:
		return "rejected"
	case StatusAbnormal:
		return "abnormal"
	}
	return "unknown"
}

const (
	DefaultCommand      = "gcc"
	DefaultRejectStatus = 1
)

// Toolchain invokes a native C compiler.
type Toolchain struct {
	Command      string
	Flags        []string
	RejectStatus int
}

// Result is the outcome of a compile that actually ran.
type Result struct {
	Diagnostics []byte
	Status      Status
	ExitCode    int
}

// Default returns gcc in C mode with warnings enabled.
func Default() *Toolchain {
	return &Toolchain{
		Command:      DefaultCommand,
		Flags:        []string{"-x", "c", "-Wall"},
		RejectStatus: DefaultRejectStatus,
	}
}

// FromEnv returns Default with the command replaced by $CC when set.
func FromEnv() *Toolchain {
	tc := Default()
	if cc := strings.TrimSpace(os.Getenv("CC")); cc != "" {
		fields := strings.Fields(cc)
		tc.Command = fields[0]
		tc.Flags = append(fields[1:], tc.Flags...)
	}
	return tc
}

// Compile builds src into an executable at out. A compiler that runs and
// exits nonzero is not an error; the exit is classified in Result.Status.
// An error is returned only when the compiler cannot be started.
func (t *Toolchain) Compile(ctx context.Context, src, out string) (Result, error) {
	args := make([]string, 0, len(t.Flags)+3)
	args = append(args, t.Flags...)
	args = append(args, src, "-o", out)

	cmd := exec.CommandContext(ctx, t.Command, args...)
	diag, err := cmd.CombinedOutput()

	res := Result{Diagnostics: diag}
	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return res, errors.Toolchain(t.Command, err)
		}
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode == t.RejectStatus {
			res.Status = StatusRejected
		} else {
			res.Status = StatusAbnormal
		}
	}

	Logger().Debug("compiled probe",
		zap.String("command", t.Command),
		zap.String("source", src),
		zap.Stringer("status", res.Status),
		zap.Int("exit_code", res.ExitCode),
		zap.ByteString("diagnostics", diag))

	return res, nil
}

// Run executes binary with no arguments and returns its standard output.
func (t *Toolchain) Run(ctx context.Context, binary string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Execution(binary, stderr.Bytes(), err)
	}

	Logger().Debug("ran probe",
		zap.String("binary", binary),
		zap.Int("stdout_bytes", stdout.Len()))

	return stdout.Bytes(), nil
}
