package structgen

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/platform-probe/errors"
	"github.com/wippyai/platform-probe/toolchain"
)

// fakeToolchain returns a compiler script that emits a "binary" printing
// output, then exits with code.
func fakeToolchain(t *testing.T, output string, code int) *toolchain.Toolchain {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	dir := t.TempDir()
	outFile := filepath.Join(dir, "output.txt")
	if err := os.WriteFile(outFile, []byte(output), 0o644); err != nil {
		t.Fatal(err)
	}
	script := fmt.Sprintf(`#!/bin/sh
for a; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
if [ %d -ne 1 ]; then
  printf '#!/bin/sh\ncat %%s\n' '%s' > "$out"
  chmod +x "$out"
fi
exit %d
`, code, outFile, code)
	cc := filepath.Join(dir, "cc")
	if err := os.WriteFile(cc, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return &toolchain.Toolchain{Command: cc, RejectStatus: toolchain.DefaultRejectStatus}
}

func pointDescription() *Description {
	d := New()
	d.SetName("point")
	d.AddField("x", "int")
	d.AddField("y", "int")
	return d
}

func assertCleanedUp(t *testing.T, p *Prober) {
	t.Helper()
	if _, err := os.Stat(p.BinaryPath()); !os.IsNotExist(err) {
		t.Errorf("probe binary %s was not removed (stat err = %v)", p.BinaryPath(), err)
	}
}

func TestProbeWithFakeToolchain(t *testing.T) {
	tc := fakeToolchain(t, "sizeof(point) 8\nx 0 4\ny 4 4\n", 0)
	var verbose bytes.Buffer
	p := NewProber(WithToolchain(tc), WithWorkDir(t.TempDir()), WithVerbose(&verbose))
	d := pointDescription()

	found, err := p.Probe(context.Background(), d)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !found || !d.Probed() {
		t.Fatalf("Probe() found = %v, probed = %v", found, d.Probed())
	}
	if size, _ := d.Size(); size != 8 {
		t.Errorf("size = %d, want 8", size)
	}
	y, _ := d.FieldNamed("y")
	if off, _ := y.Offset(); off != 4 {
		t.Errorf("y offset = %d, want 4", off)
	}
	if !strings.Contains(verbose.String(), "offsetof(point, y)") {
		t.Errorf("verbose output missing generated source:\n%s", verbose.String())
	}
	assertCleanedUp(t, p)
}

func TestProbeRejected(t *testing.T) {
	tc := fakeToolchain(t, "", 1)
	p := NewProber(WithToolchain(tc), WithWorkDir(t.TempDir()))
	d := pointDescription()

	found, err := p.Probe(context.Background(), d)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if found || d.Probed() {
		t.Errorf("rejected compile should report not found")
	}
	for _, f := range d.Fields() {
		if _, ok := f.Offset(); ok {
			t.Errorf("field %s offset should stay unset", f.Name())
		}
		if _, ok := f.Size(); ok {
			t.Errorf("field %s size should stay unset", f.Name())
		}
	}
	if _, ok := d.Size(); ok {
		t.Error("overall size should stay unset")
	}
	assertCleanedUp(t, p)
}

func TestProbeAbnormalExitContinues(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	tc := fakeToolchain(t, "sizeof(point) 8\nx 0 4\ny 4 4\n", 2)
	p := NewProber(WithToolchain(tc), WithWorkDir(t.TempDir()))
	d := pointDescription()

	found, err := p.Probe(context.Background(), d)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !found {
		t.Error("non-reject exit status should be treated as success")
	}
	if logs.FilterMessage("compiler exited abnormally, treating as success").Len() != 1 {
		t.Errorf("expected abnormal-exit warning, got %v", logs.All())
	}
}

func TestProbeOutputMismatch(t *testing.T) {
	tc := fakeToolchain(t, "sizeof(point) 8\nx 0 4\n", 0)
	p := NewProber(WithToolchain(tc), WithWorkDir(t.TempDir()))
	d := pointDescription()

	found, err := p.Probe(context.Background(), d)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindOutputMismatch}) {
		t.Fatalf("Probe() error = %v, want output mismatch", err)
	}
	if found || d.Probed() {
		t.Error("mismatched output must not mark the description probed")
	}
	x, _ := d.FieldNamed("x")
	if _, ok := x.Offset(); ok {
		t.Error("fields must be untouched on mismatch")
	}
	assertCleanedUp(t, p)
}

func TestProbeRequiresName(t *testing.T) {
	p := NewProber(WithToolchain(&toolchain.Toolchain{Command: "unused"}))
	d := New()
	d.AddField("x", "")

	_, err := p.Probe(context.Background(), d)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfigure, Kind: errors.KindNotConfigured}) {
		t.Errorf("Probe() error = %v, want not_configured", err)
	}
}

func TestProbeMissingCompiler(t *testing.T) {
	tc := &toolchain.Toolchain{Command: filepath.Join(t.TempDir(), "missing-cc"), RejectStatus: 1}
	p := NewProber(WithToolchain(tc), WithWorkDir(t.TempDir()))

	_, err := p.Probe(context.Background(), pointDescription())
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindToolchain}) {
		t.Errorf("Probe() error = %v, want toolchain error", err)
	}
}

func TestBinaryPathIsProcessUnique(t *testing.T) {
	p := NewProber(WithWorkDir("/work"))
	want := filepath.Join("/work", fmt.Sprintf("struct_gen_bin_%d", os.Getpid()))
	if p.BinaryPath() != want {
		t.Errorf("BinaryPath() = %q, want %q", p.BinaryPath(), want)
	}
}

// Tests below run the real host compiler.

func requireCompiler(t *testing.T) *Prober {
	t.Helper()
	tc := toolchain.FromEnv()
	if _, err := exec.LookPath(tc.Command); err != nil {
		t.Skipf("%s not available: %v", tc.Command, err)
	}
	return NewProber(WithToolchain(tc), WithWorkDir(t.TempDir()))
}

// pointHeader writes a header declaring `point` and returns its absolute path.
func pointHeader(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "point.h")
	src := "typedef struct { int x; int y; double z; } point;\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbeNative(t *testing.T) {
	p := requireCompiler(t)
	header := pointHeader(t)
	ctx := context.Background()

	build := func() *Description {
		d, err := FromSource(fmt.Sprintf(`
			name "point"
			include %q
			field :x, :int
			field :y, :int
			field :z, :double
		`, header))
		if err != nil {
			t.Fatalf("FromSource() error = %v", err)
		}
		return d
	}

	d := build()
	found, err := p.Probe(ctx, d)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if !found {
		t.Fatal("point should compile")
	}

	size, ok := d.Size()
	if !ok || size == 0 {
		t.Errorf("overall size = %d, %v, want positive", size, ok)
	}
	var prevOffset uint64
	for i, f := range d.Fields() {
		off, ok1 := f.Offset()
		sz, ok2 := f.Size()
		if !ok1 || !ok2 || sz == 0 {
			t.Errorf("field %s offset=%d,%v size=%d,%v", f.Name(), off, ok1, sz, ok2)
		}
		if i > 0 && off <= prevOffset {
			t.Errorf("field %s offset %d not after previous %d", f.Name(), off, prevOffset)
		}
		prevOffset = off
	}
	x, _ := d.FieldNamed("x")
	if off, _ := x.Offset(); off != 0 {
		t.Errorf("x offset = %d, want 0", off)
	}

	again := build()
	if _, err := p.Probe(ctx, again); err != nil {
		t.Fatalf("second Probe() error = %v", err)
	}
	c1, _ := RenderConfig(d, "point")
	c2, _ := RenderConfig(again, "point")
	if c1 != c2 {
		t.Errorf("probing twice differs:\n%s\n---\n%s", c1, c2)
	}

	if d.Name() != "point" || len(d.Headers()) != 1 || d.Headers()[0] != header {
		t.Errorf("probe mutated name/headers: %q %v", d.Name(), d.Headers())
	}
	names := []string{}
	for _, f := range d.Fields() {
		names = append(names, f.Name())
	}
	if strings.Join(names, ",") != "x,y,z" {
		t.Errorf("field order = %v", names)
	}
	if _, err := RenderLayout(d); err != nil {
		t.Errorf("RenderLayout() error = %v", err)
	}
	assertCleanedUp(t, p)
}

func TestProbeNativeSizeOverride(t *testing.T) {
	p := requireCompiler(t)
	d := New()
	d.SetName("point")
	d.AddHeader(pointHeader(t))
	d.AddField("x", "int")
	d.SetSize(1234)

	found, err := p.Probe(context.Background(), d)
	if err != nil || !found {
		t.Fatalf("Probe() = %v, %v", found, err)
	}
	if size, _ := d.Size(); size != 1234 {
		t.Errorf("size = %d, caller-supplied 1234 must win", size)
	}
}

func TestProbeNativeMissingStruct(t *testing.T) {
	p := requireCompiler(t)
	d := New()
	d.SetName("struct definitely_not_a_real_struct")
	d.AddField("x", "")

	found, err := p.Probe(context.Background(), d)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if found || d.Probed() {
		t.Error("nonexistent struct should not be found")
	}
	x, _ := d.FieldNamed("x")
	if _, ok := x.Offset(); ok {
		t.Error("offset should stay unset")
	}
	if _, ok := x.Size(); ok {
		t.Error("size should stay unset")
	}
	assertCleanedUp(t, p)
}
