package splice

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/platform-probe/errors"
	"github.com/wippyai/platform-probe/structgen"
)

// stubProber lays fields out as consecutive 4-byte slots and rejects any
// struct named in missing.
type stubProber struct {
	missing map[string]bool
	err     error
	calls   int
}

func (s *stubProber) Probe(_ context.Context, d *structgen.Description) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	if s.missing[d.Name()] {
		return false, nil
	}
	layouts := make([]structgen.FieldLayout, len(d.Fields()))
	for i := range layouts {
		layouts[i] = structgen.FieldLayout{Offset: uint64(i * 4), Size: 4}
	}
	return true, d.Record(uint64(len(layouts)*4), layouts)
}

func TestGenerateFromCode(t *testing.T) {
	got, err := GenerateFromCode(context.Background(), &stubProber{}, `
		name "struct point"
		field :x, :int
		field :y, :int
	`)
	if err != nil {
		t.Fatalf("GenerateFromCode() error = %v", err)
	}
	want := "layout :x, :int, 0,\n       :y, :int, 4"
	if got != want {
		t.Errorf("GenerateFromCode() = %q, want %q", got, want)
	}
}

func TestGenerateFromCodeMissing(t *testing.T) {
	p := &stubProber{missing: map[string]bool{"struct gone": true}}
	got, err := GenerateFromCode(context.Background(), p, `name "struct gone"; field :a`)
	if err != nil {
		t.Fatalf("GenerateFromCode() error = %v", err)
	}
	if got != "" {
		t.Errorf("missing struct should render empty, got %q", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := `class Point
  @@@
  name "struct point"
  field :x, :int
  field :y, :int
  @@@
end
`
	got, err := Template(context.Background(), &stubProber{}, tmpl)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	want := "class Point\n" +
		"  layout :x, :int, 0,\n" +
		"         :y, :int, 4\n" +
		"\n" +
		"end\n"
	if got != want {
		t.Errorf("Template() =\n%s\nwant\n%s", got, want)
	}
}

func TestTemplatePadsShortOutput(t *testing.T) {
	tmpl := "before\n@@@\nname 'struct point'\ninclude 'a.h'\ninclude 'b.h'\nfield :x\n@@@\nafter"
	got, err := Template(context.Background(), &stubProber{}, tmpl)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	want := "before\nlayout :x, 0\n\n\n\nafter"
	if got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
}

func TestTemplateMissingStructBlank(t *testing.T) {
	p := &stubProber{missing: map[string]bool{"struct gone": true}}
	tmpl := "a\n  @@@\n  name 'struct gone'\n  field :x\n  @@@\nb"
	got, err := Template(context.Background(), p, tmpl)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got != "a\n\n\nb" {
		t.Errorf("Template() = %q", got)
	}
}

func TestTemplateMultipleRegions(t *testing.T) {
	tmpl := "@@@\nname 'a'\nfield :x\n@@@\nmid\n@@@\nname 'b'\nfield :y\n@@@\n"
	p := &stubProber{}
	got, err := Template(context.Background(), p, tmpl)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if p.calls != 2 {
		t.Errorf("probe calls = %d, want 2", p.calls)
	}
	if got != "layout :x, 0\n\nmid\nlayout :y, 0\n\n" {
		t.Errorf("Template() = %q", got)
	}
}

func TestTemplateErrors(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		_, err := Template(context.Background(), &stubProber{}, "@@@\nbogus 'x'\n@@@")
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindUnknownDirective}) {
			t.Errorf("error = %v, want wrapped parse error", err)
		}
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseSplice, Kind: errors.KindInvalidInput}) {
			t.Errorf("error = %v, want splice error", err)
		}
	})

	t.Run("probe error stops further regions", func(t *testing.T) {
		p := &stubProber{err: errors.NotConfigured("struct name")}
		_, err := Template(context.Background(), p, "@@@\nfield :x\n@@@\n@@@\nfield :y\n@@@")
		if err == nil {
			t.Fatal("expected error")
		}
		if p.calls != 1 {
			t.Errorf("probe calls = %d, want 1", p.calls)
		}
	})
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "point.rb")
	tmpl := "module Point\n  @@@\n  name 'struct point'\n  field :x, :int\n  @@@\nend\n"
	if err := os.WriteFile(dest+TemplateSuffix, []byte(tmpl), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := File(context.Background(), &stubProber{}, dest); err != nil {
		t.Fatalf("File() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	want := GeneratedHeader + "\n\nmodule Point\n  layout :x, :int, 0\n\nend\n"
	if string(data) != want {
		t.Errorf("generated file =\n%s\nwant\n%s", data, want)
	}
}

func TestFileMissingTemplate(t *testing.T) {
	err := File(context.Background(), &stubProber{}, filepath.Join(t.TempDir(), "nope"))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseSplice, Kind: errors.KindIO}) {
		t.Errorf("File() error = %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "nope.in") {
		t.Errorf("error should name the template: %v", err)
	}
}
