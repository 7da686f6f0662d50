package structgen

import (
	"github.com/wippyai/platform-probe/dsl"
	"github.com/wippyai/platform-probe/dsl/ast"
	"github.com/wippyai/platform-probe/errors"
)

// Description is the declarative model of a native structure to probe.
// Field order is significant: probe output is matched back positionally.
type Description struct {
	name    string
	headers []string
	fields  []*FieldSpec
	size    uint64
	sizeSet bool
	probed  bool
}

// New returns an empty Description.
func New() *Description {
	return &Description{}
}

// FromSource builds a Description from mini-language text.
func FromSource(source string) (*Description, error) {
	instrs, err := dsl.Compile(source)
	if err != nil {
		return nil, err
	}
	d := New()
	d.Apply(instrs)
	return d, nil
}

// Apply executes a compiled instruction list against the builder.
func (d *Description) Apply(instrs []ast.Instr) {
	for _, in := range instrs {
		switch in.Op {
		case ast.OpName:
			d.SetName(in.Arg(0))
		case ast.OpInclude:
			d.AddHeader(in.Arg(0))
		case ast.OpField:
			f := d.AddField(in.Arg(0), in.Arg(1))
			if in.HasSize {
				f.SetSize(in.Size)
			}
		case ast.OpSize:
			d.SetSize(in.Size)
		}
	}
}

func (d *Description) SetName(n string) { d.name = n }

func (d *Description) Name() string { return d.name }

// AddHeader appends a header to the include list.
func (d *Description) AddHeader(h string) { d.headers = append(d.headers, h) }

// Headers returns a copy of the include list in declaration order.
func (d *Description) Headers() []string {
	return append([]string(nil), d.headers...)
}

// AddField appends a field; typ may be empty.
func (d *Description) AddField(name, typ string) *FieldSpec {
	f := &FieldSpec{name: name, typ: typ}
	d.fields = append(d.fields, f)
	return f
}

// Fields returns the fields in declaration order.
func (d *Description) Fields() []*FieldSpec {
	return append([]*FieldSpec(nil), d.fields...)
}

// FieldNamed returns the first field with the given name.
func (d *Description) FieldNamed(name string) (*FieldSpec, bool) {
	for _, f := range d.fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// SetSize supplies the overall size. It takes precedence over the probed value.
func (d *Description) SetSize(n uint64) {
	d.size = n
	d.sizeSet = true
}

func (d *Description) Size() (uint64, bool) { return d.size, d.sizeSet }

// Probed reports whether the last probe run completed. When true every field
// has an offset and size and Size is set.
func (d *Description) Probed() bool { return d.probed }

// FieldLayout is the measured position of one field.
type FieldLayout struct {
	Offset uint64
	Size   uint64
}

// Record stores a measured layout and marks d probed. layouts must match the
// declared fields one to one, in declaration order. Sizes supplied by the
// caller before recording are kept.
func (d *Description) Record(size uint64, layouts []FieldLayout) error {
	if len(layouts) != len(d.fields) {
		return errors.OutputMismatch(d.name, len(layouts), len(d.fields))
	}
	if !d.sizeSet {
		d.size = size
		d.sizeSet = true
	}
	for i, l := range layouts {
		d.fields[i].measured(l.Offset, l.Size)
	}
	d.probed = true
	return nil
}
