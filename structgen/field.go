package structgen

import "strconv"

// FieldSpec is one declared field of a Description. Offset and size are
// filled in by the prober; once set they do not change.
type FieldSpec struct {
	name      string
	typ       string
	offset    uint64
	size      uint64
	offsetSet bool
	sizeSet   bool
}

func (f *FieldSpec) Name() string { return f.name }

// Type returns the type tag and whether one was declared.
func (f *FieldSpec) Type() (string, bool) { return f.typ, f.typ != "" }

func (f *FieldSpec) Offset() (uint64, bool) { return f.offset, f.offsetSet }

func (f *FieldSpec) Size() (uint64, bool) { return f.size, f.sizeSet }

// SetSize overrides the field size. A size set before probing is kept.
func (f *FieldSpec) SetSize(n uint64) {
	if f.sizeSet {
		return
	}
	f.size = n
	f.sizeSet = true
}

func (f *FieldSpec) measured(offset, size uint64) {
	if !f.offsetSet {
		f.offset = offset
		f.offsetSet = true
	}
	f.SetSize(size)
}

// ConfigLines renders the field's config assignments under ns.
func (f *FieldSpec) ConfigLines(ns string) []string {
	prefix := ConfigPrefix + "." + ns + "." + f.name + "."
	lines := []string{
		prefix + "offset = " + strconv.FormatUint(f.offset, 10),
		prefix + "size = " + strconv.FormatUint(f.size, 10),
	}
	if f.typ != "" {
		lines = append(lines, prefix+"type = "+f.typ)
	}
	return lines
}
