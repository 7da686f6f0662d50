package manifest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/platform-probe/errors"
	"github.com/wippyai/platform-probe/structgen"
)

// Manifest lists the structures to probe for one platform config file.
type Manifest struct {
	Structs []Entry `yaml:"structs"`
}

// Entry describes one structure either declaratively (Name, Includes,
// Fields) or as a mini-language fragment in Source.
type Entry struct {
	Size     *uint64  `yaml:"size,omitempty"`
	Config   string   `yaml:"config"`
	Name     string   `yaml:"name,omitempty"`
	Source   string   `yaml:"source,omitempty"`
	Includes []string `yaml:"includes,omitempty"`
	Fields   []Field  `yaml:"fields,omitempty"`
}

// Field is a declared field of an Entry.
type Field struct {
	Size *uint64 `yaml:"size,omitempty"`
	Name string  `yaml:"name"`
	Type string  `yaml:"type,omitempty"`
}

// Prober measures a description in place; *structgen.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, d *structgen.Description) (bool, error)
}

// Result is the outcome of Generate.
type Result struct {
	Config  string
	Found   []*Probed
	Missing []Entry
}

// Probed pairs an entry with its measured description.
type Probed struct {
	Description *structgen.Description
	Entry       Entry
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseLoad, "read manifest "+path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "decode manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every entry names its config namespace and a structure.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Structs))
	for i, e := range m.Structs {
		path := fmt.Sprintf("structs[%d]", i)
		if e.Config == "" {
			return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Path(path).
				Detail("config namespace is required").
				Build()
		}
		if seen[e.Config] {
			return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Path(path).
				Value(e.Config).
				Detail("duplicate config namespace %q", e.Config).
				Build()
		}
		seen[e.Config] = true

		switch {
		case e.Source != "" && (e.Name != "" || len(e.Fields) > 0 || len(e.Includes) > 0):
			return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Path(path).
				Detail("source cannot be combined with name, includes or fields").
				Build()
		case e.Source == "" && e.Name == "":
			return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
				Path(path).
				Detail("either name or source is required").
				Build()
		}

		for j, f := range e.Fields {
			if f.Name == "" {
				return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
					Path(path, fmt.Sprintf("fields[%d]", j)).
					Detail("field name is required").
					Build()
			}
		}
	}
	return nil
}

// Description builds the structgen description for the entry.
func (e Entry) Description() (*structgen.Description, error) {
	var d *structgen.Description
	if e.Source != "" {
		var err error
		d, err = structgen.FromSource(e.Source)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "source of "+e.Config)
		}
	} else {
		d = structgen.New()
		d.SetName(e.Name)
		for _, inc := range e.Includes {
			d.AddHeader(inc)
		}
		for _, f := range e.Fields {
			spec := d.AddField(f.Name, f.Type)
			if f.Size != nil {
				spec.SetSize(*f.Size)
			}
		}
	}
	if e.Size != nil {
		d.SetSize(*e.Size)
	}
	return d, nil
}

// Generate probes every entry in order and joins the config text of the
// structures that exist on this platform. Missing structures are collected
// in Result.Missing; any other failure aborts.
func Generate(ctx context.Context, p Prober, m *Manifest) (*Result, error) {
	res := &Result{}
	var blocks []string

	for _, e := range m.Structs {
		d, err := e.Description()
		if err != nil {
			return nil, err
		}

		found, err := p.Probe(ctx, d)
		if err != nil {
			return nil, err
		}
		if !found {
			Logger().Warn("struct unavailable on this platform",
				zap.String("config", e.Config),
				zap.String("struct", d.Name()))
			res.Missing = append(res.Missing, e)
			continue
		}

		block, err := structgen.RenderConfig(d, e.Config)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
		res.Found = append(res.Found, &Probed{Entry: e, Description: d})
	}

	res.Config = strings.Join(blocks, "\n")
	return res, nil
}

// MissingError reports the missing structures as a single error, or nil.
func (r *Result) MissingError() error {
	if len(r.Missing) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.Missing))
	for _, e := range r.Missing {
		name := e.Name
		if name == "" {
			if d, err := e.Description(); err == nil {
				name = d.Name()
			}
		}
		keys = append(keys, e.Config+"#"+name)
	}
	return errors.NewMissingStructsError(keys)
}
