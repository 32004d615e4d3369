package loader

import (
	"fmt"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v2"
)

// fileDoc is the TOML and YAML layout of a system file.
type fileDoc struct {
	Parameters map[string]float64 `toml:"parameters" yaml:"parameters"`
	Equations  []fileEquation     `toml:"equation" yaml:"equation"`
	Rename     map[string]string  `toml:"rename" yaml:"rename"`
}

type fileEquation struct {
	Left  string `toml:"left" yaml:"left"`
	Right string `toml:"right" yaml:"right"`
}

func (d *fileDoc) document(file string) (*document, error) {
	doc := &document{Parameters: d.Parameters, Rename: d.Rename}
	for i, eq := range d.Equations {
		if eq.Left == "" || eq.Right == "" {
			return nil, fmt.Errorf("%s: equation %d needs both left and right", file, i)
		}
		doc.Equations = append(doc.Equations, EquationDef{Left: eq.Left, Right: eq.Right})
	}
	return doc, nil
}

func decodeTOML(file string, src []byte) (*document, error) {
	var d fileDoc
	md, err := toml.Decode(string(src), &d)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML file %s: %w", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", file, undecoded[0].String())
	}
	return d.document(file)
}

func decodeYAML(file string, src []byte) (*document, error) {
	var d fileDoc
	if err := yaml.UnmarshalStrict(src, &d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", file, err)
	}
	return d.document(file)
}
