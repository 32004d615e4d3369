// Package loader reads system definitions (parameters, equations and renames)
// from HCL, TOML and YAML files.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/stepsolver/internal/ctxlog"
	"github.com/specialistvlad/stepsolver/internal/errwrap"
	"github.com/specialistvlad/stepsolver/internal/fsutil"
	"github.com/specialistvlad/stepsolver/internal/step"
	"github.com/spf13/afero"
)

// Extensions lists the file extensions the loader understands.
var Extensions = []string{".hcl", ".toml", ".yaml", ".yml"}

// EquationDef is one equation as written in a system file.
type EquationDef struct {
	Left   string
	Right  string
	Source string
}

// System is the merged content of every loaded file.
type System struct {
	Parameters map[string]float64
	Equations  []EquationDef
	// Rename maps lowercase variable names to their replacements.
	Rename map[string]string
	// Sources lists the files read, in the order they were read.
	Sources []string
}

// Steps builds an equation step for every definition, in file order.
func (s *System) Steps() ([]step.Step, error) {
	steps := make([]step.Step, 0, len(s.Equations))
	for i, def := range s.Equations {
		eq, err := step.NewEquation(def.Left, def.Right)
		if err != nil {
			return nil, errwrap.Wrapf(err, "%s: equation %d", def.Source, i)
		}
		steps = append(steps, eq)
	}
	return steps, nil
}

// document is the shape shared by every file format once decoded.
type document struct {
	Parameters map[string]float64
	Equations  []EquationDef
	Rename     map[string]string
}

// Loader reads system files through an afero file system.
type Loader struct {
	fs afero.Fs
}

// New creates a loader reading from fs.
func New(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load reads every system file found under paths, in lexical order, and
// merges them into one System. A parameter or rename key defined by more than
// one file is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*System, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(l.fs, paths, Extensions...)
	if err != nil {
		return nil, errwrap.Wrapf(err, "finding system files")
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no system files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Discovered system files.", "count", len(files))

	sys := &System{
		Parameters: make(map[string]float64),
		Rename:     make(map[string]string),
	}
	paramOrigin := make(map[string]string)
	renameOrigin := make(map[string]string)

	for _, file := range files {
		src, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return nil, errwrap.Wrapf(err, "reading %s", file)
		}

		doc, err := decode(file, src)
		if err != nil {
			return nil, err
		}

		for _, name := range sortedKeys(doc.Parameters) {
			key := strings.ToLower(name)
			if prev, ok := paramOrigin[key]; ok {
				return nil, fmt.Errorf("%s: parameter %q is already defined in %s", file, name, prev)
			}
			paramOrigin[key] = file
			sys.Parameters[name] = doc.Parameters[name]
		}
		for _, name := range sortedKeys(doc.Rename) {
			key := strings.ToLower(name)
			if prev, ok := renameOrigin[key]; ok {
				return nil, fmt.Errorf("%s: rename of %q is already defined in %s", file, name, prev)
			}
			renameOrigin[key] = file
			sys.Rename[key] = doc.Rename[name]
		}
		for _, eq := range doc.Equations {
			eq.Source = file
			sys.Equations = append(sys.Equations, eq)
		}
		sys.Sources = append(sys.Sources, file)
		logger.Debug("Loaded system file.", "file", file, "parameters", len(doc.Parameters), "equations", len(doc.Equations))
	}

	logger.Debug("Loading complete.", "files", len(sys.Sources), "parameters", len(sys.Parameters), "equations", len(sys.Equations), "renames", len(sys.Rename))
	return sys, nil
}

func decode(file string, src []byte) (*document, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".hcl":
		return decodeHCL(file, src)
	case ".toml":
		return decodeTOML(file, src)
	default:
		return decodeYAML(file, src)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
