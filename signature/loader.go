package signature

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/coregx/binmatch"
	"gopkg.in/yaml.v3"
)

// Loader loads signatures from YAML files.
type Loader struct {
	fs     fs.FS // embedded filesystem for builtin signatures
	config binmatch.Config
}

// NewLoader creates a loader with the builtin signatures and the default
// scan configuration.
func NewLoader() *Loader {
	return &Loader{
		fs:     builtinFS,
		config: binmatch.DefaultConfig(),
	}
}

// NewLoaderWithFS creates a loader whose builtin signatures come from fsys.
// LoadBuiltin reads every .yml/.yaml file under "builtin" in fsys.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs:     fsys,
		config: binmatch.DefaultConfig(),
	}
}

// WithConfig returns a copy of the loader that compiles patterns with config.
func (l *Loader) WithConfig(config binmatch.Config) *Loader {
	c := *l
	c.config = config
	return &c
}

// Load parses and compiles the signatures in data. source names the data in
// error messages.
//
// Every signature needs a non-empty id that is unique within data and a
// non-empty pattern that compiles.
func (l *Loader) Load(data []byte, source string) ([]*Signature, error) {
	var file yamlSignaturesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", source)
	}
	if len(file.Signatures) == 0 {
		return nil, errors.Newf("no signatures found in %s", source)
	}

	seen := make(map[string]bool, len(file.Signatures))
	sigs := make([]*Signature, 0, len(file.Signatures))
	for _, ys := range file.Signatures {
		s := &Signature{
			ID:          ys.ID,
			Name:        ys.Name,
			Pattern:     ys.Pattern,
			Description: ys.Description,
			Tags:        ys.Tags,
		}
		if err := s.compile(l.config); err != nil {
			return nil, errors.Wrapf(err, "loading %s", source)
		}
		if seen[s.ID] {
			return nil, errors.Newf("loading %s: duplicate signature id %s", source, s.ID)
		}
		seen[s.ID] = true
		if s.Name == "" {
			s.Name = s.ID
		}
		sigs = append(sigs, s)
	}
	return sigs, nil
}

// LoadFile loads signatures from a YAML file.
func (l *Loader) LoadFile(path string) ([]*Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return l.Load(data, path)
}

// LoadPath loads signatures from a file, or from every .yml/.yaml file below
// a directory in lexical order. Ids must be unique across all files.
func (l *Loader) LoadPath(path string) ([]*Signature, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	if !info.IsDir() {
		return l.LoadFile(path)
	}
	return l.loadTree(os.DirFS(path), ".", path)
}

// LoadBuiltin loads the embedded builtin signatures.
func (l *Loader) LoadBuiltin() ([]*Signature, error) {
	return l.loadTree(l.fs, "builtin", "builtin")
}

// loadTree loads every signatures file under root in fsys. label prefixes
// file names in error messages.
func (l *Loader) loadTree(fsys fs.FS, root, label string) ([]*Signature, error) {
	var sigs []*Signature
	owner := make(map[string]string)

	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}

		source := filepath.FromSlash(path)
		if root == "." {
			source = filepath.Join(label, source)
		}
		loaded, err := l.Load(data, source)
		if err != nil {
			return err
		}
		for _, s := range loaded {
			if prev, ok := owner[s.ID]; ok {
				return errors.Newf("duplicate signature id %s in %s (first defined in %s)", s.ID, source, prev)
			}
			owner[s.ID] = source
		}
		sigs = append(sigs, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(sigs) == 0 {
		return nil, errors.Newf("no signature files found in %s", label)
	}
	return sigs, nil
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return true
	}
	return false
}
