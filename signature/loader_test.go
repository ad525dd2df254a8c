package signature

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/coregx/binmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSignatures = `signatures:
  - id: test.magic
    name: Test magic
    pattern: "DE AD BE EF ??"
    description: magic then a version byte
    tags: [test]
  - id: test.nameless
    pattern: "CA FE"
`

func TestLoad_Valid(t *testing.T) {
	sigs, err := NewLoader().Load([]byte(twoSignatures), "inline")
	require.NoError(t, err)
	require.Len(t, sigs, 2)

	s := sigs[0]
	assert.Equal(t, "test.magic", s.ID)
	assert.Equal(t, "Test magic", s.Name)
	assert.Equal(t, "magic then a version byte", s.Description)
	assert.Equal(t, []string{"test"}, s.Tags)
	require.NotNil(t, s.Compiled())
	assert.Equal(t, 5, s.Compiled().Len())
	assert.Equal(t, 1, s.Compiled().NumPlaceholders())

	// Name falls back to the id.
	assert.Equal(t, "test.nameless", sigs[1].Name)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := NewLoader().Load([]byte("this is not valid yaml: [[["), "bad.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yml")
}

func TestLoad_NoSignatures(t *testing.T) {
	_, err := NewLoader().Load([]byte("signatures: []"), "empty.yml")
	assert.ErrorContains(t, err, "no signatures found")
}

func TestLoad_DuplicateID(t *testing.T) {
	data := `signatures:
  - id: dup
    pattern: "00"
  - id: dup
    pattern: "01"
`
	_, err := NewLoader().Load([]byte(data), "dup.yml")
	assert.ErrorContains(t, err, "duplicate signature id dup")
}

func TestLoad_MissingFields(t *testing.T) {
	_, err := NewLoader().Load([]byte("signatures:\n  - pattern: \"00\"\n"), "x.yml")
	assert.ErrorContains(t, err, "has no id")

	_, err = NewLoader().Load([]byte("signatures:\n  - id: a\n"), "x.yml")
	assert.ErrorContains(t, err, "empty pattern")
}

func TestLoad_BadPattern(t *testing.T) {
	data := `signatures:
  - id: broken
    pattern: "4?"
`
	_, err := NewLoader().Load([]byte(data), "broken.yml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, binmatch.ErrPartialWildcard))

	var ce *binmatch.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "4?", ce.Pattern)
	assert.Contains(t, err.Error(), "broken.yml")
	assert.Contains(t, err.Error(), "signature broken")
}

func TestLoader_WithConfig(t *testing.T) {
	config := binmatch.DefaultConfig()
	config.Prefilter = false

	base := NewLoader()
	l := base.WithConfig(config)
	sigs, err := l.Load([]byte(twoSignatures), "inline")
	require.NoError(t, err)

	_, _, ok := sigs[0].Compiled().Anchor()
	assert.False(t, ok)
	assert.True(t, base.config.Prefilter, "WithConfig must not modify the receiver")
}

func TestLoadBuiltin(t *testing.T) {
	sigs, err := NewLoader().LoadBuiltin()
	require.NoError(t, err)
	require.NotEmpty(t, sigs)

	byID := make(map[string]*Signature)
	for _, s := range sigs {
		require.NotNil(t, s.Compiled(), s.ID)
		byID[s.ID] = s
	}

	elf, ok := byID["elf.header"]
	require.True(t, ok)
	header := []byte{0x7F, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00}
	assert.Equal(t, []byte{0x02, 0x01, 0x01}, elf.Compiled().FindMatches(header))

	call, ok := byID["x86_64.call_rel32"]
	require.True(t, ok)
	assert.True(t, call.HasTag("code"))
}

func TestLoadBuiltin_CustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"builtin/a.yml":     {Data: []byte("signatures:\n  - id: a\n    pattern: \"00 ??\"\n")},
		"builtin/b.yaml":    {Data: []byte("signatures:\n  - id: b\n    pattern: \"01\"\n")},
		"builtin/README.md": {Data: []byte("not a signatures file")},
	}

	sigs, err := NewLoaderWithFS(fsys).LoadBuiltin()
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, "a", sigs[0].ID)
	assert.Equal(t, "b", sigs[1].ID)
}

func TestLoadBuiltin_DuplicateAcrossFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"builtin/a.yml": {Data: []byte("signatures:\n  - id: same\n    pattern: \"00\"\n")},
		"builtin/b.yml": {Data: []byte("signatures:\n  - id: same\n    pattern: \"01\"\n")},
	}

	_, err := NewLoaderWithFS(fsys).LoadBuiltin()
	assert.ErrorContains(t, err, "duplicate signature id same")
}

func TestLoadBuiltin_Empty(t *testing.T) {
	fsys := fstest.MapFS{
		"builtin/notes.txt": {Data: []byte("nothing here")},
	}

	_, err := NewLoaderWithFS(fsys).LoadBuiltin()
	assert.ErrorContains(t, err, "no signature files found")
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.yml"), []byte(twoSignatures), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "two.yaml"),
		[]byte("signatures:\n  - id: nested.one\n    pattern: \"4D 5A\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))

	l := NewLoader()

	sigs, err := l.LoadPath(dir)
	require.NoError(t, err)
	require.Len(t, sigs, 3)
	assert.Equal(t, "nested.one", sigs[0].ID) // lexical walk visits nested/ before one.yml

	single, err := l.LoadPath(filepath.Join(dir, "one.yml"))
	require.NoError(t, err)
	assert.Len(t, single, 2)

	_, err = l.LoadPath(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
