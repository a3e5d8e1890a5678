package tokens

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Default file names produced by the Figma "Design Tokens Manager" export.
const (
	DefaultPaletteFile = "Colour Values.Mode 1.tokens"
	DefaultTokensFile  = "Colour Tokens.Enabled.tokens"
)

// Source supplies the raw bytes of one token document.
type Source interface {
	// Name identifies the document, e.g. "palette".
	Name() string
	// Location is where the document is expected to be found.
	Location() string
	// Read returns the document. A missing document yields ErrSourceMissing.
	Read() ([]byte, error)
}

// FileSource reads a document from disk.
type FileSource struct {
	name string
	path string
}

// NewFileSource creates a FileSource.
func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string     { return s.name }
func (s *FileSource) Location() string { return s.path }

func (s *FileSource) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, missing(s)
		}
		return nil, fmt.Errorf("read %s %s: %w", s.name, s.path, err)
	}
	return data, nil
}

// DirSources returns file sources for the palette and token documents in dir.
// Empty file names fall back to the Figma export defaults.
func DirSources(dir, paletteFile, tokensFile string) (palette, tokens Source) {
	if paletteFile == "" {
		paletteFile = DefaultPaletteFile
	}
	if tokensFile == "" {
		tokensFile = DefaultTokensFile
	}
	return NewFileSource(string(LayerPalette), filepath.Join(dir, paletteFile)),
		NewFileSource(string(LayerTokens), filepath.Join(dir, tokensFile))
}

// FSSource reads a document from an fs.FS.
type FSSource struct {
	name string
	fsys fs.FS
	path string
}

// NewFSSource creates an FSSource.
func NewFSSource(name string, fsys fs.FS, path string) *FSSource {
	return &FSSource{name: name, fsys: fsys, path: path}
}

func (s *FSSource) Name() string     { return s.name }
func (s *FSSource) Location() string { return s.path }

func (s *FSSource) Read() ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, missing(s)
		}
		return nil, fmt.Errorf("read %s %s: %w", s.name, s.path, err)
	}
	return data, nil
}

// BytesSource serves an in-memory document. A nil Data reports the source as missing.
type BytesSource struct {
	SourceName string
	Data       []byte
}

func (s *BytesSource) Name() string     { return s.SourceName }
func (s *BytesSource) Location() string { return "memory:" + s.SourceName }

func (s *BytesSource) Read() ([]byte, error) {
	if s.Data == nil {
		return nil, missing(s)
	}
	return s.Data, nil
}

//go:embed builtin/*.tokens.json
var builtinFS embed.FS

// BuiltinSources returns the sample palette and tokens bundled with tint.
func BuiltinSources() (palette, tokens Source) {
	return NewFSSource(string(LayerPalette), builtinFS, "builtin/palette.tokens.json"),
		NewFSSource(string(LayerTokens), builtinFS, "builtin/tokens.tokens.json")
}

func missing(s Source) error {
	return fmt.Errorf("%w: %s file not found, expected location: %s", ErrSourceMissing, s.Name(), s.Location())
}
