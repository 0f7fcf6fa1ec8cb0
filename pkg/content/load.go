package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// Default returns the library shipped with the engine.
func Default() (*Library, error) {
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded content: %w", err)
	}
	return Load(sub)
}

// LoadDir loads every YAML file in dir.
func LoadDir(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load decodes every .yaml/.yml file at the root of fsys in name order, then
// validates the merged library. Validation failures come back as a
// *ValidationError listing every problem.
func Load(fsys fs.FS) (*Library, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := path.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.New("no content files found")
	}
	slices.Sort(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		doc, err := Decode(b)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		docs = append(docs, doc)
	}

	lib := New(docs...)
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Decode strictly decodes one content document. Unknown keys are errors.
func Decode(b []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, err
	}
	return doc, nil
}

// ValidationError lists every problem found in a library.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid content (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}
