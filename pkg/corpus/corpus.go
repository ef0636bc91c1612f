// Package corpus loads training corpora from YAML files on disk.
//
// A corpus is addressed by a dotted name relative to a corpus root:
// "english.greetings" names <root>/english/greetings.yml, and "english"
// names every YAML file under <root>/english/.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Corpus is one decoded corpus file.
type Corpus struct {
	// Name is the dotted name the file resolved from.
	Name string `yaml:"-"`

	// Categories tag the corpus content, e.g. "greetings".
	Categories []string `yaml:"categories"`

	// Conversations hold the exchanges to train. Each conversation is a
	// list of utterances where every item replies to the one before it.
	Conversations [][]string `yaml:"conversations"`
}

// NotFoundError is returned when a dotted name resolves to nothing on disk.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return "corpus not found: " + e.Name
}

// ResolveRoot picks the corpus root directory. The configured root wins
// when it exists; otherwise ~/.parley/corpus is tried, so corpora installed
// next to the user config stay reachable from any working directory. When
// neither exists the configured root comes back unchanged and resolution
// errors name it.
func ResolveRoot(root string) string {
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		return root
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return root
	}

	fallback := filepath.Join(home, ".parley", "corpus")
	if info, err := os.Stat(fallback); err == nil && info.IsDir() {
		return fallback
	}

	return root
}

// Resolve maps a dotted corpus name to the YAML files beneath root. A name
// that points at a directory resolves to every YAML file under it, in
// lexical order.
func Resolve(root, name string) ([]string, error) {
	base := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(name, ".", "/")))

	if info, err := os.Stat(base); err == nil && info.IsDir() {
		files, err := listYAML(base)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, NotFoundError{Name: name}
		}
		return files, nil
	}

	for _, ext := range []string{".yml", ".yaml"} {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			return []string{path}, nil
		}
	}

	return nil, NotFoundError{Name: name}
}

// Load reads and decodes a single corpus file.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", filepath.Base(path), err)
	}

	return &c, nil
}

// LoadName resolves a dotted name and loads every corpus file it names.
func LoadName(root, name string) ([]*Corpus, error) {
	files, err := Resolve(root, name)
	if err != nil {
		return nil, err
	}

	corpora := make([]*Corpus, 0, len(files))
	for _, path := range files {
		c, err := Load(path)
		if err != nil {
			return nil, err
		}
		c.Name = dottedName(root, path)
		corpora = append(corpora, c)
	}

	return corpora, nil
}

func listYAML(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yml", ".yaml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan corpus directory: %w", err)
	}

	return files, nil
}

// dottedName converts a corpus file path back to its dotted name.
func dottedName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}
