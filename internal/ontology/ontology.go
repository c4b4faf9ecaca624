// Package ontology manages the controlled vocabulary: terms,
// abbreviations and term relationships. Every term must cite at least one
// source; files carry a monotonically increasing version and a
// last-modified timestamp, bumped on every save.
package ontology

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Ontology file names within the ontology directory.
const (
	TermsFile         = "terms.json"
	AbbreviationsFile = "abbreviations.json"
	RelationshipsFile = "relationships.json"
)

// Validation errors.
var (
	ErrEmptyName      = errors.New("term name is required")
	ErrNoDefinition   = errors.New("term definition is required")
	ErrNoSource       = errors.New("term must cite at least one source")
	ErrDuplicateTerm  = errors.New("term with this name already exists")
	ErrTermNotFound   = errors.New("term not found")
	ErrUnknownRelated = errors.New("related term does not exist")
)

// Term is a controlled-vocabulary entry. Sources are DOIs or paper
// identifiers; the citation requirement is the invariant that keeps the
// vocabulary anchored to literature.
type Term struct {
	Name       string   `json:"name"`
	Definition string   `json:"definition"`
	Synonyms   []string `json:"synonyms,omitempty"`
	Related    []string `json:"related,omitempty"` // Names of related terms
	Sources    []string `json:"sources"`           // DOI or paper id, at least one
}

// Abbreviation expands a short form used in the literature.
type Abbreviation struct {
	Short     string   `json:"short"`
	Expansion string   `json:"expansion"`
	Sources   []string `json:"sources"`
}

// Relationship names a typed edge between two terms.
type Relationship struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Type    string   `json:"type"` // e.g. is_a, part_of, regulates
	Sources []string `json:"sources"`
}

// File is the common envelope for every ontology file.
type File struct {
	Version       int            `json:"version"`
	LastModified  time.Time      `json:"last_modified"`
	Terms         []Term         `json:"terms,omitempty"`
	Abbreviations []Abbreviation `json:"abbreviations,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// Validate checks a term's invariants.
func (t *Term) Validate() error {
	if t.Name == "" {
		return ErrEmptyName
	}
	if t.Definition == "" {
		return fmt.Errorf("term %q: %w", t.Name, ErrNoDefinition)
	}
	if len(t.Sources) == 0 {
		return fmt.Errorf("term %q: %w", t.Name, ErrNoSource)
	}
	return nil
}

// Load reads an ontology file. A missing file yields an empty version-0
// envelope, so the first save writes version 1.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading ontology file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// Save bumps the version, stamps last-modified and writes the file.
func Save(path string, f *File) error {
	f.Version++
	f.LastModified = time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating ontology directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ontology file: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing ontology file: %w", err)
	}
	return nil
}

// AddTerm validates and appends a term, rejecting duplicates by name.
func (f *File) AddTerm(t Term) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, existing := range f.Terms {
		if existing.Name == t.Name {
			return fmt.Errorf("%q: %w", t.Name, ErrDuplicateTerm)
		}
	}
	f.Terms = append(f.Terms, t)
	return nil
}

// FindTerm returns the term with the given name, or nil.
func (f *File) FindTerm(name string) *Term {
	for i := range f.Terms {
		if f.Terms[i].Name == name {
			return &f.Terms[i]
		}
	}
	return nil
}

// ValidateAll checks every term's invariants plus referential integrity
// of related-term names. Returns every problem found, not just the first.
func (f *File) ValidateAll() []error {
	var problems []error

	names := make(map[string]bool, len(f.Terms))
	for _, t := range f.Terms {
		names[t.Name] = true
	}

	seen := make(map[string]bool, len(f.Terms))
	for _, t := range f.Terms {
		if err := t.Validate(); err != nil {
			problems = append(problems, err)
		}
		if seen[t.Name] {
			problems = append(problems, fmt.Errorf("%q: %w", t.Name, ErrDuplicateTerm))
		}
		seen[t.Name] = true

		for _, rel := range t.Related {
			if !names[rel] {
				problems = append(problems, fmt.Errorf("term %q references %q: %w", t.Name, rel, ErrUnknownRelated))
			}
		}
	}

	for _, a := range f.Abbreviations {
		if a.Short == "" || a.Expansion == "" {
			problems = append(problems, fmt.Errorf("abbreviation %q: short form and expansion are required", a.Short))
		}
		if len(a.Sources) == 0 {
			problems = append(problems, fmt.Errorf("abbreviation %q: %w", a.Short, ErrNoSource))
		}
	}

	for _, r := range f.Relationships {
		if r.From == "" || r.To == "" || r.Type == "" {
			problems = append(problems, fmt.Errorf("relationship %s-%s: from, to and type are required", r.From, r.To))
		}
		if len(r.Sources) == 0 {
			problems = append(problems, fmt.Errorf("relationship %s-%s: %w", r.From, r.To, ErrNoSource))
		}
	}

	return problems
}
