package ontology

import (
	"errors"
	"path/filepath"
	"testing"
)

func validTerm() Term {
	return Term{
		Name:       "radical pair",
		Definition: "A pair of radicals with correlated electron spins.",
		Synonyms:   []string{"RP"},
		Sources:    []string{"10.1038/nchem.2447"},
	}
}

func TestTermValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Term)
		wantErr error
	}{
		{"valid", func(*Term) {}, nil},
		{"empty name", func(tm *Term) { tm.Name = "" }, ErrEmptyName},
		{"no definition", func(tm *Term) { tm.Definition = "" }, ErrNoDefinition},
		{"no sources", func(tm *Term) { tm.Sources = nil }, ErrNoSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := validTerm()
			tt.mutate(&term)
			err := term.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddTerm_RejectsDuplicate(t *testing.T) {
	f := &File{}

	if err := f.AddTerm(validTerm()); err != nil {
		t.Fatalf("AddTerm() error = %v", err)
	}
	err := f.AddTerm(validTerm())
	if !errors.Is(err, ErrDuplicateTerm) {
		t.Errorf("duplicate AddTerm() error = %v, want ErrDuplicateTerm", err)
	}
	if len(f.Terms) != 1 {
		t.Errorf("Terms = %d entries, want 1", len(f.Terms))
	}
}

func TestAddTerm_RejectsUnsourced(t *testing.T) {
	f := &File{}
	term := validTerm()
	term.Sources = nil

	if err := f.AddTerm(term); !errors.Is(err, ErrNoSource) {
		t.Errorf("AddTerm() error = %v, want ErrNoSource", err)
	}
	if len(f.Terms) != 0 {
		t.Error("unsourced term was stored")
	}
}

func TestSave_BumpsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), TermsFile)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Version != 0 {
		t.Errorf("fresh Version = %d, want 0", f.Version)
	}

	if err := f.AddTerm(validTerm()); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, f); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if f.Version != 1 {
		t.Errorf("Version after first save = %d, want 1", f.Version)
	}
	if f.LastModified.IsZero() {
		t.Error("LastModified not stamped")
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Version != 1 || len(reloaded.Terms) != 1 {
		t.Errorf("reloaded = version %d with %d terms", reloaded.Version, len(reloaded.Terms))
	}

	if err := Save(path, reloaded); err != nil {
		t.Fatal(err)
	}
	if reloaded.Version != 2 {
		t.Errorf("Version after second save = %d, want 2", reloaded.Version)
	}
}

func TestFindTerm(t *testing.T) {
	f := &File{}
	f.AddTerm(validTerm())

	if got := f.FindTerm("radical pair"); got == nil || got.Definition == "" {
		t.Errorf("FindTerm() = %+v", got)
	}
	if got := f.FindTerm("zeeman resonance"); got != nil {
		t.Errorf("FindTerm(unknown) = %+v, want nil", got)
	}
}

func TestValidateAll_ReferentialIntegrity(t *testing.T) {
	f := &File{Terms: []Term{
		{
			Name:       "cryptochrome",
			Definition: "Blue-light photoreceptor protein.",
			Related:    []string{"radical pair"},
			Sources:    []string{"10.1038/nature00000"},
		},
		{
			Name:       "orphan",
			Definition: "Points at a term that does not exist.",
			Related:    []string{"zeeman resonance"},
			Sources:    []string{"10.1038/nature00001"},
		},
		{
			Name:       "radical pair",
			Definition: "A pair of radicals with correlated spins.",
			Sources:    []string{"10.1038/nchem.2447"},
		},
	}}

	problems := f.ValidateAll()
	if len(problems) != 1 {
		t.Fatalf("ValidateAll() = %v, want exactly the orphan reference", problems)
	}
	if !errors.Is(problems[0], ErrUnknownRelated) {
		t.Errorf("problem = %v, want ErrUnknownRelated", problems[0])
	}
}

func TestValidateAll_CollectsEveryProblem(t *testing.T) {
	f := &File{Terms: []Term{
		{Name: "a", Definition: "", Sources: []string{"s"}},
		{Name: "b", Definition: "def", Sources: nil},
		{Name: "b", Definition: "dup", Sources: []string{"s"}},
	}}

	problems := f.ValidateAll()
	if len(problems) < 3 {
		t.Errorf("ValidateAll() = %d problems (%v), want at least 3", len(problems), problems)
	}
}
