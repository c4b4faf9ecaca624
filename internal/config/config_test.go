package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/repo"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"QkbPath", QkbPath, "/test/repo/.qkb"},
		{"ConfigPath", ConfigPath, "/test/repo/.qkb/config.json"},
		{"CachePath", CachePath, "/test/repo/.qkb/cache"},
		{"SearchDBPath", SearchDBPath, "/test/repo/.qkb/cache/search.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(root)
			if got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestConfigPaths(t *testing.T) {
	root := "/test/repo"
	cfg := Default()

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"LiteraturePath", cfg.LiteraturePath, "/test/repo/literature"},
		{"KnowledgeBasePath", cfg.KnowledgeBasePath, "/test/repo/knowledge-base"},
		{"PapersPath", cfg.PapersPath, "/test/repo/knowledge-base/papers"},
		{"IndexPath", cfg.IndexPath, "/test/repo/knowledge-base/index"},
		{"OntologyPath", cfg.OntologyPath, "/test/repo/knowledge-base/ontology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(root); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestConfigPaths_AbsoluteOverride(t *testing.T) {
	cfg := &Config{LiteratureDir: "/mnt/shared/pdfs"}
	if got := cfg.LiteraturePath("/test/repo"); got != "/mnt/shared/pdfs" {
		t.Errorf("LiteraturePath = %q, want absolute path kept", got)
	}
}

func TestIsRepository(t *testing.T) {
	tmpDir := t.TempDir()

	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true for non-repo directory")
	}

	if err := os.Mkdir(filepath.Join(tmpDir, QkbDir), 0755); err != nil {
		t.Fatal(err)
	}
	if !IsRepository(tmpDir) {
		t.Error("IsRepository() = false for repo directory")
	}
}

func TestIsRepository_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, QkbDir), []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}
	if IsRepository(tmpDir) {
		t.Error("IsRepository() = true when .qkb is a file")
	}
}

func TestFindRepository(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	nestedDir := filepath.Join(repoDir, "knowledge-base", "papers")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(repoDir, QkbDir), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindRepository(nestedDir)
	if err != nil {
		t.Fatalf("FindRepository() error = %v", err)
	}
	if got != repoDir {
		t.Errorf("FindRepository() = %q, want %q", got, repoDir)
	}
}

func TestFindRepository_NotFound(t *testing.T) {
	if _, err := FindRepository(t.TempDir()); err == nil {
		t.Error("FindRepository() in non-repo succeeded")
	}
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, QkbDir), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.GrobidURL = "http://grobid.lab:8070"
	cfg.PreferNetworked = false
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.GrobidURL != "http://grobid.lab:8070" {
		t.Errorf("GrobidURL = %q", loaded.GrobidURL)
	}
	if loaded.PreferNetworked {
		t.Error("PreferNetworked = true, want false")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, QkbDir), 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"literature_dir":"literature","knowledge_base":"knowledge-base"}`
	if err := os.WriteFile(ConfigPath(root), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MinTextLen != DefaultMinTextLen {
		t.Errorf("MinTextLen = %d, want default %d", cfg.MinTextLen, DefaultMinTextLen)
	}
	if cfg.LargeFileBytes != DefaultLargeFileBytes {
		t.Errorf("LargeFileBytes = %d, want default %d", cfg.LargeFileBytes, DefaultLargeFileBytes)
	}
	if cfg.GrobidTimeout != DefaultGrobidTimeout {
		t.Errorf("GrobidTimeout = %d, want default %d", cfg.GrobidTimeout, DefaultGrobidTimeout)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/papers", filepath.Join(home, "papers")},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
