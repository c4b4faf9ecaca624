// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .qkb/config.json.
type Config struct {
	LiteratureDir   string `json:"literature_dir"`               // Drop folder of source PDFs, relative to repo root
	KnowledgeBase   string `json:"knowledge_base"`               // Knowledge-base directory, relative to repo root
	GrobidURL       string `json:"grobid_url,omitempty"`         // Networked extraction service endpoint
	PreferNetworked bool   `json:"prefer_networked"`             // Try GROBID first when reachable
	MinTextLen      int    `json:"min_text_len,omitempty"`       // Minimum extracted text length to count as success
	LargeFileBytes  int64  `json:"large_file_bytes,omitempty"`   // Files above this always go to GROBID first
	GrobidTimeout   int    `json:"grobid_timeout_sec,omitempty"` // Per-request timeout in seconds
}

const (
	QkbDir     = ".qkb"
	ConfigFile = "config.json"
	CacheDir   = "cache"
	SearchDB   = "search.db"

	// DefaultLiteratureDir is the drop folder scanned by process-all.
	DefaultLiteratureDir = "literature"
	// DefaultKnowledgeBase holds papers/, index/ and ontology/.
	DefaultKnowledgeBase = "knowledge-base"

	// DefaultMinTextLen is the minimum character count for a successful
	// extraction. Shorter output triggers adapter fallback.
	DefaultMinTextLen = 200

	// DefaultLargeFileBytes is the size above which GROBID is preferred
	// regardless of the prefer_networked setting (5 MB).
	DefaultLargeFileBytes = 5 * 1024 * 1024

	// DefaultGrobidTimeout is the per-request timeout in seconds.
	DefaultGrobidTimeout = 300
)

// Default returns a config populated with default values.
func Default() *Config {
	return &Config{
		LiteratureDir:   DefaultLiteratureDir,
		KnowledgeBase:   DefaultKnowledgeBase,
		PreferNetworked: true,
		MinTextLen:      DefaultMinTextLen,
		LargeFileBytes:  DefaultLargeFileBytes,
		GrobidTimeout:   DefaultGrobidTimeout,
	}
}

// QkbPath returns the path to the .qkb directory from a root path.
func QkbPath(root string) string {
	return filepath.Join(root, QkbDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, QkbDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, QkbDir, CacheDir)
}

// SearchDBPath returns the path to the search database from a root path.
func SearchDBPath(root string) string {
	return filepath.Join(root, QkbDir, CacheDir, SearchDB)
}

// LiteraturePath returns the PDF drop folder for the repository.
func (c *Config) LiteraturePath(root string) string {
	dir := c.LiteratureDir
	if dir == "" {
		dir = DefaultLiteratureDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// KnowledgeBasePath returns the knowledge-base directory for the repository.
func (c *Config) KnowledgeBasePath(root string) string {
	dir := c.KnowledgeBase
	if dir == "" {
		dir = DefaultKnowledgeBase
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// PapersPath returns the directory holding per-paper directories.
func (c *Config) PapersPath(root string) string {
	return filepath.Join(c.KnowledgeBasePath(root), "papers")
}

// IndexPath returns the directory holding registry and status files.
func (c *Config) IndexPath(root string) string {
	return filepath.Join(c.KnowledgeBasePath(root), "index")
}

// OntologyPath returns the directory holding ontology files.
func (c *Config) OntologyPath(root string) string {
	return filepath.Join(c.KnowledgeBasePath(root), "ontology")
}

// IsRepository checks if the given path contains a qkb repository.
func IsRepository(root string) bool {
	info, err := os.Stat(QkbPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a qkb repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a qkb repository (no .qkb directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.MinTextLen == 0 {
		cfg.MinTextLen = DefaultMinTextLen
	}
	if cfg.LargeFileBytes == 0 {
		cfg.LargeFileBytes = DefaultLargeFileBytes
	}
	if cfg.GrobidTimeout == 0 {
		cfg.GrobidTimeout = DefaultGrobidTimeout
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
