package paper

import (
	"path/filepath"
	"regexp"
	"strings"
)

// MaxIDLength caps derived identifiers to keep directory names manageable.
const MaxIDLength = 100

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// DeriveID derives a filesystem-safe paper identifier.
// An explicit DOI wins; otherwise the source filename stem is sanitized.
func DeriveID(pdfPath, doi string) string {
	if doi != "" {
		return SanitizeID(doiTail(doi))
	}
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return SanitizeID(stem)
}

// SanitizeID replaces characters unsafe for directory names with
// underscores and truncates to MaxIDLength.
func SanitizeID(s string) string {
	id := unsafeIDChars.ReplaceAllString(s, "_")
	if len(id) > MaxIDLength {
		id = id[:MaxIDLength]
	}
	return id
}

// doiTail strips the DOI registrant prefix, keeping the suffix that
// uniquely names the work (10.1038/nchem.2447 -> nchem.2447).
func doiTail(doi string) string {
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi:")
	if idx := strings.Index(doi, "/"); idx >= 0 && idx < len(doi)-1 {
		return doi[idx+1:]
	}
	return doi
}
