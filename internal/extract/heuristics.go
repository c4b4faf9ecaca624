package extract

import (
	"regexp"
	"strings"
)

// doiPattern matches 10.XXXX/... identifiers.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// abstractPattern captures the abstract section up to the next blank line
// or a common following section heading.
var abstractPattern = regexp.MustCompile(`(?is)abstract[:\s]+(.*?)(?:\n\n|\nintroduction|\n1\.|\nkey)`)

// doiSearchWindow limits DOI scanning to the front matter of a paper.
const doiSearchWindow = 5000

// maxAbstractLen caps seeded abstracts; the full text is on disk anyway.
const maxAbstractLen = 1000

// FindDOI scans the front matter of extracted text for a DOI.
// Returns "" when none is found; absence is not an error.
func FindDOI(text string) string {
	window := text
	if len(window) > doiSearchWindow {
		window = window[:doiSearchWindow]
	}

	matches := doiPattern.FindAllString(window, -1)
	for _, match := range matches {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

// TitleFromText takes the first substantial line of the text as the title.
// Best-effort: returns "" when nothing looks like a title, in which case
// the caller falls back to a placeholder for manual curation.
func TitleFromText(text string) string {
	lines := strings.Split(text, "\n")
	limit := 20
	if len(lines) < limit {
		limit = len(lines)
	}

	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		if line[0] >= '0' && line[0] <= '9' {
			continue
		}
		if isHeaderLine(line) || strings.HasPrefix(line, "---") {
			continue
		}
		return line
	}
	return ""
}

// AuthorsFromText looks for a comma-separated name line near the top of
// the text. Restricted to short lines of short names to avoid swallowing
// affiliation blocks.
func AuthorsFromText(text string) []string {
	lines := strings.Split(text, "\n")
	limit := 50
	if len(lines) < limit {
		limit = len(lines)
	}

	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ",") || len(line) >= 200 {
			continue
		}

		parts := strings.Split(line, ",")
		candidates := make([]string, 0, len(parts))
		plausible := true
		for _, p := range parts {
			name := strings.TrimSpace(p)
			if name == "" || len(strings.Fields(name)) > 4 {
				plausible = false
				break
			}
			candidates = append(candidates, name)
		}

		if plausible && len(candidates) > 0 {
			if len(candidates) > 10 {
				candidates = candidates[:10]
			}
			return candidates
		}
	}
	return nil
}

// AbstractFromText extracts the abstract section, capped at maxAbstractLen.
func AbstractFromText(text string) string {
	m := abstractPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	abstract := strings.TrimSpace(m[1])
	if len(abstract) > maxAbstractLen {
		abstract = abstract[:maxAbstractLen]
	}
	return abstract
}

// isHeaderLine checks if a line is likely a running header or footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	return false
}

// fillMetadata populates missing metadata fields from text heuristics.
func fillMetadata(r *Result) {
	if r.Title == "" {
		r.Title = TitleFromText(r.Text)
	}
	if len(r.Authors) == 0 {
		r.Authors = AuthorsFromText(r.Text)
	}
	if r.Abstract == "" {
		r.Abstract = AbstractFromText(r.Text)
	}
	if r.DOI == "" {
		r.DOI = FindDOI(r.Text)
	}
}
