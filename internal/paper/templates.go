package paper

import (
	"embed"
	"strings"
	"time"
)

//go:embed templates/context.md templates/annotations.md
var templateFS embed.FS

// contextTemplate returns the pristine context.md template text.
func contextTemplate() string {
	data, err := templateFS.ReadFile("templates/context.md")
	if err != nil {
		// Embedded file, cannot fail at runtime.
		panic(err)
	}
	return string(data)
}

// annotationsTemplate returns the pristine annotations.md template text.
func annotationsTemplate() string {
	data, err := templateFS.ReadFile("templates/annotations.md")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// RenderContext fills the context template with seed values from a record.
// Unfilled sections stay as prompts for manual curation.
func RenderContext(rec *Record) string {
	title := rec.Title
	if title == "" {
		title = "Unknown Title"
	}

	id := rec.DOI
	if id == "" {
		id = rec.PaperID
	}

	out := contextTemplate()
	out = strings.ReplaceAll(out, "[Title]", title)
	out = strings.ReplaceAll(out, "[DOI or unique ID]", id)
	out = strings.ReplaceAll(out, "[Full title]", rec.Title)
	out = strings.ReplaceAll(out, "[Author list with ORCIDs if available]", strings.Join(rec.Authors, ", "))
	out = strings.ReplaceAll(out, "[ISO 8601 format]", rec.DateAdded.Format(time.RFC3339))

	if rec.Abstract != "" {
		out += "\n## Abstract\n\n" + rec.Abstract + "\n"
	}

	return out
}

// RenderAnnotations fills the annotations template with seed values.
func RenderAnnotations(rec *Record, now time.Time) string {
	title := rec.Title
	if title == "" {
		title = "Unknown Title"
	}

	out := annotationsTemplate()
	out = strings.ReplaceAll(out, "[Paper Title]", title)
	out = strings.ReplaceAll(out, "[Unique identifier]", rec.PaperID)
	out = strings.ReplaceAll(out, "[Date]", now.Format("2006-01-02"))
	out = strings.ReplaceAll(out, "[User]", "qkb")
	return out
}
