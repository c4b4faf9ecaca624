package grobid

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Document is the subset of a GROBID TEI response this system consumes.
type Document struct {
	Title    string
	Authors  []string
	Abstract string
	DOI      string
	Body     string
}

// teiFile mirrors the TEI XML layout for decoding.
type teiFile struct {
	XMLName xml.Name  `xml:"TEI"`
	Header  teiHeader `xml:"teiHeader"`
	Text    teiText   `xml:"text"`
}

type teiHeader struct {
	FileDesc    teiFileDesc    `xml:"fileDesc"`
	ProfileDesc teiProfileDesc `xml:"profileDesc"`
}

type teiFileDesc struct {
	TitleStmt  teiTitleStmt  `xml:"titleStmt"`
	SourceDesc teiSourceDesc `xml:"sourceDesc"`
}

type teiTitleStmt struct {
	Titles []teiTitle `xml:"title"`
}

type teiTitle struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type teiSourceDesc struct {
	BiblStruct teiBiblStruct `xml:"biblStruct"`
}

type teiBiblStruct struct {
	Analytic teiAnalytic `xml:"analytic"`
	IDNos    []teiIDNo   `xml:"idno"`
}

type teiAnalytic struct {
	Authors []teiAuthor `xml:"author"`
	IDNos   []teiIDNo   `xml:"idno"`
}

type teiAuthor struct {
	PersName teiPersName `xml:"persName"`
}

type teiPersName struct {
	Forenames []string `xml:"forename"`
	Surname   string   `xml:"surname"`
}

type teiIDNo struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type teiProfileDesc struct {
	Abstract teiAbstract `xml:"abstract"`
}

type teiAbstract struct {
	Divs []teiDiv `xml:"div"`
}

type teiText struct {
	Body teiBody `xml:"body"`
}

type teiBody struct {
	Divs []teiDiv `xml:"div"`
}

type teiDiv struct {
	Head       string   `xml:"head"`
	Paragraphs []string `xml:"p"`
}

// ParseTEI decodes a TEI XML document into the fields this system uses.
func ParseTEI(data []byte) (*Document, error) {
	var tei teiFile
	if err := xml.Unmarshal(data, &tei); err != nil {
		return nil, fmt.Errorf("decoding TEI XML: %w", err)
	}

	doc := &Document{}

	// Prefer the main analytic title; fall back to the first title.
	for _, t := range tei.Header.FileDesc.TitleStmt.Titles {
		if t.Type == "main" {
			doc.Title = strings.TrimSpace(t.Value)
			break
		}
	}
	if doc.Title == "" && len(tei.Header.FileDesc.TitleStmt.Titles) > 0 {
		doc.Title = strings.TrimSpace(tei.Header.FileDesc.TitleStmt.Titles[0].Value)
	}

	for _, a := range tei.Header.FileDesc.SourceDesc.BiblStruct.Analytic.Authors {
		name := formatPersName(a.PersName)
		if name != "" {
			doc.Authors = append(doc.Authors, name)
		}
	}

	doc.DOI = findDOI(tei.Header.FileDesc.SourceDesc.BiblStruct)

	var abstract strings.Builder
	for _, div := range tei.Header.ProfileDesc.Abstract.Divs {
		for _, p := range div.Paragraphs {
			if abstract.Len() > 0 {
				abstract.WriteString("\n")
			}
			abstract.WriteString(strings.TrimSpace(p))
		}
	}
	doc.Abstract = abstract.String()

	var body strings.Builder
	for _, div := range tei.Text.Body.Divs {
		if head := strings.TrimSpace(div.Head); head != "" {
			body.WriteString(head)
			body.WriteString("\n\n")
		}
		for _, p := range div.Paragraphs {
			body.WriteString(strings.TrimSpace(p))
			body.WriteString("\n\n")
		}
	}
	doc.Body = strings.TrimSpace(body.String())

	return doc, nil
}

// formatPersName joins forenames and surname into a display name.
func formatPersName(p teiPersName) string {
	parts := make([]string, 0, len(p.Forenames)+1)
	for _, f := range p.Forenames {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	if s := strings.TrimSpace(p.Surname); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// findDOI looks for a DOI idno at either biblStruct level.
func findDOI(b teiBiblStruct) string {
	for _, group := range [][]teiIDNo{b.Analytic.IDNos, b.IDNos} {
		for _, id := range group {
			if strings.EqualFold(id.Type, "DOI") {
				return strings.TrimSpace(id.Value)
			}
		}
	}
	return ""
}
