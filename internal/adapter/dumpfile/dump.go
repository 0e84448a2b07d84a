// Package dumpfile is the dump store adapter: it loads and saves the
// wiki's XML export, the whole-file offline copy the batch tools work
// against. Whole-file load, whole-file rewrite; no partial updates.
package dumpfile

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/giellatekno/termwiki/internal/domain"
)

// ConceptCategories are the thematic namespaces concept pages live in.
// Pages outside these (user pages, templates, expression pages) are
// not concepts and are skipped by Pages().
var ConceptCategories = []string{
	"Beaivválaš giella",
	"Boazodoallu",
	"Dihtorteknologiija ja diehtoteknihkka",
	"Dáidda ja girjjálašvuohta",
	"Eanandoallu",
	"Education",
	"Ekologiija ja biras",
	"Ekonomiija ja gávppašeapmi",
	"Geografiija",
	"Gielladieđa",
	"Gulahallanteknihkka",
	"Guolástus",
	"Huksenteknihkka",
	"Juridihkka",
	"Luonddudieđa ja matematihkka",
	"Medisiidna",
	"Mášenteknihkka",
	"Ođđa sánit",
	"Servodatdieđa",
	"Stáda almmolaš hálddašeapmi",
	"Religion",
	"Teknihkka industriija duodji",
	"Álšateknihkka",
	"Ásttoáigi ja faláštallan",
	"Ávnnasindustriija",
}

// IsConceptTitle reports whether a page title belongs to a concept
// namespace.
func IsConceptTitle(title string) bool {
	colon := strings.Index(title, ":")
	if colon < 0 {
		return false
	}
	category := title[:colon]
	for _, c := range ConceptCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Page is one <page> element of the export.
type Page struct {
	Title    string   `xml:"title"`
	ID       string   `xml:"id,omitempty"`
	Revision Revision `xml:"revision"`
}

// Revision carries the page text. Only the latest revision appears in
// the export this tooling consumes.
type Revision struct {
	Text string `xml:"text"`
}

type document struct {
	XMLName  xml.Name `xml:"mediawiki"`
	SiteInfo siteInfo `xml:"siteinfo"`
	Pages    []Page   `xml:"page"`
}

// siteinfo is carried through verbatim; nothing here reads it.
type siteInfo struct {
	InnerXML string `xml:",innerxml"`
}

// Dump is a loaded XML export.
type Dump struct {
	path string
	doc  document
}

// Load reads the export at path into memory.
func Load(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dumpfile: read %s: %w", path, err)
	}

	dump := &Dump{path: path}
	if err := xml.Unmarshal(data, &dump.doc); err != nil {
		return nil, fmt.Errorf("dumpfile: parse %s: %w", path, err)
	}
	return dump, nil
}

// Path returns the file the dump was loaded from.
func (d *Dump) Path() string { return d.path }

// Save rewrites the whole dump to the file it was loaded from.
func (d *Dump) Save() error { return d.SaveAs(d.path) }

// SaveAs rewrites the whole dump to path.
func (d *Dump) SaveAs(path string) error {
	data, err := xml.MarshalIndent(&d.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("dumpfile: marshal: %w", err)
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dumpfile: write %s: %w", path, err)
	}
	return nil
}

// Pages returns the concept pages, in dump order. Mutating the
// returned elements mutates the dump.
func (d *Dump) Pages() []*Page {
	var out []*Page
	for i := range d.doc.Pages {
		if IsConceptTitle(d.doc.Pages[i].Title) {
			out = append(out, &d.doc.Pages[i])
		}
	}
	return out
}

// AllPages returns every page regardless of namespace.
func (d *Dump) AllPages() []*Page {
	out := make([]*Page, len(d.doc.Pages))
	for i := range d.doc.Pages {
		out[i] = &d.doc.Pages[i]
	}
	return out
}

// PageText returns the text of the named page.
func (d *Dump) PageText(title string) (string, error) {
	for i := range d.doc.Pages {
		if d.doc.Pages[i].Title == title {
			return d.doc.Pages[i].Revision.Text, nil
		}
	}
	return "", fmt.Errorf("dumpfile: page %q: %w", title, domain.ErrNotFound)
}

// SetPageText replaces the text of the named page.
func (d *Dump) SetPageText(title, text string) error {
	for i := range d.doc.Pages {
		if d.doc.Pages[i].Title == title {
			d.doc.Pages[i].Revision.Text = text
			return nil
		}
	}
	return fmt.Errorf("dumpfile: page %q: %w", title, domain.ErrNotFound)
}

// AddPage appends a new page to the dump.
func (d *Dump) AddPage(title, text string) {
	d.doc.Pages = append(d.doc.Pages, Page{Title: title, Revision: Revision{Text: text}})
}

// SortByTitle orders the pages alphabetically by title.
func (d *Dump) SortByTitle() {
	sort.SliceStable(d.doc.Pages, func(i, j int) bool {
		return d.doc.Pages[i].Title < d.doc.Pages[j].Title
	})
}
