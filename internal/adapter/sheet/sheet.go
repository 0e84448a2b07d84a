// Package sheet is the spreadsheet source adapter. A workbook arrives
// together with a sibling <name>.template.json describing, per sheet,
// which column feeds which field; the adapter resolves that mapping
// into raw row records for the importer to validate.
package sheet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Template is the declarative mapping file shipped next to the
// workbook.
type Template struct {
	Info   string       `json:"info"`
	Owner  string       `json:"owner"`
	Sheets []SheetEntry `json:"sheets"`
}

// SheetEntry maps one worksheet to its field layout.
type SheetEntry struct {
	SheetName string  `json:"sheetname"`
	Template  Mapping `json:"template"`
}

// Mapping describes how a worksheet's columns become concept fields.
type Mapping struct {
	Collection         string         `json:"collection"`
	MainCategory       string         `json:"main_category"`
	RelatedExpressions []FieldMapping `json:"related_expressions"`
	ConceptInfos       []FieldMapping `json:"concept_infos"`
}

// FieldMapping maps field names to either a 1-based column number
// (the value is read from that cell) or a string literal (the value
// is the same for every row, e.g. language or sanctioned).
type FieldMapping map[string]any

// Languages returns the distinct expression languages the mapping
// produces, in template order.
func (m Mapping) Languages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, fm := range m.RelatedExpressions {
		lang, ok := fm["language"].(string)
		if ok && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	return langs
}

// Row is one resolved spreadsheet row. Numbers are 1-based worksheet
// rows so error messages point at the cell the user can see.
type Row struct {
	Number             int
	RelatedExpressions []map[string]string
	ConceptInfos       []map[string]string
}

// Source is an opened workbook plus its template.
type Source struct {
	file *excelize.File
	tmpl Template
}

// TemplatePath returns the mapping file belonging to a workbook:
// terms.xlsx → terms.template.json.
func TemplatePath(workbookPath string) string {
	ext := filepath.Ext(workbookPath)
	return strings.TrimSuffix(workbookPath, ext) + ".template.json"
}

// Open reads the workbook at path and its sibling template file.
func Open(path string) (*Source, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", path, err)
	}

	data, err := os.ReadFile(TemplatePath(path))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("sheet: read template: %w", err)
	}

	var tmpl Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		file.Close()
		return nil, fmt.Errorf("sheet: parse template %s: %w", TemplatePath(path), err)
	}

	return &Source{file: file, tmpl: tmpl}, nil
}

// Close releases the underlying workbook.
func (s *Source) Close() error { return s.file.Close() }

// Template returns the parsed mapping file.
func (s *Source) Template() Template { return s.tmpl }

// Rows resolves every data row of one worksheet against its mapping.
// Row 1 is the header and is skipped.
func (s *Source) Rows(entry SheetEntry) ([]Row, error) {
	cells, err := s.file.GetRows(entry.SheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet: read %q: %w", entry.SheetName, err)
	}

	var rows []Row
	for i := 1; i < len(cells); i++ {
		number := i + 1
		rows = append(rows, Row{
			Number:             number,
			RelatedExpressions: resolveAll(entry.Template.RelatedExpressions, cells[i]),
			ConceptInfos:       resolveAll(entry.Template.ConceptInfos, cells[i]),
		})
	}
	return rows, nil
}

func resolveAll(mappings []FieldMapping, cells []string) []map[string]string {
	var out []map[string]string
	for _, fm := range mappings {
		out = append(out, resolve(fm, cells))
	}
	return out
}

// resolve fills one record from a row: numeric mapping values index
// into the row's cells, string values pass through as literals.
// Expressions are lowercased; the wiki stores them in lowercase.
func resolve(fm FieldMapping, cells []string) map[string]string {
	record := make(map[string]string, len(fm))
	for key, value := range fm {
		var text string
		switch v := value.(type) {
		case float64:
			text = cellAt(cells, int(v))
		case string:
			text = v
		default:
			continue
		}
		if key == "expression" {
			text = strings.ToLower(text)
		}
		record[key] = text
	}
	return record
}

// cellAt returns the 1-based column's value; excelize trims trailing
// empty cells so short rows are expected.
func cellAt(cells []string, column int) string {
	if column < 1 || column > len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[column-1])
}
