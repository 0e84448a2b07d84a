// Package importer turns spreadsheet rows into validated concept
// pages ready for merging into the wiki. Validation failures are fatal
// per workbook; a broken source file must be fixed, never coerced.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/giellatekno/termwiki/internal/adapter/sheet"
	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/markup"
)

// Collection is the metadata record describing where a batch of
// imported concepts came from.
type Collection struct {
	Name      string            `json:"name"`
	Info      string            `json:"info,omitempty"`
	Owner     string            `json:"owner,omitempty"`
	Languages []domain.Language `json:"languages"`
}

// Result is the output of importing one worksheet: the collection
// record plus its concepts. Serialized as <collection>.result.json, it
// is the interchange file the merge tool consumes.
type Result struct {
	BatchID    string                `json:"batch_id"`
	Collection Collection            `json:"collection"`
	Concepts   []*domain.ConceptPage `json:"concepts"`
}

// Importer converts sheet sources into Results.
type Importer struct {
	log *slog.Logger
}

// New creates an Importer.
func New(logger *slog.Logger) *Importer {
	return &Importer{log: logger.With("service", "importer")}
}

// Import converts every worksheet of a source into a Result. Every
// Result of one run carries the same batch id, tying its file to the
// run's log lines.
func (i *Importer) Import(src *sheet.Source) ([]Result, error) {
	tmpl := src.Template()
	batchID := uuid.NewString()

	var results []Result
	for _, entry := range tmpl.Sheets {
		rows, err := src.Rows(entry)
		if err != nil {
			return nil, fmt.Errorf("importer: %w", err)
		}

		collection := Collection{
			Name:  "Collection:" + entry.Template.Collection,
			Info:  tmpl.Info,
			Owner: tmpl.Owner,
		}
		for _, lang := range entry.Template.Languages() {
			collection.Languages = append(collection.Languages, domain.Language(lang))
		}

		var concepts []*domain.ConceptPage
		for _, row := range rows {
			page, err := rowToConcept(entry.Template, row)
			if err != nil {
				return nil, fmt.Errorf("importer: sheet %q row %d: %w",
					entry.SheetName, row.Number, err)
			}
			if page.IsOrphan() {
				i.log.Warn("row has no expressions, skipped",
					slog.String("sheet", entry.SheetName),
					slog.Int("row", row.Number))
				continue
			}
			concepts = append(concepts, page)
		}

		i.log.Info("imported sheet",
			slog.String("sheet", entry.SheetName),
			slog.String("collection", collection.Name),
			slog.Int("concepts", len(concepts)))
		results = append(results, Result{BatchID: batchID, Collection: collection, Concepts: concepts})
	}
	return results, nil
}

// rowToConcept builds one concept page from a resolved row. Records
// with an empty expression cell are dropped; everything else must
// validate.
func rowToConcept(mapping sheet.Mapping, row sheet.Row) (*domain.ConceptPage, error) {
	page := &domain.ConceptPage{
		Title: fmt.Sprintf("%s:%s_%d", mapping.MainCategory, mapping.Collection, row.Number),
		Concept: &domain.Concept{
			Collection:   []string{"Collection:" + mapping.Collection},
			MainCategory: mapping.MainCategory,
		},
	}

	for _, record := range row.RelatedExpressions {
		if record["expression"] == "" {
			continue
		}
		page.RelatedExpressions = append(page.RelatedExpressions, domain.RelatedExpression{
			Language:   domain.Language(record["language"]),
			Expression: record["expression"],
			Pos:        domain.PartOfSpeech(record["pos"]),
			Status:     domain.Status(record["status"]),
			Note:       record["note"],
			Source:     record["source"],
			Inflection: record["inflection"],
			Country:    record["country"],
			Dialect:    record["dialect"],
			Sanctioned: record["sanctioned"],
		})
	}

	for _, record := range row.ConceptInfos {
		info := domain.ConceptInfo{
			Language:    domain.Language(record["language"]),
			Definition:  record["definition"],
			Explanation: record["explanation"],
			MoreInfo:    record["more_info"],
		}
		if info.Definition == "" && info.Explanation == "" && info.MoreInfo == "" {
			continue
		}
		page.ConceptInfos = append(page.ConceptInfos, info)
	}

	markup.Clean(page)
	if err := markup.Validate(page); err != nil {
		return nil, err
	}
	return page, nil
}

// ResultFileName is the conventional output name for a collection's
// result file.
func ResultFileName(collectionName string) string {
	name := strings.TrimPrefix(collectionName, "Collection:")
	return strings.ReplaceAll(name, " ", "_") + ".result.json"
}

// WriteResult serializes one Result as indented JSON.
func WriteResult(w io.Writer, result Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("importer: encode result: %w", err)
	}
	return nil
}

// ReadResult parses a result file.
func ReadResult(r io.Reader) (Result, error) {
	var result Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("importer: decode result: %w", err)
	}
	return result, nil
}
