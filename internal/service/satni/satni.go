// Package satni maps concept pages to the export tree the downstream
// search system consumes: sanctioned terms only, grouped per language,
// languages translated to ISO 639-3.
package satni

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/giellatekno/termwiki/internal/domain"
)

// FromConceptPage builds the export form of one page. Unsanctioned
// expressions are dropped; languages with no sanctioned expression get
// no entry even if they have a concept info.
func FromConceptPage(page *domain.ConceptPage) domain.SatniConcept {
	concept := domain.SatniConcept{Name: page.Title}
	if page.Concept != nil {
		concept.Collections = page.Concept.Collection
	}

	// Group terms per language, preserving first-seen language order.
	var order []domain.Language
	byLang := make(map[domain.Language][]domain.SatniTerm)
	for _, expr := range page.RelatedExpressions {
		if !expr.IsSanctioned() {
			continue
		}
		if _, seen := byLang[expr.Language]; !seen {
			order = append(order, expr.Language)
		}
		byLang[expr.Language] = append(byLang[expr.Language], domain.SatniTerm{
			Status:     string(expr.Status),
			Sanctioned: true,
			Note:       expr.Note,
			Source:     expr.Source,
			Expression: domain.SatniLemma{
				Pos:     string(expr.Pos),
				Lemma:   expr.Expression,
				Country: expr.Country,
				Dialect: expr.Dialect,
			},
		})
	}

	for _, lang := range order {
		lc := domain.SatniLanguageConcept{
			Language: lang.ISOCode(),
			Terms:    byLang[lang],
		}
		if info := page.ConceptInfoFor(lang); info != nil {
			lc.Definition = info.Definition
			lc.Explanation = info.Explanation
		}
		concept.Concepts = append(concept.Concepts, lc)
	}
	return concept
}

// FromConceptPages maps a batch of pages, skipping pages with no
// sanctioned expressions at all.
func FromConceptPages(pages []*domain.ConceptPage) []domain.SatniConcept {
	var out []domain.SatniConcept
	for _, page := range pages {
		concept := FromConceptPage(page)
		if len(concept.Concepts) > 0 {
			out = append(out, concept)
		}
	}
	return out
}

// WriteJSON streams the export tree as a JSON array.
func WriteJSON(w io.Writer, concepts []domain.SatniConcept) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(concepts); err != nil {
		return fmt.Errorf("satni: encode: %w", err)
	}
	return nil
}

// TermStore is the database sink the exporter pushes into.
type TermStore interface {
	UpsertConcept(ctx context.Context, concept domain.SatniConcept) error
}

// Exporter pushes mapped concepts into a TermStore. One concept
// failing is logged and skipped; the batch continues.
type Exporter struct {
	store TermStore
	log   *slog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(store TermStore, logger *slog.Logger) *Exporter {
	return &Exporter{store: store, log: logger.With("service", "satni")}
}

// Export writes every concept to the store and returns the number of
// concepts written.
func (e *Exporter) Export(ctx context.Context, concepts []domain.SatniConcept) (int, error) {
	written := 0
	for _, concept := range concepts {
		if err := e.store.UpsertConcept(ctx, concept); err != nil {
			e.log.ErrorContext(ctx, "upsert failed",
				slog.String("concept", concept.Name),
				slog.String("error", err.Error()))
			continue
		}
		written++
	}
	if written == 0 && len(concepts) > 0 {
		return 0, fmt.Errorf("satni: export: all %d upserts failed", len(concepts))
	}
	return written, nil
}
