package markup

import (
	"strings"

	"github.com/giellatekno/termwiki/internal/domain"
)

// Clean normalizes a page in place before any write-back. It is a pure
// function of the page (no external lookups) and idempotent: cleaning
// twice equals cleaning once.
//
// Rules, applied independently per entity:
//   - expression text is whitespace-collapsed and run through the
//     language's character substitution table;
//   - an expression containing a space is forced to pos MWE, whatever
//     was recorded before;
//   - every collection name gets the Collection: prefix when missing.
func Clean(page *domain.ConceptPage) {
	for i := range page.RelatedExpressions {
		expr := &page.RelatedExpressions[i]
		expr.Expression = domain.NormalizeExpression(expr.Language, expr.Expression)
		if strings.Contains(expr.Expression, " ") {
			expr.Pos = domain.PosMWE
		}
		if expr.Sanctioned == "" {
			expr.Sanctioned = domain.SanctionedFalse
		}
	}

	if page.Concept != nil && page.Concept.Collection != nil {
		page.Concept.Collection = normalizeCollection(page.Concept.Collection)
	}
}
