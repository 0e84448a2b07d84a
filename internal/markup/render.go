package markup

import (
	"sort"
	"strings"

	"github.com/giellatekno/termwiki/internal/domain"
)

// Render turns a ConceptPage back into template markup. The output is
// deterministic: concept infos sorted by language, related expressions
// in record order, related concepts next, and the Concept block last —
// emitted as a bare "{{Concept}}" when the page has no concept
// metadata, so every page ends with exactly one Concept block.
//
// Fields with empty values are omitted entirely; "|key=" is never
// emitted because an absent field is distinct from an empty one.
func Render(page *domain.ConceptPage) string {
	var b strings.Builder

	renderConceptInfos(&b, page.ConceptInfos)
	renderExpressions(&b, page.RelatedExpressions)
	renderRelatedConcepts(&b, page.RelatedConcepts)
	renderConcept(&b, page.Concept)

	return strings.TrimSuffix(b.String(), "\n")
}

func renderConceptInfos(b *strings.Builder, infos []domain.ConceptInfo) {
	sorted := append([]domain.ConceptInfo(nil), infos...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Language < sorted[j].Language })

	for _, info := range sorted {
		b.WriteString(openConceptInfo + "\n")
		writeField(b, "language", info.Language.String())
		writeField(b, "definition", info.Definition)
		writeField(b, "explanation", info.Explanation)
		writeField(b, "more_info", info.MoreInfo)
		b.WriteString(closeTemplate + "\n")
	}
}

func renderExpressions(b *strings.Builder, expressions []domain.RelatedExpression) {
	for _, expr := range expressions {
		b.WriteString(openRelatedExpression + "\n")
		writeField(b, "language", expr.Language.String())
		writeField(b, "expression", expr.Expression)
		writeField(b, "pos", expr.Pos.String())
		writeField(b, "status", expr.Status.String())
		writeField(b, "note", expr.Note)
		writeField(b, "source", expr.Source)
		writeField(b, "inflection", expr.Inflection)
		writeField(b, "country", expr.Country)
		writeField(b, "dialect", expr.Dialect)
		writeField(b, "sanctioned", expr.Sanctioned)
		b.WriteString(closeTemplate + "\n")
	}
}

func renderRelatedConcepts(b *strings.Builder, related []domain.RelatedConcept) {
	for _, rel := range related {
		b.WriteString("{{Related concept\n")
		writeField(b, "concept", rel.Concept)
		writeField(b, "relation", rel.Relation.String())
		b.WriteString(closeTemplate + "\n")
	}
}

func renderConcept(b *strings.Builder, concept *domain.Concept) {
	if concept == nil || (concept.Collection == nil && concept.Category == "" &&
		concept.MainCategory == "" && concept.Sources == "" && concept.PageID == "") {
		b.WriteString("{{Concept}}\n")
		return
	}

	b.WriteString(openConcept + "\n")
	if concept.Collection != nil {
		names := normalizeCollection(concept.Collection)
		writeField(b, "collection", strings.Join(names, collectionDelimiter+" "))
	}
	writeField(b, "category", concept.Category)
	writeField(b, "main_category", concept.MainCategory)
	writeField(b, "sources", concept.Sources)
	writeField(b, "page_id", concept.PageID)
	b.WriteString(closeTemplate + "\n")
}

func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString("|" + key + "=" + value + "\n")
}
