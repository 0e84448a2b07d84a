// Package markup parses and renders the wiki's concept-page template
// markup and applies the cleanup rules every page goes through before
// write-back.
package markup

import (
	"sort"
	"strings"

	"github.com/giellatekno/termwiki/internal/domain"
)

// collectionPrefix is the namespace every collection name carries.
const collectionPrefix = "Collection:"

// collectionDelimiter separates collection names inside the template
// field. Commas and semicolons occur inside collection names, so the
// field uses a multi-character delimiter instead.
const collectionDelimiter = "@@"

// Field emission order per block kind. Rendering follows these lists;
// fields absent from a record are omitted entirely.
var (
	conceptInfoFields = []string{"language", "definition", "explanation", "more_info"}
	expressionFields  = []string{
		"language", "expression", "pos", "status", "note", "source",
		"inflection", "country", "dialect", "sanctioned",
	}
	relatedConceptFields = []string{"concept", "relation"}
	conceptFields        = []string{"collection", "category", "main_category", "sources", "page_id"}
)

// junkFieldPrefixes marks legacy fields dropped on sight while reading
// a semantic form.
var junkFieldPrefixes = []string{
	"|reviewed=",
	"|reviewed_",
	"|is_typo",
	"|has_illegal_char",
	"|in_header",
	"|no picture",
}

// ensureCollectionPrefix adds the collection namespace when missing.
func ensureCollectionPrefix(name string) string {
	if strings.Contains(name, collectionPrefix) {
		return name
	}
	return collectionPrefix + name
}

// normalizeCollection prefixes, dedupes and sorts a collection set.
func normalizeCollection(names []string) []string {
	if names == nil {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = ensureCollectionPrefix(strings.TrimSpace(name))
		if name == collectionPrefix || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// validateConceptInfo coerces a raw Concept info form into its typed
// record.
func validateConceptInfo(form *rawForm) (domain.ConceptInfo, error) {
	lang := domain.Language(form.get("language"))
	if lang == "" {
		return domain.ConceptInfo{}, domain.NewValidationError("language", "missing in Concept info")
	}
	if !lang.IsValid() {
		return domain.ConceptInfo{}, domain.NewEnumError("language", lang.String(), domain.Languages())
	}
	return domain.ConceptInfo{
		Language:    lang,
		Definition:  form.get("definition"),
		Explanation: form.get("explanation"),
		MoreInfo:    form.get("more_info"),
	}, nil
}

// validateExpression coerces a raw Related expression form into its
// typed record. The form has already been through raw-level legacy
// cleanup, so sanctioned is "True"/"False" and pos aliases are gone.
func validateExpression(form *rawForm) (domain.RelatedExpression, error) {
	lang := domain.Language(form.get("language"))
	if lang == "" {
		return domain.RelatedExpression{}, domain.NewValidationError("language", "missing in Related expression")
	}
	if !lang.IsValid() {
		return domain.RelatedExpression{}, domain.NewEnumError("language", lang.String(), domain.Languages())
	}

	expression := form.get("expression")
	if expression == "" {
		return domain.RelatedExpression{}, domain.NewValidationError("expression", "missing in Related expression")
	}

	pos := domain.PartOfSpeech(form.get("pos"))
	if pos != "" && !pos.IsValid() {
		return domain.RelatedExpression{}, domain.NewEnumError("pos", pos.String(), domain.PartsOfSpeech())
	}

	status := domain.Status(form.get("status"))
	if status != "" && !status.IsValid() {
		return domain.RelatedExpression{}, domain.NewEnumError("status", status.String(), domain.Statuses())
	}

	sanctioned := form.get("sanctioned")
	if sanctioned != domain.SanctionedTrue && sanctioned != domain.SanctionedFalse {
		return domain.RelatedExpression{}, domain.NewValidationError("sanctioned",
			"must be True or False, got "+sanctioned)
	}

	return domain.RelatedExpression{
		Language:   lang,
		Expression: expression,
		Pos:        pos,
		Status:     status,
		Note:       form.get("note"),
		Source:     form.get("source"),
		Inflection: form.get("inflection"),
		Country:    form.get("country"),
		Dialect:    form.get("dialect"),
		Sanctioned: sanctioned,
	}, nil
}

// validateRelatedConcept coerces a raw Related concept form into its
// typed record. A missing relation defaults to "unspecified".
func validateRelatedConcept(form *rawForm) (domain.RelatedConcept, error) {
	concept := form.get("concept")
	if concept == "" {
		return domain.RelatedConcept{}, domain.NewValidationError("concept", "missing in Related concept")
	}

	relation := domain.Relation(form.get("relation"))
	if relation == "" {
		relation = domain.RelationUnspecified
	}
	if !relation.IsValid() {
		return domain.RelatedConcept{}, domain.NewEnumError("relation", relation.String(), domain.Relations())
	}

	return domain.RelatedConcept{Concept: concept, Relation: relation}, nil
}

// validateConcept coerces the raw Concept form into its typed record.
// Returns nil when the form carries nothing.
func validateConcept(form *rawForm, collection []string) *domain.Concept {
	concept := &domain.Concept{
		Collection:   collection,
		Category:     form.get("category"),
		MainCategory: form.get("main_category"),
		Sources:      form.get("sources"),
		PageID:       form.get("page_id"),
	}
	if concept.Collection == nil && concept.Category == "" && concept.MainCategory == "" &&
		concept.Sources == "" && concept.PageID == "" {
		return nil
	}
	return concept
}

// Validate re-checks an assembled page against the schema. The merge
// engine runs its result through this before accepting it.
func Validate(page *domain.ConceptPage) error {
	var errs []domain.FieldError

	seen := make(map[domain.Language]bool)
	for _, info := range page.ConceptInfos {
		if !info.Language.IsValid() {
			errs = append(errs, domain.FieldError{Field: "language",
				Message: "unknown value " + info.Language.String()})
		}
		if seen[info.Language] {
			errs = append(errs, domain.FieldError{Field: "language",
				Message: "duplicate concept info for " + info.Language.String()})
		}
		seen[info.Language] = true
	}

	for _, expr := range page.RelatedExpressions {
		if !expr.Language.IsValid() {
			errs = append(errs, domain.FieldError{Field: "language",
				Message: "unknown value " + expr.Language.String()})
		}
		if expr.Expression == "" {
			errs = append(errs, domain.FieldError{Field: "expression", Message: "missing"})
		}
		if expr.Pos != "" && !expr.Pos.IsValid() {
			errs = append(errs, domain.FieldError{Field: "pos",
				Message: "unknown value " + expr.Pos.String()})
		}
		if expr.Status != "" && !expr.Status.IsValid() {
			errs = append(errs, domain.FieldError{Field: "status",
				Message: "unknown value " + expr.Status.String()})
		}
		if expr.Sanctioned != domain.SanctionedTrue && expr.Sanctioned != domain.SanctionedFalse {
			errs = append(errs, domain.FieldError{Field: "sanctioned",
				Message: "must be True or False, got " + expr.Sanctioned})
		}
	}

	for _, rel := range page.RelatedConcepts {
		if rel.Concept == "" {
			errs = append(errs, domain.FieldError{Field: "concept", Message: "missing"})
		}
		if !rel.Relation.IsValid() {
			errs = append(errs, domain.FieldError{Field: "relation",
				Message: "unknown value " + rel.Relation.String()})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
