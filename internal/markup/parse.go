package markup

import (
	"fmt"
	"strings"

	"github.com/giellatekno/termwiki/internal/domain"
)

// Template block markers. "Related expression" also appears with an
// underscore in old pages.
const (
	openConceptInfo          = "{{Concept info"
	openConcept              = "{{Concept"
	openRelatedExpression    = "{{Related expression"
	openRelatedExpressionAlt = "{{Related_expression"
	openRelated              = "{{Related"
	closeTemplate            = "}}"
)

// rawForm is an intermediate string-keyed form read from one template
// block. Insertion order is preserved so continuation lines can attach
// to the most recently read field.
type rawForm struct {
	keys   []string
	values map[string]string
}

func newRawForm() *rawForm {
	return &rawForm{values: make(map[string]string)}
}

func (f *rawForm) set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// appendLine joins a continuation line onto an existing field value.
func (f *rawForm) appendLine(key, line string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = f.values[key] + "\n" + line
	f.values[key] = strings.TrimPrefix(f.values[key], "\n")
}

func (f *rawForm) get(key string) string { return f.values[key] }

func (f *rawForm) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *rawForm) delete(key string) {
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// Parse converts the raw text of one wiki page into a ConceptPage.
// The text is consumed in a single forward pass. Unknown template
// blocks are skipped; a page with no recognized blocks parses to a
// valid empty ConceptPage. Enumerated-field violations surface as a
// ValidationError wrapped with the page title.
func Parse(title, text string) (*domain.ConceptPage, error) {
	page, err := parse(title, text)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", title, err)
	}
	return page, nil
}

func parse(title, text string) (*domain.ConceptPage, error) {
	// Non-breaking spaces sneak in from copy-paste; treat them as
	// plain spaces everywhere.
	lines := strings.Split(strings.ReplaceAll(text, " ", " "), "\n")

	var (
		conceptForm     = newRawForm()
		infoForms       []*rawForm
		expressionForms []*rawForm
		relatedForms    []*rawForm
		collection      []string
	)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if isEmptyTemplate(line) {
			continue
		}

		switch {
		case strings.HasPrefix(line, openConceptInfo):
			infoForms = append(infoForms, readSemanticForm(lines, &i))

		case strings.HasPrefix(line, openConcept):
			conceptForm = readSemanticForm(lines, &i)
			collection = cleanupConcept(conceptForm)

		case strings.HasPrefix(line, openRelatedExpression) || strings.HasPrefix(line, openRelatedExpressionAlt):
			form := readSemanticForm(lines, &i)
			if collection = cleanupExpression(form, collection); form.has("expression") {
				expressionForms = append(expressionForms, form)
			}

		case strings.HasPrefix(line, openRelated):
			relatedForms = append(relatedForms, readSemanticForm(lines, &i))
		}
	}

	// Old pages carry per-language descriptive fields directly on the
	// Concept block (definition_se, explanation_nb, ...). Migrate them
	// into concept infos.
	infoForms = append(infoForms, migrateConceptLanguageFields(conceptForm)...)

	page := &domain.ConceptPage{Title: title}

	for _, form := range infoForms {
		info, err := validateConceptInfo(form)
		if err != nil {
			return nil, err
		}
		page.ConceptInfos = append(page.ConceptInfos, info)
	}

	for _, form := range expressionForms {
		expr, err := validateExpression(form)
		if err != nil {
			return nil, err
		}
		page.RelatedExpressions = append(page.RelatedExpressions, expr)
	}

	for _, form := range relatedForms {
		rel, err := validateRelatedConcept(form)
		if err != nil {
			return nil, err
		}
		page.RelatedConcepts = append(page.RelatedConcepts, rel)
	}

	page.Concept = validateConcept(conceptForm, normalizeCollection(collection))

	return page, nil
}

// readSemanticForm reads one template block into a raw form, starting
// after the opener at lines[*i] and consuming up to the terminator.
// Field lines are "|key=value"; a value-less field line records the
// key without a value; any other line continues the previous field,
// joined by a newline with its ends trimmed.
func readSemanticForm(lines []string, i *int) *rawForm {
	form := newRawForm()
	lastKey := ""

	for *i++; *i < len(lines); *i++ {
		line := lines[*i]
		if strings.TrimSpace(line) == closeTemplate {
			return form
		}

		if isJunkField(line) {
			lastKey = ""
			continue
		}

		if strings.HasPrefix(line, "|") {
			eq := strings.Index(line, "=")
			if eq < 0 {
				continue
			}
			lastKey = line[1:eq]
			if value := line[eq+1:]; value != "" {
				form.set(lastKey, strings.TrimSpace(value))
			}
			continue
		}

		if lastKey != "" {
			form.appendLine(lastKey, strings.TrimSpace(line))
		}
	}
	return form
}

func isEmptyTemplate(line string) bool {
	return line == "{{Related expression}}" ||
		line == "{{Concept info}}" ||
		line == "{{Concept}}"
}

func isJunkField(line string) bool {
	for _, prefix := range junkFieldPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// cleanupConcept applies raw-level legacy fixes to the Concept form
// and extracts its collection set.
func cleanupConcept(form *rawForm) []string {
	form.delete("language")

	if !form.has("collection") {
		return nil
	}
	var collection []string
	for _, name := range strings.Split(form.get("collection"), collectionDelimiter) {
		collection = append(collection, strings.TrimSpace(name))
	}
	form.delete("collection")
	return collection
}

// cleanupExpression applies raw-level legacy fixes to a Related
// expression form: whitespace collapsing, sanctioned normalization,
// the multi-word pos rule, pos alias rewriting, per-language character
// substitution, and migration of a stray collection field up to the
// concept. Returns the possibly extended collection set.
func cleanupExpression(form *rawForm, collection []string) []string {
	if !form.has("expression") {
		return collection
	}

	lang := domain.Language(form.get("language"))
	expression := domain.NormalizeExpression(lang, form.get("expression"))
	if expression == "" {
		form.delete("expression")
		return collection
	}
	form.set("expression", expression)

	switch form.get("sanctioned") {
	case "Yes", domain.SanctionedTrue:
		form.set("sanctioned", domain.SanctionedTrue)
	default:
		form.set("sanctioned", domain.SanctionedFalse)
	}

	if strings.Contains(expression, " ") {
		form.set("pos", domain.PosMWE.String())
	}

	if form.has("collection") {
		collection = append(collection, strings.ReplaceAll(form.get("collection"), "_", " "))
		form.delete("collection")
	}

	switch form.get("pos") {
	case "A/N", "N/A", "xxx":
		form.delete("pos")
	case "mwe", "a", "n", "v":
		form.set("pos", strings.ToUpper(form.get("pos")))
	case "Adj":
		form.set("pos", domain.PosAdjective.String())
	}

	return collection
}

// migrateConceptLanguageFields moves "<field>_<lang>" keys off the
// Concept form into one raw concept-info form per language.
func migrateConceptLanguageFields(conceptForm *rawForm) []*rawForm {
	perLang := make(map[domain.Language]*rawForm)
	var order []domain.Language

	for _, key := range append([]string(nil), conceptForm.keys...) {
		under := strings.LastIndex(key, "_")
		if under <= 0 {
			continue
		}
		lang := domain.Language(key[under+1:])
		if !lang.IsValid() {
			continue
		}
		form, ok := perLang[lang]
		if !ok {
			form = newRawForm()
			form.set("language", lang.String())
			perLang[lang] = form
			order = append(order, lang)
		}
		form.set(key[:under], conceptForm.get(key))
		conceptForm.delete(key)
	}

	forms := make([]*rawForm, 0, len(order))
	for _, lang := range order {
		forms = append(forms, perLang[lang])
	}
	return forms
}
