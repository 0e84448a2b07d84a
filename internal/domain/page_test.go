package domain

import (
	"reflect"
	"testing"
)

func samplePage() *ConceptPage {
	return &ConceptPage{
		Title: "Luonddudieđa ja matematihkka:guolli",
		Concept: &Concept{
			Collection: []string{"Collection:Example coll"},
		},
		ConceptInfos: []ConceptInfo{
			{Language: LanguageSe, Definition: "guollelágan ealli"},
			{Language: LanguageNb, Definition: "fisk"},
		},
		RelatedExpressions: []RelatedExpression{
			{Language: LanguageSe, Expression: "guolli", Pos: PosNoun, Sanctioned: SanctionedTrue},
			{Language: LanguageNb, Expression: "fisk", Pos: PosNoun, Sanctioned: SanctionedFalse},
		},
	}
}

func TestConceptPage_Category(t *testing.T) {
	t.Parallel()

	page := samplePage()
	if got := page.Category(); got != "Luonddudieđa ja matematihkka" {
		t.Errorf("Category() = %q", got)
	}

	noColon := &ConceptPage{Title: "guolli"}
	if got := noColon.Category(); got != "" {
		t.Errorf("Category() on colonless title = %q, want empty", got)
	}
}

func TestConceptPage_IsOrphan(t *testing.T) {
	t.Parallel()

	if samplePage().IsOrphan() {
		t.Error("page with expressions reported as orphan")
	}
	empty := &ConceptPage{Title: "Servodatdieđa:x"}
	if !empty.IsOrphan() {
		t.Error("page without expressions not reported as orphan")
	}
}

func TestConceptPage_Languages(t *testing.T) {
	t.Parallel()

	page := samplePage()
	page.RelatedExpressions = append(page.RelatedExpressions,
		RelatedExpression{Language: LanguageSma, Expression: "guelie", Sanctioned: SanctionedFalse})

	want := []Language{LanguageNb, LanguageSe, LanguageSma}
	if got := page.Languages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Languages() = %v, want %v", got, want)
	}
}

func TestConceptPage_ConceptInfoFor(t *testing.T) {
	t.Parallel()

	page := samplePage()
	info := page.ConceptInfoFor(LanguageNb)
	if info == nil || info.Definition != "fisk" {
		t.Fatalf("ConceptInfoFor(nb) = %+v", info)
	}
	if page.ConceptInfoFor(LanguageFi) != nil {
		t.Error("ConceptInfoFor(fi) should be nil")
	}
}

func TestConceptPage_HasSanctionedSami(t *testing.T) {
	t.Parallel()

	page := samplePage()
	if !page.HasSanctionedSami() {
		t.Error("sanctioned se expression should count")
	}

	page.RelatedExpressions[0].Sanctioned = SanctionedFalse
	if page.HasSanctionedSami() {
		t.Error("no sanctioned Sámi expressions left")
	}

	// A sanctioned non-Sámi expression does not count.
	page.RelatedExpressions[1].Sanctioned = SanctionedTrue
	if page.HasSanctionedSami() {
		t.Error("sanctioned nb expression should not count")
	}
}

func TestConceptPage_InvalidExpressions(t *testing.T) {
	t.Parallel()

	page := &ConceptPage{
		Title: "Guolástus:x",
		RelatedExpressions: []RelatedExpression{
			{Language: LanguageSe, Expression: "guolli (nomen)", Sanctioned: SanctionedTrue},
			{Language: LanguageSe, Expression: "guolli", Sanctioned: SanctionedTrue},
			{Language: LanguageSe, Expression: "dearbmi?", Sanctioned: SanctionedFalse},
		},
	}

	got := page.InvalidExpressions(LanguageSe, SanctionedTrue)
	if !reflect.DeepEqual(got, []string{"guolli (nomen)"}) {
		t.Errorf("InvalidExpressions(se, True) = %v", got)
	}

	got = page.InvalidExpressions(LanguageSe, SanctionedFalse)
	if !reflect.DeepEqual(got, []string{"dearbmi?"}) {
		t.Errorf("InvalidExpressions(se, False) = %v", got)
	}
}

type fakeAnalyser struct {
	known map[string]bool
}

func (f fakeAnalyser) IsKnown(_ Language, word string) bool { return f.known[word] }

func TestConceptPage_AutoSanction(t *testing.T) {
	t.Parallel()

	page := &ConceptPage{
		Title: "Guolástus:x",
		RelatedExpressions: []RelatedExpression{
			{Language: LanguageSe, Expression: "guolli", Sanctioned: SanctionedFalse},
			{Language: LanguageSe, Expression: "guollit ja guolit", Sanctioned: SanctionedFalse},
			{Language: LanguageNb, Expression: "fisk", Sanctioned: SanctionedFalse},
		},
	}
	analyser := fakeAnalyser{known: map[string]bool{"guolli": true, "fisk": true}}

	changed := page.AutoSanction(analyser, LanguageSe)
	if !changed {
		t.Fatal("AutoSanction should report a change")
	}
	if page.RelatedExpressions[0].Sanctioned != SanctionedTrue {
		t.Error("known se expression should be sanctioned")
	}
	if page.RelatedExpressions[1].Sanctioned != SanctionedFalse {
		t.Error("unknown se expression should stay unsanctioned")
	}
	if page.RelatedExpressions[2].Sanctioned != SanctionedFalse {
		t.Error("nb expression should not be touched when sanctioning se")
	}

	// Second run changes nothing.
	if page.AutoSanction(analyser, LanguageSe) {
		t.Error("second AutoSanction run should be a no-op")
	}
}

func TestConceptPage_Clone(t *testing.T) {
	t.Parallel()

	page := samplePage()
	clone := page.Clone()

	if !reflect.DeepEqual(page, clone) {
		t.Fatal("clone differs from original")
	}

	clone.RelatedExpressions[0].Sanctioned = SanctionedFalse
	clone.Concept.Collection[0] = "Collection:Other"
	if page.RelatedExpressions[0].Sanctioned != SanctionedTrue {
		t.Error("mutating the clone leaked into the original expressions")
	}
	if page.Concept.Collection[0] != "Collection:Example coll" {
		t.Error("mutating the clone leaked into the original collection")
	}
}
