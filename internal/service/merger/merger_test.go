package merger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giellatekno/termwiki/internal/adapter/dumpfile"
	"github.com/giellatekno/termwiki/internal/domain"
	"github.com/giellatekno/termwiki/internal/service/dumphandler"
	"github.com/giellatekno/termwiki/internal/service/importer"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleDump = `<?xml version="1.0" encoding="UTF-8"?>
<mediawiki>
  <siteinfo><sitename>TermWiki</sitename></siteinfo>
  <page>
    <title>Guolástus:guolli</title>
    <revision>
      <text>{{Concept info
|language=se
|definition=ealli mii eallá čázis
}}
{{Related expression
|language=se
|expression=guolli
|pos=N
|sanctioned=False
}}
{{Concept}}</text>
    </revision>
  </page>
</mediawiki>
`

func loadDump(t *testing.T) *dumpfile.Dump {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terms.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0o600))
	dump, err := dumpfile.Load(path)
	require.NoError(t, err)
	return dump
}

func importedConcept(pos domain.PartOfSpeech) *domain.ConceptPage {
	return &domain.ConceptPage{
		Title:   "Guolástus:Example coll_2",
		Concept: &domain.Concept{Collection: []string{"Collection:Example coll"}},
		RelatedExpressions: []domain.RelatedExpression{
			{
				Language:   domain.LanguageSe,
				Expression: "guolli",
				Pos:        pos,
				Sanctioned: domain.SanctionedTrue,
			},
		},
	}
}

func TestRun_MergesIntoCandidate(t *testing.T) {
	dump := loadDump(t)
	m := New(dump, nil, newTestLogger())

	stats, err := m.Run(importer.Result{Concepts: []*domain.ConceptPage{importedConcept(domain.PosNoun)}})
	require.NoError(t, err)
	assert.Equal(t, Stats{Merged: 1}, stats)

	merged := dumphandler.New(dump, newTestLogger()).Concepts()
	require.Len(t, merged, 1)
	page := merged[0]
	assert.Equal(t, "Guolástus:guolli", page.Title, "dump page keeps its identity")
	assert.Equal(t, []string{"Collection:Example coll"}, page.Concept.Collection)
	require.Len(t, page.RelatedExpressions, 1)
	assert.Equal(t, domain.SanctionedTrue, page.RelatedExpressions[0].Sanctioned,
		"sanction is monotonic")
}

func TestRun_AddsNewPageWhenNoCandidate(t *testing.T) {
	dump := loadDump(t)
	m := New(dump, nil, newTestLogger())

	imported := importedConcept(domain.PosNoun)
	imported.RelatedExpressions[0].Expression = "dorski"
	imported.Title = "Guolástus:Example coll_3"

	stats, err := m.Run(importer.Result{Concepts: []*domain.ConceptPage{imported}})
	require.NoError(t, err)
	assert.Equal(t, Stats{Added: 1}, stats)

	text, err := dump.PageText("Guolástus:Example coll_3")
	require.NoError(t, err)
	assert.Contains(t, text, "|expression=dorski")
}

func TestRun_SuccessiveMergesIntoOnePageCompound(t *testing.T) {
	dump := loadDump(t)
	m := New(dump, nil, newTestLogger())

	first := importedConcept(domain.PosNoun)
	second := importedConcept(domain.PosNoun)
	second.Title = "Guolástus:Example coll_3"
	second.RelatedExpressions[0].Sanctioned = domain.SanctionedFalse
	second.RelatedExpressions[0].Note = "attested in 2019"

	stats, err := m.Run(importer.Result{Concepts: []*domain.ConceptPage{first, second}})
	require.NoError(t, err)
	assert.Equal(t, Stats{Merged: 2}, stats)

	merged := dumphandler.New(dump, newTestLogger()).Concepts()
	require.Len(t, merged, 1)
	require.Len(t, merged[0].RelatedExpressions, 1)
	expr := merged[0].RelatedExpressions[0]
	assert.Equal(t, domain.SanctionedTrue, expr.Sanctioned,
		"sanction granted by the first import survives the second")
	assert.Equal(t, "attested in 2019", expr.Note)
}

func TestRun_PosConflictFailsFastWithoutDecider(t *testing.T) {
	dump := loadDump(t)
	m := New(dump, nil, newTestLogger())

	_, err := m.Run(importer.Result{Concepts: []*domain.ConceptPage{importedConcept(domain.PosVerb)}})
	require.Error(t, err)

	var conflict *domain.PosConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestRun_DeciderResolvesConflict(t *testing.T) {
	dump := loadDump(t)
	decide := TerminalDecider(strings.NewReader("2\n"), io.Discard)
	m := New(dump, decide, newTestLogger())

	stats, err := m.Run(importer.Result{Concepts: []*domain.ConceptPage{importedConcept(domain.PosVerb)}})
	require.NoError(t, err)
	assert.Equal(t, Stats{Merged: 1}, stats)

	merged := dumphandler.New(dump, newTestLogger()).Concepts()
	assert.Equal(t, domain.PosVerb, merged[0].RelatedExpressions[0].Pos,
		"N and V sort to N, V; answer 2 picks V")
}

func TestTerminalDecider(t *testing.T) {
	var out bytes.Buffer
	decide := TerminalDecider(strings.NewReader("V\n"), &out)

	tag, err := decide("Guolástus:guolli", []domain.PartOfSpeech{domain.PosVerb, domain.PosNoun})
	require.NoError(t, err)
	assert.Equal(t, domain.PosVerb, tag)
	assert.Contains(t, out.String(), "conflicting pos tags")
	assert.Contains(t, out.String(), "1) N")
}

func TestTerminalDecider_ExhaustedInputIsAnError(t *testing.T) {
	decide := TerminalDecider(strings.NewReader(""), io.Discard)

	_, err := decide("Guolástus:guolli", []domain.PartOfSpeech{domain.PosVerb, domain.PosNoun})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
