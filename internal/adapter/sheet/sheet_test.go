package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleTemplate = `{
  "info": "Fishing terms gathered in 2019",
  "owner": "Mearrasámi dokumentašuvdnaguovddáš",
  "sheets": [
    {
      "sheetname": "Terms",
      "template": {
        "collection": "Example coll",
        "main_category": "Guolástus",
        "related_expressions": [
          {"expression": 1, "language": "se", "sanctioned": "True", "pos": 3},
          {"expression": 2, "language": "nb", "sanctioned": "False"}
        ],
        "concept_infos": [
          {"language": "se", "definition": 4}
        ]
      }
    }
  ]
}`

func writeWorkbook(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "terms.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Terms"))
	cells := map[string]string{
		"A1": "se", "B1": "nb", "C1": "pos", "D1": "definition",
		"A2": "GUOLLI", "B2": "fisk", "C2": "N", "D2": "ealli mii eallá čázis",
		"A3": "dorski", "B3": "torsk", "C3": "N",
	}
	for cell, value := range cells {
		require.NoError(t, f.SetCellValue("Terms", cell, value))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	require.NoError(t, os.WriteFile(TemplatePath(path), []byte(sampleTemplate), 0o600))
	return path
}

func TestTemplatePath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/data/terms.template.json", TemplatePath("/data/terms.xlsx"))
}

func TestOpen_ParsesTemplate(t *testing.T) {
	t.Parallel()

	src, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer src.Close()

	tmpl := src.Template()
	assert.Equal(t, "Mearrasámi dokumentašuvdnaguovddáš", tmpl.Owner)
	require.Len(t, tmpl.Sheets, 1)
	assert.Equal(t, "Terms", tmpl.Sheets[0].SheetName)
	assert.Equal(t, "Example coll", tmpl.Sheets[0].Template.Collection)
}

func TestOpen_MissingTemplate(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t)
	require.NoError(t, os.Remove(TemplatePath(path)))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestRows_ResolvesMapping(t *testing.T) {
	t.Parallel()

	src, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer src.Close()

	rows, err := src.Rows(src.Template().Sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 2, "header row is skipped")

	first := rows[0]
	assert.Equal(t, 2, first.Number)
	require.Len(t, first.RelatedExpressions, 2)
	assert.Equal(t, map[string]string{
		"expression": "guolli", "language": "se", "sanctioned": "True", "pos": "N",
	}, first.RelatedExpressions[0], "expressions are lowercased")
	assert.Equal(t, map[string]string{
		"expression": "fisk", "language": "nb", "sanctioned": "False",
	}, first.RelatedExpressions[1])
	require.Len(t, first.ConceptInfos, 1)
	assert.Equal(t, map[string]string{
		"language": "se", "definition": "ealli mii eallá čázis",
	}, first.ConceptInfos[0])

	second := rows[1]
	assert.Equal(t, 3, second.Number)
	assert.Equal(t, "", second.ConceptInfos[0]["definition"],
		"cell beyond the row's last value resolves to empty")
}

func TestMapping_Languages(t *testing.T) {
	t.Parallel()

	m := Mapping{RelatedExpressions: []FieldMapping{
		{"language": "se"},
		{"language": "nb"},
		{"language": "se"},
	}}
	assert.Equal(t, []string{"se", "nb"}, m.Languages())
}
