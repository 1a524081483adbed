package criteria

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat := Default()
	require.NotEmpty(t, cat.Criteria)
	assert.Greater(t, cat.RuleCount(), 5)

	first := cat.Criteria[0]
	require.NotEmpty(t, first.FieldTypes)
	assert.Equal(t, "texto", first.FieldTypes[0].Name)
	assert.Equal(t, "lista desplegable", first.FieldTypes[len(first.FieldTypes)-1].Name)
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
criteria:
  - category: Seguridad
    rules:
      - La sesión expira a los 30 minutos
    field_types:
      password: Mínimo 8 caracteres
      token: Solo lectura
`)
	cat, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, cat.Criteria, 1)
	assert.Equal(t, "Seguridad", cat.Criteria[0].Category)
	assert.Equal(t, FieldTypeList{{"password", "Mínimo 8 caracteres"}, {"token", "Solo lectura"}}, cat.Criteria[0].FieldTypes)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := map[string]string{
		"missing criteria": `{"rules": []}`,
		"missing rules":    `{"criteria": [{"category": "A"}]}`,
		"rule not string":  `{"criteria": [{"category": "A", "rules": [1]}]}`,
		"empty category":   `{"criteria": [{"category": "", "rules": []}]}`,
		"field type value": `{"criteria": [{"category": "A", "rules": [], "field_types": {"x": 2}}]}`,
		"not a document":   `[`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"criteria":[{"category":"A","rules":["r1"]}]}`), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.RuleCount())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	def, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().RuleCount(), def.RuleCount())
}

func TestExistingLines(t *testing.T) {
	plain := "- uno\n* dos\n\n   \n• tres\n– cuatro\n--  cinco  \nseis"
	assert.Equal(t, []string{"uno", "dos", "tres", "cuatro", "cinco", "seis"}, ExistingLines(plain))
	assert.Empty(t, ExistingLines(""))
}

func TestDiffExcludesExactMatchesOnly(t *testing.T) {
	cat := Catalog{Criteria: []Category{
		{Category: "A", Rules: []string{"Rule one", "Rule two"}},
		{Category: "B", Rules: []string{"Rule three"}},
		{Category: "C", Rules: []string{"Rule four"}, FieldTypes: FieldTypeList{{"texto", "libre"}}},
	}}
	existing := "- Rule one\n- rule two\n* Rule three\n- Rule four"

	got := Diff(existing, cat)
	want := Catalog{Criteria: []Category{
		{Category: "A", Rules: []string{"Rule two"}},
		{Category: "C", FieldTypes: FieldTypeList{{"texto", "libre"}}},
	}}
	assert.Equal(t, want, got)
}

func TestDiffWithoutExistingKeepsEverything(t *testing.T) {
	cat := Default()
	got := Diff("", cat)
	assert.Equal(t, cat.RuleCount(), got.RuleCount())
	assert.False(t, got.IsEmpty())
	assert.True(t, Diff("x", Catalog{}).IsEmpty())
}
