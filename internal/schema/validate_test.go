package schema_test

import (
	"testing"

	"news-etl/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsTable() *schema.Table {
	return &schema.Table{
		Name: "news",
		Columns: []*schema.Column{
			{Name: "article_link", Kind: schema.KindString, IsPK: true},
			{Name: "title", Kind: schema.KindString},
			{Name: "author", Kind: schema.KindString},
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, schema.Validate(newsTable()))
	for _, def := range schema.Builtin() {
		assert.NoError(t, schema.Validate(def), def.Name)
	}

	bad := map[string]*schema.Table{
		"nil":          nil,
		"no columns":   {Name: "news"},
		"bad name":     {Name: "news; DROP", Columns: newsTable().Columns},
		"bad column":   {Name: "news", Columns: []*schema.Column{{Name: "a b", Kind: schema.KindString}}},
		"unknown kind": {Name: "news", Columns: []*schema.Column{{Name: "a", Kind: "blob"}}},
		"duplicate": {Name: "news", Columns: []*schema.Column{
			{Name: "title", Kind: schema.KindString},
			{Name: "TITLE", Kind: schema.KindText},
		}},
	}
	for name, def := range bad {
		assert.ErrorIs(t, schema.Validate(def), schema.ErrInvalidDefinition, name)
	}
}

func TestTableHelpers(t *testing.T) {
	def := schema.GradeLevelWordFrequency()
	assert.Equal(t, []string{"title", "word"}, def.PrimaryKey())
	assert.Equal(t, []string{"title", "word", "frequency", "grade_level"}, def.ColumnNames())
	assert.NotNil(t, def.Column("GRADE_LEVEL"))
	assert.Nil(t, def.Column("missing"))

	assert.Empty(t, (&schema.Table{Name: "x", Columns: []*schema.Column{{Name: "a", Kind: schema.KindString}}}).PrimaryKey())
	assert.Nil(t, schema.BuiltinByName("nope"))
	assert.Equal(t, schema.NewsRawTableName, schema.BuiltinByName("news_raw_table").Name)
}

func TestValidateRecord(t *testing.T) {
	def := newsTable()

	assert.NoError(t, schema.ValidateRecord(def, schema.Record{"article_link": "u1", "title": "T"}, true))
	// column names match case-insensitively
	assert.NoError(t, schema.ValidateRecord(def, schema.Record{"Article_Link": "u1"}, true))
	// missing non-key columns are fine
	assert.NoError(t, schema.ValidateRecord(def, schema.Record{"title": "T"}, false))

	err := schema.ValidateRecord(def, schema.Record{"article_link": "u1", "views": 3}, false)
	assert.ErrorIs(t, err, schema.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "views")

	assert.ErrorIs(t, schema.ValidateRecord(def, schema.Record{"title": "T"}, true), schema.ErrInvalidRecord)
	assert.ErrorIs(t, schema.ValidateRecord(def, schema.Record{"article_link": nil}, true), schema.ErrInvalidRecord)
}

func TestValues(t *testing.T) {
	rec := schema.Record{"TITLE": "T", "article_link": "u1"}
	assert.Equal(t, []any{"u1", "T", nil}, schema.Values(rec, []string{"article_link", "title", "author"}))
}

func TestDedupe(t *testing.T) {
	keys := []string{"article_link"}
	batch := schema.Batch{
		{"article_link": "u1", "title": "first"},
		{"article_link": "u2", "title": "other"},
		{"article_link": "u1", "title": "second"},
		{"article_link": "u1", "title": "last"},
	}

	got := schema.Dedupe(batch, keys)
	assert.Equal(t, schema.Batch{
		{"article_link": "u1", "title": "last"},
		{"article_link": "u2", "title": "other"},
	}, got)

	// no key, nothing to collapse
	assert.Len(t, schema.Dedupe(batch, nil), 4)
}

func TestDedupe_CompositeAndTypes(t *testing.T) {
	keys := []string{"title", "word"}
	batch := schema.Batch{
		{"title": "a", "word": "x", "frequency": 1},
		{"title": "a", "word": "y", "frequency": 2},
		{"title": "a", "word": "x", "frequency": 3},
	}
	got := schema.Dedupe(batch, keys)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0]["frequency"])

	// 1 and "1" are different keys
	mixed := schema.Batch{{"id": 1}, {"id": "1"}}
	assert.Len(t, schema.Dedupe(mixed, []string{"id"}), 2)
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, schema.IsIdentifier("news_raw_table"))
	assert.True(t, schema.IsIdentifier("_t1"))
	assert.False(t, schema.IsIdentifier(""))
	assert.False(t, schema.IsIdentifier("1news"))
	assert.False(t, schema.IsIdentifier("news-raw"))
	assert.False(t, schema.IsIdentifier(`news"; --`))
}
