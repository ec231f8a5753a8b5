package schema

const (
	NewsRawTableName   = "news_raw_table"
	WordFrequencyTable = "grade_level_word_frequency"
)

// NewsRawTable is the landing table for flattened news articles.
func NewsRawTable() *Table {
	return &Table{
		Name: NewsRawTableName,
		Columns: []*Column{
			{Name: "title", Kind: KindString},
			{Name: "article_link", Kind: KindString, IsPK: true},
			{Name: "keywords", Kind: KindString},
			{Name: "author", Kind: KindString},
			{Name: "publish_date", Kind: KindString},
			{Name: "article_contents", Kind: KindText},
			{Name: "category", Kind: KindString},
			{Name: "country", Kind: KindString},
			{Name: "language", Kind: KindString},
		},
	}
}

// GradeLevelWordFrequency holds per-article counts of vocabulary words.
func GradeLevelWordFrequency() *Table {
	return &Table{
		Name: WordFrequencyTable,
		Columns: []*Column{
			{Name: "title", Kind: KindString, IsPK: true},
			{Name: "word", Kind: KindString, IsPK: true},
			{Name: "frequency", Kind: KindInteger},
			{Name: "grade_level", Kind: KindInteger},
		},
	}
}

// Builtin returns every table the pipeline writes, in load order.
func Builtin() []*Table {
	return []*Table{NewsRawTable(), GradeLevelWordFrequency()}
}

// BuiltinByName returns the built-in definition with the given name, or nil.
func BuiltinByName(name string) *Table {
	for _, t := range Builtin() {
		if t.Name == name {
			return t
		}
	}
	return nil
}
