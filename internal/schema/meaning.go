package schema

import "strings"

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "cnt": "count", "freq": "count", "qty": "count",
	"url": "url", "uri": "url", "link": "url", "href": "url",
	"tit": "title", "subj": "subject", "headline": "title",
	"cat": "category", "lang": "language", "ctry": "country",
	"kw": "keywords", "tags": "keywords", "tag": "keywords",
	"txt": "text", "body": "content", "contents": "content",
	"creator": "name", "author": "name", "writer": "name",
	"pub": "date", "published": "date", "ts": "date",
	"lvl": "level", "grd": "grade",
}

// AnalyzeMeaning decodes a column name into a space separated hint such as
// "article url" or "publish date". The fake data generator keys off it.
func AnalyzeMeaning(colName string) string {
	n := strings.ToLower(colName)

	parts := strings.Split(n, "_")
	decoded := make([]string, 0, len(parts))
	for _, part := range parts {
		if full, ok := abbreviations[part]; ok {
			decoded = append(decoded, full)
		} else {
			decoded = append(decoded, part)
		}
	}
	return strings.Join(decoded, " ")
}
