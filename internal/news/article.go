package news

import (
	"encoding/json"
	"strings"

	"news-etl/internal/schema"
)

// Response is one page of results.
type Response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Results      []Article `json:"results"`
	NextPage     string    `json:"nextPage"`
}

type Article struct {
	ArticleID   string    `json:"article_id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Keywords    []string  `json:"keywords"`
	Creator     []string  `json:"creator"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	PubDate     string    `json:"pubDate"`
	ImageURL    string    `json:"image_url"`
	SourceID    string    `json:"source_id"`
	Country     []string  `json:"country"`
	Category    []string  `json:"category"`
	Language    flexValue `json:"language"`
}

// flexValue accepts either a string or a list of strings.
type flexValue []string

func (f *flexValue) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*f = nil
		} else {
			*f = flexValue{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = many
	return nil
}

// paid-plan placeholder the API returns instead of the article body
const restrictedContent = "ONLY AVAILABLE IN PAID PLANS"

func joined(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return strings.Join(values, ",")
}

func text(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// Flatten reshapes articles into news_raw_table records. Articles without a
// link cannot be keyed and are skipped.
func Flatten(articles []Article) schema.Batch {
	batch := make(schema.Batch, 0, len(articles))
	for _, a := range articles {
		if strings.TrimSpace(a.Link) == "" {
			continue
		}
		contents := a.Content
		if strings.TrimSpace(contents) == "" || strings.EqualFold(contents, restrictedContent) {
			contents = a.Description
		}
		batch = append(batch, schema.Record{
			"title":            text(a.Title),
			"article_link":     strings.TrimSpace(a.Link),
			"keywords":         joined(a.Keywords),
			"author":           joined(a.Creator),
			"publish_date":     text(a.PubDate),
			"article_contents": text(contents),
			"category":         joined(a.Category),
			"country":          joined(a.Country),
			"language":         joined(a.Language),
		})
	}
	return batch
}
