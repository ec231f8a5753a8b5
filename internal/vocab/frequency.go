package vocab

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"news-etl/internal/schema"
)

// Tokenize splits text into lower-case words. Apostrophes inside a word
// are kept ("don't"), digits and punctuation separate words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			words = append(words, strings.ToLower(f))
		}
	}
	return words
}

func field(rec schema.Record, column string) string {
	v, _ := schema.Lookup(rec, column)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Frequency counts vocabulary words in the title and contents of each
// article and returns grade_level_word_frequency records. Articles sharing
// a title are counted together, since the title keys the output.
// Output is ordered by first appearance of the title, then by word.
func Frequency(articles schema.Batch, vocab Vocabulary) schema.Batch {
	var titles []string
	counts := make(map[string]map[string]int)

	for _, a := range articles {
		title := strings.TrimSpace(field(a, "title"))
		if title == "" {
			continue
		}
		perWord, seen := counts[title]
		if !seen {
			perWord = make(map[string]int)
			counts[title] = perWord
			titles = append(titles, title)
		}
		for _, w := range Tokenize(title + " " + field(a, "article_contents")) {
			if _, ok := vocab[w]; ok {
				perWord[w]++
			}
		}
	}

	var out schema.Batch
	for _, title := range titles {
		perWord := counts[title]
		words := make([]string, 0, len(perWord))
		for w := range perWord {
			words = append(words, w)
		}
		sort.Strings(words)
		for _, w := range words {
			out = append(out, schema.Record{
				"title":       title,
				"word":        w,
				"frequency":   perWord[w],
				"grade_level": vocab[w],
			})
		}
	}
	return out
}
