package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"news-etl/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

var gradeKeys []string

func init() {
	for k := range GradeWords {
		gradeKeys = append(gradeKeys, k)
	}
	// map order is random; keep the seed reproducible
	sort.Strings(gradeKeys)
}

// Seed fixes the generator for reproducible batches.
func Seed(seed int64) {
	seededRand = rand.New(rand.NewSource(seed))
	gofakeit.Seed(seed)
}

// 1. 사전 단어 위주의 영문 텍스트 생성
func generateNewsText(wordCount int) string {
	words := make([]string, 0, wordCount)
	for i := 0; i < wordCount; i++ {
		if i%3 == 1 {
			words = append(words, fillerWords[seededRand.Intn(len(fillerWords))])
			continue
		}
		words = append(words, gradeKeys[seededRand.Intn(len(gradeKeys))])
	}
	return strings.Join(words, " ")
}

func generateHeadline() string {
	text := generateNewsText(4 + seededRand.Intn(5))
	return strings.ToUpper(text[:1]) + text[1:]
}

func generateArticleBody() string {
	sentences := make([]string, 3+seededRand.Intn(4))
	for i := range sentences {
		s := generateNewsText(8 + seededRand.Intn(8))
		sentences[i] = strings.ToUpper(s[:1]) + s[1:] + "."
	}
	return strings.Join(sentences, " ")
}

func pick(values []string, n int) string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, values[seededRand.Intn(len(values))])
	}
	return strings.Join(out, ",")
}

// GenerateValue generates a random value for col, guided by its meaning hint.
// index makes key columns unique within one batch.
func GenerateValue(col *schema.Column, tableName string, index int) any {
	colName := strings.ToLower(col.Name)
	meaning := schema.AnalyzeMeaning(col.Name)

	switch col.Kind {
	case schema.KindInteger:
		if strings.Contains(meaning, "grade") || strings.Contains(meaning, "level") {
			return 1 + seededRand.Intn(8)
		}
		if strings.Contains(meaning, "count") || strings.Contains(colName, "frequency") {
			return 1 + seededRand.Intn(20)
		}
		return gofakeit.Number(1, 50000)

	case schema.KindFloat:
		return gofakeit.Float64Range(0, 100)

	case schema.KindTimestamp:
		return gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC()

	case schema.KindText:
		return generateArticleBody()
	}

	// 문자열 타입 (Meaning 분석 우선)
	switch {
	case strings.Contains(meaning, "url"):
		return fmt.Sprintf("https://%s/%s-%d", gofakeit.DomainName(), gofakeit.UUID(), index)
	case strings.Contains(meaning, "title"):
		if col.IsPK {
			return fmt.Sprintf("%s %d", generateHeadline(), index)
		}
		return generateHeadline()
	case strings.Contains(meaning, "keywords"):
		return pick(gradeKeys, 1+seededRand.Intn(3))
	case strings.Contains(meaning, "name"):
		return gofakeit.Name()
	case strings.Contains(meaning, "date"):
		// newsdata.io pubDate layout
		return gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()).Format("2006-01-02 15:04:05")
	case strings.Contains(meaning, "content"), strings.Contains(meaning, "description"), strings.Contains(meaning, "text"):
		return generateArticleBody()
	case strings.Contains(meaning, "category"):
		return pick(Categories, 1)
	case strings.Contains(meaning, "country"):
		return pick(Countries, 1)
	case strings.Contains(meaning, "language"):
		return pick(Languages, 1)
	case colName == "word":
		return gradeKeys[(index)%len(gradeKeys)]
	}

	// 기본 텍스트
	if col.IsPK {
		return fmt.Sprintf("%s-%d", gofakeit.Word(), index)
	}
	return gofakeit.Sentence(5)
}

// GenerateBatch builds count fake records for def. Primary key
// combinations are unique within the batch.
func GenerateBatch(def *schema.Table, count int) schema.Batch {
	keys := def.PrimaryKey()
	used := make(map[string]bool, count)
	batch := make(schema.Batch, 0, count)

	// 목표치 채우기 (중복 시 재시도)
	attempts := 0
	for len(batch) < count && attempts < count*10 {
		attempts++
		rec := make(schema.Record, len(def.Columns))
		for _, col := range def.Columns {
			rec[col.Name] = GenerateValue(col, def.Name, attempts)
		}
		if len(keys) > 0 {
			k := schema.KeyOf(rec, keys)
			if used[k] {
				continue
			}
			used[k] = true
		}
		if w, ok := rec["word"].(string); ok && def.Column("grade_level") != nil {
			rec["grade_level"] = GradeWords[w]
		}
		batch = append(batch, rec)
	}
	return batch
}
