package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Vocabulary maps a lower-case word to its grade level.
type Vocabulary map[string]int

var gradeHeaders = map[string]bool{"grade_level": true, "grade": true, "gradelevel": true}

// Parse reads a CSV with a header row naming a word column and a grade
// column. Other columns are ignored. When a word repeats, the first row wins.
func Parse(r io.Reader) (Vocabulary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	wordIdx, gradeIdx := -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case h == "word":
			wordIdx = i
		case gradeHeaders[h]:
			gradeIdx = i
		}
	}
	if wordIdx < 0 || gradeIdx < 0 {
		return nil, fmt.Errorf("vocabulary header %v needs a word and a grade_level column", header)
	}

	vocab := make(Vocabulary)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read vocabulary: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if wordIdx >= len(row) || gradeIdx >= len(row) {
			return nil, fmt.Errorf("line %d: expected at least %d fields", line, max(wordIdx, gradeIdx)+1)
		}

		word := strings.ToLower(strings.TrimSpace(row[wordIdx]))
		if word == "" {
			continue
		}
		grade, err := strconv.Atoi(strings.TrimSpace(row[gradeIdx]))
		if err != nil {
			return nil, fmt.Errorf("line %d: grade level %q is not an integer", line, row[gradeIdx])
		}
		if _, dup := vocab[word]; !dup {
			vocab[word] = grade
		}
	}
	return vocab, nil
}
