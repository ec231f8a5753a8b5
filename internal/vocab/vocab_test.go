package vocab_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"news-etl/internal/schema"
	"news-etl/internal/vocab"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "\ufeffWord,Grade_Level,Source\nStorm,3,list-a\ncoast,4,list-a\nstorm,7,list-b\n  ,2,blank\nmonday,1,list-c\n"

func TestParse(t *testing.T) {
	v, err := vocab.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, vocab.Vocabulary{"storm": 3, "coast": 4, "monday": 1}, v)
}

func TestParse_HeaderAliases(t *testing.T) {
	v, err := vocab.Parse(strings.NewReader("gradelevel,word\n2,Rain\n"))
	require.NoError(t, err)
	assert.Equal(t, vocab.Vocabulary{"rain": 2}, v)
}

func TestParse_Errors(t *testing.T) {
	_, err := vocab.Parse(strings.NewReader(""))
	assert.Error(t, err)

	_, err = vocab.Parse(strings.NewReader("word,level\nrain,2\n"))
	assert.ErrorContains(t, err, "grade_level")

	_, err = vocab.Parse(strings.NewReader("word,grade\nrain,2\nsun,two\n"))
	assert.ErrorContains(t, err, "line 3")
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"the", "storm's", "eye", "hit", "miami", "at", "pm"},
		vocab.Tokenize("The storm's eye hit MIAMI at 5pm..."))
}

func TestFrequency(t *testing.T) {
	v := vocab.Vocabulary{"storm": 3, "coast": 4, "monday": 1, "rain": 2}
	articles := schema.Batch{
		{"title": "Storm hits the coast", "article_link": "a", "article_contents": "The storm hit the coast on Monday. Storm warnings remain."},
		{"title": nil, "article_link": "b", "article_contents": "rain rain rain"},
		{"title": "Quiet day", "article_link": "c", "article_contents": "nothing to report"},
		{"title": "Storm hits the coast", "article_link": "d", "article_contents": "More rain."},
	}

	got := vocab.Frequency(articles, v)
	assert.Equal(t, schema.Batch{
		{"title": "Storm hits the coast", "word": "coast", "frequency": 3, "grade_level": 4},
		{"title": "Storm hits the coast", "word": "monday", "frequency": 1, "grade_level": 1},
		{"title": "Storm hits the coast", "word": "rain", "frequency": 1, "grade_level": 2},
		{"title": "Storm hits the coast", "word": "storm", "frequency": 4, "grade_level": 3},
	}, got)

	def := schema.GradeLevelWordFrequency()
	for _, rec := range got {
		assert.NoError(t, schema.ValidateRecord(def, rec, true))
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary_by_gradelv.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	v, err := vocab.FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, v, 3)

	_, err = vocab.FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}.Load(context.Background())
	assert.Error(t, err)
}

type fakeS3 struct {
	body []byte
	err  error
	in   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{body: []byte(sampleCSV)}
	src := vocab.S3Source{Client: client, Bucket: "vocab-bucket", Key: "vocabulary_by_gradelv.csv"}

	v, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v["storm"])
	assert.Equal(t, "vocab-bucket", *client.in.Bucket)
	assert.Equal(t, "vocabulary_by_gradelv.csv", *client.in.Key)

	client.err = errors.New("access denied")
	_, err = src.Load(context.Background())
	assert.ErrorContains(t, err, "s3://vocab-bucket/vocabulary_by_gradelv.csv")
}
