package services

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"alfredoptarigan/resume-screener/internal/models"
)

// bagOfWordsEmbedder hashes lowercase words into a fixed number of buckets,
// so texts sharing vocabulary get similar vectors.
type bagOfWordsEmbedder struct {
	dims  int
	calls int
}

func (e *bagOfWordsEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	vec := make([]float32, e.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%uint32(e.dims)]++
	}
	return vec, nil
}

func (e *bagOfWordsEmbedder) ModelName() string { return "bag-of-words" }

// funcEmbedder delegates to fn.
type funcEmbedder func(text string) ([]float32, error)

func (f funcEmbedder) Embed(_ context.Context, text string) ([]float32, error) { return f(text) }

func (f funcEmbedder) ModelName() string { return "func" }

type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) Extract(doc models.Document) (*models.ExtractedText, error) {
	if err, ok := f.errs[doc.Name]; ok {
		return &models.ExtractedText{}, err
	}
	return &models.ExtractedText{Text: f.texts[doc.Name], Format: FormatPDF, PageCount: 1, PagesRead: 1}, nil
}

type recordingReporter struct {
	events []ProgressEvent
}

func (r *recordingReporter) Report(_ context.Context, event ProgressEvent) {
	r.events = append(r.events, event)
}

var testVocabulary = []string{
	"AI", "ML", "Python", "JavaScript", "React", "Node", "Flask", "MongoDB",
	"AWS", "Docker", "Kubernetes", "SQL", "TensorFlow", "Pytorch", "NLP",
	"Computer Vision",
}

func mustSkillMatcher(vocabulary []string) *SkillMatcher {
	m, err := NewSkillMatcher(vocabulary)
	if err != nil {
		panic(err)
	}
	return m
}
