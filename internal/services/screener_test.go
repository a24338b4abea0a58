package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
)

type fixedScorer struct {
	scores map[string]float64
}

func (f *fixedScorer) Evaluate(_ context.Context, resumeText, _ string) (*Assessment, error) {
	score, ok := f.scores[resumeText]
	if !ok {
		return nil, ErrInputTooShort
	}
	return &Assessment{Score: score}, nil
}

func TestRank(t *testing.T) {
	results := []models.ScoreResult{
		{Candidate: "a.pdf", Score: 55.2},
		{Candidate: "b.pdf", Score: 91.0},
		{Candidate: "c.pdf", Score: 40.0},
	}

	ranked := Rank(results)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"b.pdf", "a.pdf", "c.pdf"}, candidates(ranked))
	assert.Equal(t, []float64{91.0, 55.2, 40.0}, []float64{ranked[0].Score, ranked[1].Score, ranked[2].Score})
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})

	assert.Equal(t, "a.pdf", results[0].Candidate, "input must not be reordered")
	assert.Zero(t, results[0].Rank)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	ranked := Rank([]models.ScoreResult{
		{Candidate: "first.pdf", Score: FallbackScore},
		{Candidate: "top.pdf", Score: 80},
		{Candidate: "second.pdf", Score: FallbackScore},
		{Candidate: "third.pdf", Score: FallbackScore},
	})

	assert.Equal(t, []string{"top.pdf", "first.pdf", "second.pdf", "third.pdf"}, candidates(ranked))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}

func TestScreener_Screen(t *testing.T) {
	extractor := &fakeExtractor{
		texts: map[string]string{
			"alice.pdf": "alice: Python and AWS",
			"bob.docx":  "bob: React",
		},
		errs: map[string]error{
			"broken.pdf": ErrUnreadableDocument,
		},
	}
	scorer := &fixedScorer{scores: map[string]float64{
		"alice: Python and AWS": 55.2,
		"bob: React":            91.0,
	}}
	progress := &recordingReporter{}

	screener := NewScreenerService(extractor, scorer, mustSkillMatcher(testVocabulary), progress, nil)

	docs := []models.Document{{Name: "alice.pdf"}, {Name: "broken.pdf"}, {Name: "bob.docx"}}
	screening, err := screener.Screen(context.Background(), testJobDescription, docs)
	require.NoError(t, err)

	require.Len(t, screening.Results, 3)
	assert.Equal(t, []string{"bob.docx", "alice.pdf", "broken.pdf"}, candidates(screening.Results))

	bob, alice, broken := screening.Results[0], screening.Results[1], screening.Results[2]
	assert.Equal(t, 1, bob.Rank)
	assert.Equal(t, 91.0, bob.Score)
	assert.Equal(t, []string{"React"}, bob.Skills)

	assert.Equal(t, 2, alice.Rank)
	assert.Equal(t, 2, alice.SkillsFound)
	assert.False(t, alice.Fallback)

	assert.Equal(t, 3, broken.Rank)
	assert.Equal(t, FallbackScore, broken.Score)
	assert.True(t, broken.Fallback)
	assert.Zero(t, broken.SkillsFound)
	assert.Len(t, broken.Errors, 2)

	require.Len(t, progress.events, 3)
	for i, event := range progress.events {
		assert.Equal(t, i+1, event.Processed)
		assert.Equal(t, 3, event.Total)
		assert.Equal(t, screening.ID.String(), event.ScreeningID)
	}
	assert.Equal(t, "broken.pdf", progress.events[1].Candidate)
	assert.True(t, progress.events[1].Fallback)
	assert.Equal(t, 1.0, progress.events[2].Fraction())

	assert.False(t, screening.CompletedAt.Before(screening.StartedAt))
}

func TestScreener_UnreadableFileGetsFallback(t *testing.T) {
	scorer := &fixedScorer{scores: map[string]float64{"Python engineer": 72.4}}
	screener := NewScreenerService(NewTextExtractor(0, nil), scorer, mustSkillMatcher(testVocabulary), nil, nil)

	docs := []models.Document{
		models.Failed("big.pdf", ErrFileTooLarge),
		{Name: "good.pdf", Content: buildPDF(t, "Python engineer")},
		models.Failed("cv.txt", ErrInvalidExtension),
	}

	screening, err := screener.Screen(context.Background(), testJobDescription, docs)
	require.NoError(t, err)

	require.Len(t, screening.Results, 3)
	assert.Equal(t, []string{"good.pdf", "big.pdf", "cv.txt"}, candidates(screening.Results))

	good := screening.Results[0]
	assert.Equal(t, 72.4, good.Score)
	assert.False(t, good.Fallback)
	assert.Equal(t, []string{"Python"}, good.Skills)

	for _, r := range screening.Results[1:] {
		assert.Equal(t, FallbackScore, r.Score)
		assert.True(t, r.Fallback)
		require.NotEmpty(t, r.Errors)
	}
	assert.Contains(t, screening.Results[1].Errors[0], ErrFileTooLarge.Error())
	assert.Contains(t, screening.Results[2].Errors[0], ErrInvalidExtension.Error())
}

func TestScreener_Validation(t *testing.T) {
	screener := NewScreenerService(&fakeExtractor{}, &fixedScorer{}, mustSkillMatcher(testVocabulary), nil, nil)

	_, err := screener.Screen(context.Background(), "   ", []models.Document{{Name: "a.pdf"}})
	assert.ErrorIs(t, err, ErrMissingJobDescription)

	_, err = screener.Screen(context.Background(), testJobDescription, nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func candidates(results []models.ScoreResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Candidate)
	}
	return names
}
