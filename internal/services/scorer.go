package services

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
)

const (
	// FallbackScore is the inconclusive rating used when a score cannot be computed.
	FallbackScore = 40.0
	// MinTextLength is the shortest text, in characters, worth embedding.
	MinTextLength = 50

	SemanticWeight     = 0.7
	SkillBonusPerMatch = 10.0
	MaxScore           = 100.0
	MinScore           = 0.0
)

type ScorerService interface {
	// Evaluate scores resumeText against jdText, reporting why it could not when it fails.
	// FinalScore turns the outcome into the score shown to users.
	Evaluate(ctx context.Context, resumeText, jdText string) (*Assessment, error)
}

// Assessment is the breakdown of a computed score.
type Assessment struct {
	Score        float64
	Similarity   float64
	BaseScore    float64
	SkillBonus   float64
	SharedSkills SkillSet
}

type scorerService struct {
	embedder Embedder
	skills   *SkillMatcher
	logger   *zap.Logger
}

func NewScorerService(embedder Embedder, skills *SkillMatcher, log *zap.Logger) ScorerService {
	return &scorerService{
		embedder: embedder,
		skills:   skills,
		logger:   logger.OrNop(log),
	}
}

// Evaluate implements ScorerService.
func (s *scorerService) Evaluate(ctx context.Context, resumeText, jdText string) (*Assessment, error) {
	resumeLen := utf8.RuneCountInString(resumeText)
	jdLen := utf8.RuneCountInString(jdText)
	if resumeLen < MinTextLength || jdLen < MinTextLength {
		return nil, fmt.Errorf("%w: resume has %d characters, job description has %d, need %d",
			ErrInputTooShort, resumeLen, jdLen, MinTextLength)
	}

	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding model configured", ErrScoring)
	}

	resumeVec, err := s.embedder.Embed(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("%w: embed resume: %w", ErrScoring, err)
	}

	jdVec, err := s.embedder.Embed(ctx, jdText)
	if err != nil {
		return nil, fmt.Errorf("%w: embed job description: %w", ErrScoring, err)
	}

	similarity, err := CosineSimilarity(resumeVec, jdVec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScoring, err)
	}

	shared := s.skills.Extract(resumeText).Intersect(s.skills.Extract(jdText))

	assessment := &Assessment{
		Similarity:   similarity,
		BaseScore:    similarity * 100,
		SkillBonus:   float64(shared.Len()) * SkillBonusPerMatch,
		SharedSkills: shared,
	}
	assessment.Score = CombineScore(assessment.BaseScore, assessment.SkillBonus)

	s.logger.Debug("resume scored",
		zap.String("model", s.embedder.ModelName()),
		zap.Float64("similarity", similarity),
		zap.Float64("skill_bonus", assessment.SkillBonus),
		zap.Float64("score", assessment.Score),
	)

	return assessment, nil
}

// FinalScore applies the fallback policy to an Evaluate outcome: any failure
// scores FallbackScore.
func FinalScore(assessment *Assessment, err error) float64 {
	if err != nil || assessment == nil {
		return FallbackScore
	}
	return assessment.Score
}

// CombineScore weights the semantic base score, adds the skill bonus, clamps
// to [MinScore, MaxScore] and rounds to one decimal.
func CombineScore(baseScore, skillBonus float64) float64 {
	score := math.Min(baseScore*SemanticWeight+skillBonus, MaxScore)
	// Only reachable with negative similarity and no shared skills.
	score = math.Max(score, MinScore)
	return RoundScore(score)
}

func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
