package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

type ScreenerService interface {
	// Screen extracts, scores and ranks every document against the job
	// description. Only input validation errors are returned; per-document
	// failures degrade to empty text and FallbackScore.
	Screen(ctx context.Context, jobDescription string, docs []models.Document) (*models.Screening, error)
}

type screenerService struct {
	extractor TextExtractor
	scorer    ScorerService
	skills    *SkillMatcher
	progress  ProgressReporter
	logger    *zap.Logger
}

func NewScreenerService(
	extractor TextExtractor,
	scorer ScorerService,
	skills *SkillMatcher,
	progress ProgressReporter,
	log *zap.Logger,
) ScreenerService {
	if progress == nil {
		progress = NopReporter{}
	}

	return &screenerService{
		extractor: extractor,
		scorer:    scorer,
		skills:    skills,
		progress:  progress,
		logger:    logger.OrNop(log),
	}
}

// Screen implements ScreenerService.
func (s *screenerService) Screen(ctx context.Context, jobDescription string, docs []models.Document) (*models.Screening, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrMissingJobDescription
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	screening := &models.Screening{
		ID:                   uuid.New(),
		JobDescriptionLength: utf8.RuneCountInString(jobDescription),
		StartedAt:            time.Now(),
	}

	log := s.logger.With(logger.ScreeningID(screening.ID.String()))
	log.Info("starting screening",
		zap.Int("documents", len(docs)),
		zap.Int("job_description_length", screening.JobDescriptionLength),
	)

	results := make([]models.ScoreResult, 0, len(docs))
	for i, doc := range docs {
		result := s.screenDocument(ctx, log, jobDescription, doc)
		results = append(results, result)

		s.progress.Report(ctx, ProgressEvent{
			ScreeningID: screening.ID.String(),
			Candidate:   result.Candidate,
			Processed:   i + 1,
			Total:       len(docs),
			Score:       result.Score,
			Fallback:    result.Fallback,
		})
	}

	screening.Results = Rank(results)
	screening.CompletedAt = time.Now()

	log.Info("screening complete",
		zap.Int("documents", len(docs)),
		zap.Duration("elapsed", screening.CompletedAt.Sub(screening.StartedAt)),
	)

	return screening, nil
}

func (s *screenerService) screenDocument(ctx context.Context, log *zap.Logger, jobDescription string, doc models.Document) models.ScoreResult {
	result := models.ScoreResult{Candidate: doc.Name}
	log = log.With(logger.Candidate(doc.Name))

	var text string
	content, err := s.extractor.Extract(doc)
	if err != nil {
		log.Warn("text extraction failed, scoring empty text", zap.Error(err))
		result.Errors = append(result.Errors, err.Error())
	} else {
		text = content.Text
		log.Debug("text extracted",
			zap.String("format", content.Format),
			zap.Int("pages_read", content.PagesRead),
			zap.Int("characters", utf8.RuneCountInString(text)),
			zap.String("preview", logger.TruncateForLog(text, 80)),
		)
	}

	assessment, err := s.scorer.Evaluate(ctx, text, jobDescription)
	if err != nil {
		if errors.Is(err, ErrInputTooShort) {
			log.Debug("using fallback score", zap.Error(err))
		} else {
			log.Warn("scoring failed, using fallback score", zap.Error(err))
		}
		result.Fallback = true
		result.Errors = append(result.Errors, err.Error())
	}
	result.Score = FinalScore(assessment, err)

	skills := s.skills.Extract(text)
	result.SkillsFound = skills.Len()
	result.Skills = skills.Sorted()

	return result
}

// Rank orders results by score, highest first, keeping input order among
// equal scores, and assigns 1-based ranks.
func Rank(results []models.ScoreResult) []models.ScoreResult {
	ranked := slices.Clone(results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
