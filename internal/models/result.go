package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ScoreResult is one ranked candidate of a screening run.
type ScoreResult struct {
	Rank        int
	Candidate   string
	Score       float64
	SkillsFound int
	Skills      []string

	// Fallback is set when the score is the inconclusive default rather than a computed value.
	Fallback bool
	Errors   []string
}

// Screening is the outcome of one batch run. It is never persisted.
type Screening struct {
	ID                   uuid.UUID
	JobDescriptionLength int
	Results              []ScoreResult
	StartedAt            time.Time
	CompletedAt          time.Time
}

type ScreenResponse struct {
	ID         string      `json:"id"`
	Candidates int         `json:"candidates"`
	Results    []ResultRow `json:"results"`
}

type ResultRow struct {
	Rank        int      `json:"rank"`
	Candidate   string   `json:"candidate"`
	Score       string   `json:"score"`
	ScoreValue  float64  `json:"score_value"`
	SkillsFound int      `json:"skills_found"`
	Skills      []string `json:"skills,omitempty"`
	Fallback    bool     `json:"fallback"`
	Errors      []string `json:"errors,omitempty"`
}

// FormatScore renders a score the way the results table shows it, e.g. "87.3%".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64) + "%"
}

func NewScreenResponse(s *Screening) ScreenResponse {
	rows := make([]ResultRow, 0, len(s.Results))
	for _, r := range s.Results {
		rows = append(rows, ResultRow{
			Rank:        r.Rank,
			Candidate:   r.Candidate,
			Score:       FormatScore(r.Score),
			ScoreValue:  r.Score,
			SkillsFound: r.SkillsFound,
			Skills:      r.Skills,
			Fallback:    r.Fallback,
			Errors:      r.Errors,
		})
	}

	return ScreenResponse{
		ID:         s.ID.String(),
		Candidates: len(rows),
		Results:    rows,
	}
}
