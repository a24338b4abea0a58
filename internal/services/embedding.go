package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Embedder is the frozen sentence-embedding model. One instance is created
// per process and shared read-only by every scoring call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type EmbedderOptions struct {
	Provider     string
	Model        string
	GeminiAPIKey string
	OllamaURL    string
	Timeout      time.Duration
}

// NewEmbedder builds the embedder selected by opts.Provider.
func NewEmbedder(opts EmbedderOptions, logger *zap.Logger) (Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case ProviderGemini:
		return NewGeminiEmbedder(opts.GeminiAPIKey, opts.Model, logger)
	case ProviderOllama, "":
		return NewOllamaEmbedder(OllamaConfig{
			BaseURL: opts.OllamaURL,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", opts.Provider)
	}
}

// CosineSimilarity returns the cosine of the angle between a and b.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, errors.New("empty embedding vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d != %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, errors.New("zero-norm embedding vector")
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, errors.New("embedding similarity is not a finite number")
	}

	// Rounding can push identical vectors slightly past 1.
	return math.Max(-1, math.Min(1, sim)), nil
}

// prepareEmbeddingInput replaces invalid UTF-8 and truncates to maxChars runes.
func prepareEmbeddingInput(text string, maxChars int) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	if maxChars > 0 && utf8.RuneCountInString(text) > maxChars {
		text = string([]rune(text)[:maxChars])
	}

	return text
}
