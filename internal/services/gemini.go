package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-screener/internal/logger"
)

const (
	defaultGeminiEmbedModel = "text-embedding-004"

	// ~10000 tokens.
	maxGeminiEmbedChars = 40000
)

var _ Embedder = (*GeminiEmbedder)(nil)

// GeminiEmbedder embeds text with the Gemini embedding API. The client is
// created on first use and reused for the lifetime of the process.
type GeminiEmbedder struct {
	apiKey string
	model  string
	logger *zap.Logger

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGeminiEmbedder(apiKey, model string, log *zap.Logger) (*GeminiEmbedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiEmbedModel
	}

	return &GeminiEmbedder{
		apiKey: apiKey,
		model:  model,
		logger: logger.OrNop(log),
	}, nil
}

func (g *GeminiEmbedder) connect() (*genai.Client, error) {
	g.once.Do(func() {
		g.logger.Info("loading embedding model",
			zap.String("provider", ProviderGemini),
			zap.String("model", g.model),
		)

		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			g.initErr = fmt.Errorf("failed to create gemini client: %w", err)
			return
		}
		g.client = client
	})

	return g.client, g.initErr
}

// Embed implements Embedder.
func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := g.connect()
	if err != nil {
		return nil, err
	}

	text = prepareEmbeddingInput(text, maxGeminiEmbedChars)

	result, err := client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// ModelName implements Embedder.
func (g *GeminiEmbedder) ModelName() string {
	return g.model
}
