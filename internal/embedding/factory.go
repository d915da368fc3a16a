package embedding

import (
	"fmt"

	"github.com/hyperjump/ronbun/internal/config"
)

// NewEmbedder creates the embedder selected by cfg.Provider:
// "openai" (remote API), "onnx" (local model, requires CGO), or "mock"
// (deterministic, for tests and offline runs).
func NewEmbedder(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		apiKey := cfg.APIKey()
		if apiKey == "" {
			return nil, fmt.Errorf("embedding API key not set (env %s)", cfg.APIKeyEnv)
		}
		return NewOpenAIEmbedder(cfg.BaseURL, apiKey, cfg.Model, cfg.Dimensions, cfg.CacheSize, cfg.Timeout), nil
	case "onnx":
		return NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", cfg.Provider)
	}
}
