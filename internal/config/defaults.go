package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 90 * time.Second
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedding.APIKeyEnv == "" {
		cfg.Embedding.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 30 * time.Second
	}
	if cfg.Paper.ChunkSize == 0 {
		cfg.Paper.ChunkSize = 5000
	}
	if cfg.Paper.ChunkOverlap == 0 {
		cfg.Paper.ChunkOverlap = 500
	}
	if cfg.Paper.TopK == 0 {
		cfg.Paper.TopK = 5
	}
	if cfg.Paper.MaxQuestions == 0 {
		cfg.Paper.MaxQuestions = 5
	}
	if cfg.Paper.MaxUploadMB == 0 {
		cfg.Paper.MaxUploadMB = 20
	}
	if cfg.Paper.MaxTextBytes == 0 {
		cfg.Paper.MaxTextBytes = 500000
	}
	if cfg.Arxiv.BaseURL == "" {
		cfg.Arxiv.BaseURL = "http://export.arxiv.org/api/query"
	}
	if cfg.Arxiv.Timeout == 0 {
		cfg.Arxiv.Timeout = 10 * time.Second
	}
	if cfg.Arxiv.MaxResults == 0 {
		cfg.Arxiv.MaxResults = 5
	}
}
