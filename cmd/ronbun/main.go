// Package main is the Ronbun CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/ronbun/internal/arxiv"
	"github.com/hyperjump/ronbun/internal/citation"
	"github.com/hyperjump/ronbun/internal/cli"
	"github.com/hyperjump/ronbun/internal/config"
	"github.com/hyperjump/ronbun/internal/embedding"
	"github.com/hyperjump/ronbun/internal/extract"
	"github.com/hyperjump/ronbun/internal/llm"
	"github.com/hyperjump/ronbun/internal/related"
	"github.com/hyperjump/ronbun/internal/review"
	"github.com/hyperjump/ronbun/internal/server"
	"github.com/hyperjump/ronbun/internal/session"
	"github.com/hyperjump/ronbun/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/ronbun/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "ronbun server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// API keys come from the environment; a .env in the working directory is
	// a convenience for development.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "cite":
		runCite()
	case "related":
		runRelated()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("ronbun version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the wired service graph behind the server and CLI commands.
type Components struct {
	Embedder embedding.Embedder
	Provider llm.Provider
	Sessions *session.Store
	Engine   *review.Engine
	Arxiv    *arxiv.Client
	Related  *related.Service
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	if cfg.LLM.APIKey() == "" {
		return nil, fmt.Errorf("LLM API key is not set (env %s)", cfg.LLM.APIKeyEnv)
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	provider := llm.NewOpenAIClient(
		cfg.LLM.BaseURL,
		cfg.LLM.APIKey(),
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.Timeout,
	)

	sessions := session.NewStore(cfg.Paper.MaxQuestions)
	extractor := extract.NewExtractor()
	engine := review.NewEngine(extractor, embedder, provider, sessions, &cfg.Paper, logger)
	arxivClient := arxiv.NewClient(&cfg.Arxiv, logger)
	relatedSvc := related.NewService(arxivClient, embedder, logger)

	return &Components{
		Embedder: embedder,
		Provider: provider,
		Sessions: sessions,
		Engine:   engine,
		Arxiv:    arxivClient,
		Related:  relatedSvc,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Engine,
		components.Sessions,
		components.Arxiv,
		components.Related,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printCiteUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: ronbun cite [flags] <arxiv-id-or-url>\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  ronbun cite 2301.00001
  ronbun cite --style mla https://arxiv.org/abs/1706.03762
  ronbun cite --style ieee --output json 1706.03762v5
`)
}

func runCite() {
	fs := flag.NewFlagSet("cite", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	styleFlag := fs.String("style", "APA", "citation style: APA, MLA, Chicago, or IEEE")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printCiteUsage(fs) }
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		printCiteUsage(fs)
		os.Exit(1)
	}
	idOrURL := strings.TrimSpace(fs.Arg(0))

	style, err := citation.ParseStyle(*styleFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Citation lookup needs no API key, so a missing config file falls back
	// to defaults instead of failing.
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		cfg = config.Default()
	}

	client := arxiv.NewClient(&cfg.Arxiv, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Arxiv.Timeout+5*time.Second)
	defer cancel()

	paper, err := client.Fetch(ctx, idOrURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch paper: %v\n", err)
		os.Exit(1)
	}
	rec, err := citation.FromPaper(paper)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unusable paper metadata: %v\n", err)
		os.Exit(1)
	}
	text, err := citation.Format(rec, style)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to format citation: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCitation(os.Stdout, text, string(style), format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func printRelatedUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: ronbun related [flags] <concept>\n\n")
	fmt.Fprintf(fs.Output(), "Concept is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  ronbun related attention mechanisms
  ronbun related --category cs.LG --max 10 graph neural networks
  ronbun related --output json transformers
`)
}

func runRelated() {
	fs := flag.NewFlagSet("related", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	category := fs.String("category", "", "restrict search to an arXiv category (e.g. cs.LG)")
	max := fs.Int("max", 0, "maximum number of papers (0 = configured default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printRelatedUsage(fs) }
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		printRelatedUsage(fs)
		os.Exit(1)
	}
	concept := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if concept == "" {
		printRelatedUsage(fs)
		os.Exit(1)
	}

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create embedder: %v\n", err)
		os.Exit(1)
	}
	defer embedder.Close()

	client := arxiv.NewClient(&cfg.Arxiv, logger)
	svc := related.NewService(client, embedder, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	papers, err := svc.Find(ctx, concept, *category, *max)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Related search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRelatedPapers(os.Stdout, papers, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Sessions int                    `json:"sessions"`
	Config   map[string]interface{} `json:"config"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	status, err := statusViaHTTP(*serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status request failed: %v\n", err)
		os.Exit(1)
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(status)
		return
	}
	fmt.Printf("Sessions: %d\n", status.Sessions)
	if len(status.Config) > 0 {
		fmt.Println("Config:")
		for _, key := range []string{"chunk_size", "chunk_overlap", "top_k", "max_questions",
			"max_upload_mb", "embedding_provider", "embedding_dimensions"} {
			if v, ok := status.Config[key]; ok {
				fmt.Printf("  %s: %v\n", key, v)
			}
		}
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &status, nil
}

func printUsage() {
	fmt.Println(`ronbun - research paper review and citation service

Usage:
  ronbun <command> [flags]

Commands:
  server     Start the HTTP API server
  cite       Format a citation for an arXiv paper
  related    Find papers related to a concept
  status     Show a running server's status
  version    Print version
  help       Show this help

Run 'ronbun <command> --help' for command-specific flags.`)
}
