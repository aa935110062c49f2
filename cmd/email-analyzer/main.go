package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/attachment"
	"github.com/mailguard/email-guard/internal/config"
	"github.com/mailguard/email-guard/internal/core"
	"github.com/mailguard/email-guard/internal/factory"
	"github.com/mailguard/email-guard/internal/logging"
	"github.com/mailguard/email-guard/internal/parser"
)

var (
	// Classifier flags
	provider    = flag.String("provider", "none", "Classifier provider (none, bedrock, gemini, openai)")
	maxTokens   = flag.Int("max-tokens", 1000, "Maximum tokens for classifier response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for classifier generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for classifier generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum email body size to send to the classifier")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// External intelligence flags
	safeBrowsingKey = flag.String("safebrowsing-api-key", "", "Google Safe Browsing API key")
	phishTankKey    = flag.String("phishtank-app-key", "", "PhishTank application key")
	offline         = flag.Bool("offline", false, "Skip all network-backed checks")

	// Input flags
	inputFile      = flag.String("file", "", "Input email file (use stdin if not specified)")
	attachmentFile = flag.String("attachment", "", "Triage an attachment file instead of analyzing an email")
	verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog        = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile     = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *attachmentFile != "" {
		triageAttachment(*attachmentFile)
		return
	}

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	classifier, err := factory.NewClassifierFactory(cfg, logger).CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	var resolver core.Resolver
	var urlIntel core.URLIntel
	if !*offline {
		intelFactory := factory.NewIntelFactory(cfg, logger)
		resolver = intelFactory.CreateResolver()
		urlIntel = intelFactory.CreateAggregator(resolver)
	}

	service := core.NewAnalyzerService(classifier, urlIntel, resolver, nil, logger)

	raw, err := readInput()
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}
	email := parser.Normalize(raw)

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", email.From)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	startTime := time.Now()
	result, err := service.Analyze(context.Background(), email)
	if err != nil {
		logger.Fatal("Failed to analyze email", zap.Error(err))
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Classification: %s\n", result.Classification)
	fmt.Printf("Final score: %.4f\n", result.FinalScore)
	fmt.Printf("Actions: %v\n", result.Actions)
	fmt.Printf("\n=== Signal Breakdown ===\n")
	for _, name := range []string{"authentication", "content", "url", "behavior", "sentiment"} {
		c := result.Contributions[name]
		fmt.Printf("%-14s score=%.2f weight=%.2f\n", name, c.Score, c.Weight)
		for _, reason := range c.Reasons {
			fmt.Printf("    - %s\n", reason)
		}
	}
	fmt.Printf("\nProcessing time: %v\n", time.Since(startTime))

	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
}

func readInput() ([]byte, error) {
	if *inputFile != "" {
		return os.ReadFile(*inputFile)
	}
	return io.ReadAll(os.Stdin)
}

// triageAttachment runs the static attachment inspector and prints its
// verdict.
func triageAttachment(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Failed to read attachment: %v\n", err)
		os.Exit(1)
	}

	result := attachment.Triage(filepath.Base(path), content)

	fmt.Printf("\n=== Attachment Triage ===\n")
	fmt.Printf("Name: %s\n", result.Name)
	fmt.Printf("Score: %.2f\n", result.Score)
	fmt.Printf("Classification: %s\n", result.Classification)
	for _, reason := range result.Reasons {
		fmt.Printf("    - %s\n", reason)
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.provider", *provider)

	switch *provider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_body_size", *maxBodySize)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_body_size", *maxBodySize)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_body_size", *maxBodySize)
	}

	v.Set("intel.safebrowsing_api_key", *safeBrowsingKey)
	v.Set("intel.phishtank_app_key", *phishTankKey)

	return config.NewFromViper(v)
}
