// Package gemini adapts the Google Gemini API to the text-classifier port.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mailguard/email-guard/internal/risk"
	"github.com/mailguard/email-guard/internal/utils"
)

const promptFormat = `You are a phishing detection system. Analyze the following email text and estimate the probability that it is a phishing attempt.
Respond with a JSON object containing:
- phishing_probability: number between 0 and 1 (higher means more likely phishing)
- explanation: string (brief explanation of the assessment)

Email text:
%s

Respond only with the JSON object and nothing else.`

type classifierResponse struct {
	PhishingProbability float64 `json:"phishing_probability"`
	Explanation         string  `json:"explanation"`
}

// Classifier implements the text-classifier port using Gemini models.
type Classifier struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	modelName   string
	maxBodySize int
	logger      *zap.Logger
}

// NewClassifier creates a Gemini-backed classifier.
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
) (*Classifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Classifier{
		client:      client,
		model:       model,
		modelName:   modelName,
		maxBodySize: maxBodySize,
		logger:      logger,
	}, nil
}

// Close releases the underlying API client.
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify returns the model's phishing probability for the given text.
func (c *Classifier) Classify(ctx context.Context, text string) (float64, error) {
	prompt := fmt.Sprintf(promptFormat, utils.PrepareForModel(text, c.maxBodySize))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return parseProbability(responseText)
}

func parseProbability(responseText string) (float64, error) {
	var decoded classifierResponse
	if err := json.Unmarshal([]byte(responseText), &decoded); err != nil {
		jsonStr, ok := utils.ExtractJSON(responseText)
		if !ok {
			return 0, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(jsonStr), &decoded); err != nil {
			return 0, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}
	return risk.Clamp(decoded.PhishingProbability), nil
}
