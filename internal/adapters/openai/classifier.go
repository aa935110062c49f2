// Package openai adapts the OpenAI chat API to the text-classifier port.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

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

// Classifier implements the text-classifier port using OpenAI chat models.
type Classifier struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	maxBodySize int
	logger      *zap.Logger
}

// NewClassifier creates an OpenAI-backed classifier.
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
) *Classifier {
	return &Classifier{
		client:      openai.NewClient(apiKey),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

// Classify returns the model's phishing probability for the given text.
func (c *Classifier) Classify(ctx context.Context, text string) (float64, error) {
	prompt := fmt.Sprintf(promptFormat, utils.PrepareForModel(text, c.maxBodySize))

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: "json_object",
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("empty response from OpenAI")
	}

	return parseProbability(resp.Choices[0].Message.Content)
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
