// Package bedrock adapts Amazon Bedrock models to the text-classifier
// port.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
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

// Classifier implements the text-classifier port using Bedrock runtime
// models.
type Classifier struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	maxBodySize int
	logger      *zap.Logger
}

// NewClassifier creates a Bedrock-backed classifier over a preconfigured
// runtime client.
func NewClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
) *Classifier {
	return &Classifier{
		client:      client,
		modelID:     modelID,
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

	var payload []byte
	var err error
	switch {
	case c.isAnthropicModel():
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case c.isAmazonTitanModel():
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := c.extractText(resp.Body)
	if err != nil {
		return 0, err
	}
	return parseProbability(responseText)
}

func (c *Classifier) extractText(body []byte) (string, error) {
	switch {
	case c.isAnthropicModel():
		var decoded struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return decoded.Completion, nil
	case c.isAmazonTitanModel():
		var decoded struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(decoded.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return decoded.Results[0].OutputText, nil
	default:
		var decoded struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return "", fmt.Errorf("failed to unmarshal model response: %w", err)
		}
		switch {
		case decoded.Output != "":
			return decoded.Output, nil
		case decoded.Text != "":
			return decoded.Text, nil
		case decoded.Response != "":
			return decoded.Response, nil
		}
		return string(body), nil
	}
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

func (c *Classifier) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

func (c *Classifier) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
