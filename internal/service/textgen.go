package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
)

// systemInstruction pins the model to emitting a single parsable JSON object.
const systemInstruction = `You are a recipe assistant app. Your primary function is to generate recipes based on user-provided ingredients and dietary preferences. You MUST respond with ONLY JSON objects. Do not include any introductory or explanatory text outside of the JSON. The JSON object will be parsed directly by the application, so it must be valid and parsable. Use double quotes for all keys and string values. If you cannot determine a value, use an empty string "" or an empty array [].`

const recipePromptFormat = `Generate a detailed recipe based on:
- Ingredients: %s
- Dietary Preferences: %s

The JSON structure should strictly follow this format:
{
  "title": "Your Recipe Title",
  "description": "A brief description of your recipe.",
  "tags": {
    "mealType": "Vegan",
    "cuisine": "Italian",
    "dishType": "Main Course",
    "extra": ["Tag1", "Tag2"]
  },
  "ingredients": [
    {"item": "Ingredient Name 1", "amount": "Amount 1"},
    {"item": "Ingredient Name 2", "amount": "Amount 2"}
  ],
  "steps": [
    "Instruction for step 1.",
    "Instruction for step 2."
  ],
  "nutrition": {
    "calories": 200,
    "protein": 10,
    "carbs": 30,
    "fats": 5,
    "vitamins": "Vitamin C : 20mg"
  }
}
mealType must be one of: Vegan, Gluten-Free, High-Protein, Low-Carb, Keto, Paleo, Veg, Non-Veg.
Nutrition values must be plain numbers, not strings like "20g".`

// TextGenConfig configures the Gemini streaming endpoint.
type TextGenConfig struct {
	// Endpoint overrides the computed Vertex AI URL; used in tests and for
	// non-Vertex deployments of the same API surface.
	Endpoint  string
	ProjectID string
	Location  string
	Model     string
	Timeout   time.Duration
}

// TextGenClient calls the Gemini streamGenerateContent API and concatenates
// the streamed fragments into one complete response string. Callers never
// see partial text.
type TextGenClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewTextGenClient creates a text-generation client. httpClient must carry
// the provider's credentials (an OAuth transport for Vertex AI).
func NewTextGenClient(cfg TextGenConfig, httpClient *http.Client, logger *zap.Logger) *TextGenClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(
			"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:streamGenerateContent?alt=sse",
			cfg.Location, cfg.ProjectID, cfg.Location, cfg.Model,
		)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	// Clone so the timeout does not leak into a shared client.
	client := *httpClient
	client.Timeout = timeout

	return &TextGenClient{
		endpoint: endpoint,
		client:   &client,
		logger:   logger.Named("textgen"),
	}
}

type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type genConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	Seed            int     `json:"seed"`
}

type generateContentRequest struct {
	Contents          []genContent       `json:"contents"`
	SystemInstruction *genContent        `json:"systemInstruction,omitempty"`
	GenerationConfig  *genConfig         `json:"generationConfig,omitempty"`
	SafetySettings    []genSafetySetting `json:"safetySettings,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
}

// GenerateRecipeText implements TextGenerator. It does not validate or parse
// the model output; that is the parser's job.
func (c *TextGenClient) GenerateRecipeText(ctx context.Context, ingredients, dietaryPreferences string) (string, error) {
	prompt := fmt.Sprintf(recipePromptFormat, ingredients, dietaryPreferences)

	reqBody := generateContentRequest{
		Contents: []genContent{
			{Role: "user", Parts: []genPart{{Text: prompt}}},
		},
		SystemInstruction: &genContent{
			Parts: []genPart{{Text: systemInstruction}},
		},
		GenerationConfig: &genConfig{
			MaxOutputTokens: 1016,
			Temperature:     1,
			TopP:            0.95,
		},
		SafetySettings: []genSafetySetting{
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "OFF"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "OFF"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "OFF"},
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "OFF"},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperr.Wrap(apperr.GenerationService, "failed to build generation request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", apperr.Wrap(apperr.GenerationService, "failed to build generation request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.GenerationService, "text generation request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("text generation service returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		msg := "text generation service error"
		if resp.StatusCode == http.StatusTooManyRequests {
			msg = "text generation quota exceeded"
		}
		return "", apperr.New(apperr.GenerationService, msg)
	}

	full, err := c.collectStream(resp.Body)
	if err != nil {
		return "", err
	}
	if full == "" {
		return "", apperr.New(apperr.GenerationService, "text generation returned no content")
	}

	return full, nil
}

// collectStream concatenates every candidate part of every SSE chunk.
func (c *TextGenClient) collectStream(body io.Reader) (string, error) {
	var full strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var chunk generateContentResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", apperr.Wrap(apperr.GenerationService, "malformed streaming response", err)
		}
		for _, cand := range chunk.Candidates {
			for _, part := range cand.Content.Parts {
				full.WriteString(part.Text)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", apperr.Wrap(apperr.GenerationService, "streaming response interrupted", err)
	}

	return full.String(), nil
}
