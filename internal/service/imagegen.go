package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
)

// ImageStore persists image bytes and returns a stable reference: a bare
// filename for local storage, a public URL for object storage. References
// are resolved here, at the client boundary, and never re-inspected
// downstream.
type ImageStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// ImageGenConfig configures the Imagen predict endpoint.
type ImageGenConfig struct {
	// Endpoint overrides the computed Vertex AI URL; used in tests.
	Endpoint  string
	ProjectID string
	Location  string
	Model     string
	Timeout   time.Duration
}

// ImageGenClient requests one square recipe image from the external image
// model, decodes the returned payloads, and persists them via an ImageStore.
type ImageGenClient struct {
	endpoint string
	client   *http.Client
	store    ImageStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewImageGenClient creates an image-generation client. httpClient must
// carry the provider's credentials.
func NewImageGenClient(cfg ImageGenConfig, httpClient *http.Client, store ImageStore, logger *zap.Logger) *ImageGenClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(
			"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
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
	client := *httpClient
	client.Timeout = timeout

	return &ImageGenClient{
		endpoint: endpoint,
		client:   &client,
		store:    store,
		logger:   logger.Named("imagegen"),
		now:      time.Now,
	}
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount       int    `json:"sampleCount"`
	AspectRatio       string `json:"aspectRatio"`
	SafetyFilterLevel string `json:"safetyFilterLevel"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateRecipeImages implements ImageGenerator. A provider response with
// zero predictions returns an empty slice and a nil error; callers treat
// that as a generation failure distinct from a service fault.
func (c *ImageGenClient) GenerateRecipeImages(ctx context.Context, title string) ([]string, error) {
	prompt := fmt.Sprintf("Create a high-quality image of a dish named %s. Show a well-plated, realistic dish.", title)

	reqBody := predictRequest{
		Instances: []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{
			SampleCount:       1,
			AspectRatio:       "1:1",
			SafetyFilterLevel: "block_some",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperr.Wrap(apperr.GenerationService, "failed to build image request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, apperr.Wrap(apperr.GenerationService, "failed to build image request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.GenerationService, "image generation request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.GenerationService, "failed to read image response", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("image generation service returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body[:min(len(body), 4096)]))
		return nil, apperr.New(apperr.GenerationService, "image generation service error")
	}

	var result predictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperr.Wrap(apperr.GenerationService, "malformed image response", err)
	}

	if len(result.Predictions) == 0 {
		c.logger.Warn("image generation returned no predictions", zap.String("title", title))
		return []string{}, nil
	}

	refs := make([]string, 0, len(result.Predictions))
	stamp := c.now().UnixNano()
	for i, prediction := range result.Predictions {
		data, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
		if err != nil {
			return nil, apperr.Wrap(apperr.GenerationService, "failed to decode image payload", err)
		}

		filename := SanitizeFilename(fmt.Sprintf("%s_%d_%d.png", title, stamp, i+1))
		ref, err := c.store.Save(ctx, filename, data)
		if err != nil {
			return nil, apperr.Wrap(apperr.GenerationService, "failed to store generated image", err)
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9.-]+`)

// SanitizeFilename collapses anything outside [a-zA-Z0-9.-] into a dash so
// recipe titles become safe storage keys.
func SanitizeFilename(name string) string {
	return filenameSanitizer.ReplaceAllString(name, "-")
}
