package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
)

var pngPayload = []byte("\x89PNG\r\n\x1a\nfake image bytes")

func newImageGenServer(t *testing.T, store ImageStore, handler http.HandlerFunc) *ImageGenClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewImageGenClient(ImageGenConfig{Endpoint: srv.URL}, nil, store, zap.NewNop())
	client.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return client
}

func predictionsBody(payloads ...[]byte) []byte {
	type prediction struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	}
	var preds []prediction
	for _, p := range payloads {
		preds = append(preds, prediction{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(p),
			MimeType:           "image/png",
		})
	}
	body, _ := json.Marshal(map[string]any{"predictions": preds})
	return body
}

func TestGenerateRecipeImagesStoresDecodedPayload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir)
	require.NoError(t, err)

	client := newImageGenServer(t, store, func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Instances, 1)
		assert.Contains(t, req.Instances[0].Prompt, "Spinach Omelette")
		assert.Equal(t, 1, req.Parameters.SampleCount)
		assert.Equal(t, "1:1", req.Parameters.AspectRatio)

		_, _ = w.Write(predictionsBody(pngPayload))
	})

	refs, err := client.GenerateRecipeImages(context.Background(), "Spinach Omelette")
	require.NoError(t, err)
	require.Len(t, refs, 1)

	// The reference is a sanitized filename that exists on disk with the
	// decoded bytes. Sanitization collapses underscores too.
	assert.Regexp(t, `^Spinach-Omelette-\d+-1\.png$`, refs[0])
	data, err := os.ReadFile(filepath.Join(dir, refs[0]))
	require.NoError(t, err)
	assert.Equal(t, pngPayload, data)
}

func TestGenerateRecipeImagesMultiplePredictionsGetDistinctNames(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	client := newImageGenServer(t, store, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(predictionsBody(pngPayload, pngPayload))
	})

	refs, err := client.GenerateRecipeImages(context.Background(), "Tacos")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1])
}

func TestGenerateRecipeImagesZeroPredictions(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	client := newImageGenServer(t, store, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions": []}`))
	})

	refs, err := client.GenerateRecipeImages(context.Background(), "Tacos")
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.NotNil(t, refs)
}

func TestGenerateRecipeImagesServiceError(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	client := newImageGenServer(t, store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err = client.GenerateRecipeImages(context.Background(), "Tacos")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.GenerationService))
}

func TestGenerateRecipeImagesBadBase64(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	client := newImageGenServer(t, store, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predictions": [{"bytesBase64Encoded": "!!not base64!!"}]}`))
	})

	_, err = client.GenerateRecipeImages(context.Background(), "Tacos")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.GenerationService))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Pasta-Primavera-1-1.png", SanitizeFilename("Pasta Primavera_1_1.png"))
	assert.Equal(t, "Cr-me-Br-l-e.png", SanitizeFilename("Crème Brûlée.png"))
	assert.Equal(t, "plain.png", SanitizeFilename("plain.png"))
}
