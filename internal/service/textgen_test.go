package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
)

func sseChunk(text string) string {
	chunk := generateContentResponse{}
	chunk.Candidates = []struct {
		Content genContent `json:"content"`
	}{
		{Content: genContent{Role: "model", Parts: []genPart{{Text: text}}}},
	}
	data, _ := json.Marshal(chunk)
	return fmt.Sprintf("data: %s\n\n", data)
}

func newTextGenServer(t *testing.T, handler http.HandlerFunc) *TextGenClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTextGenClient(TextGenConfig{Endpoint: srv.URL}, nil, zap.NewNop())
}

func TestGenerateRecipeTextConcatenatesStream(t *testing.T) {
	client := newTextGenServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "eggs, spinach")
		assert.Contains(t, req.Contents[0].Parts[0].Text, "vegetarian")
		require.NotNil(t, req.SystemInstruction)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk(`{"title": "Spin`))
		fmt.Fprint(w, sseChunk(`ach Omelette"`))
		fmt.Fprint(w, sseChunk(`}`))
	})

	text, err := client.GenerateRecipeText(context.Background(), "eggs, spinach", "vegetarian")
	require.NoError(t, err)
	assert.Equal(t, `{"title": "Spinach Omelette"}`, text)
}

func TestGenerateRecipeTextServiceError(t *testing.T) {
	client := newTextGenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GenerateRecipeText(context.Background(), "eggs", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.GenerationService))
}

func TestGenerateRecipeTextQuotaExceeded(t *testing.T) {
	client := newTextGenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GenerateRecipeText(context.Background(), "eggs", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.GenerationService))
	assert.Contains(t, err.Error(), "quota")
}

func TestGenerateRecipeTextEmptyStream(t *testing.T) {
	client := newTextGenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
	})

	_, err := client.GenerateRecipeText(context.Background(), "eggs", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.GenerationService))
}

func TestGenerateRecipeTextIgnoresNonDataLines(t *testing.T) {
	client := newTextGenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, sseChunk("hello"))
		fmt.Fprint(w, "\n")
		fmt.Fprint(w, sseChunk(" world"))
	})

	text, err := client.GenerateRecipeText(context.Background(), "eggs", "")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}
