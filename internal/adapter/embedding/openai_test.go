package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type fakeEmbeddingResponse struct {
	Object string              `json:"object"`
	Data   []fakeEmbeddingData `json:"data"`
	Model  string              `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// newFakeServer answers /embeddings with vector {len(input), index} for every input,
// listing entries in reverse order to exercise index-based reordering.
func newFakeServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if requests != nil {
			atomic.AddInt32(requests, 1)
		}

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := fakeEmbeddingResponse{Object: "list", Model: req.Model}
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, fakeEmbeddingData{
				Object:    "embedding",
				Embedding: []float32{float32(len(req.Input[i])), float32(i)},
				Index:     i,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	server := newFakeServer(t, nil)
	defer server.Close()

	t.Setenv("GALAXY_TEST_KEY", "test-key")
	emb, err := NewOpenAICompatibleEmbedder("GALAXY_TEST_KEY", "text-embedding-3-small", server.URL)
	require.NoError(t, err)

	got, err := emb.Embed(context.Background(), []string{"a", "bbb"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, []float32{1, 0}, got[0])
	assert.Equal(t, []float32{3, 1}, got[1])
	assert.Equal(t, 1536, emb.Dimension())
	assert.Equal(t, "text-embedding-3-small", emb.ModelName())
}

func TestOpenAIEmbedder_SplitsLargeBatches(t *testing.T) {
	var requests int32
	server := newFakeServer(t, &requests)
	defer server.Close()

	t.Setenv("GALAXY_TEST_KEY", "test-key")
	emb, err := NewOpenAICompatibleEmbedder("GALAXY_TEST_KEY", "m", server.URL)
	require.NoError(t, err)

	texts := make([]string, maxBatch+5)
	for i := range texts {
		texts[i] = "x"
	}

	got, err := emb.Embed(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, got, len(texts))
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestOpenAIEmbedder_MissingKey(t *testing.T) {
	t.Setenv("GALAXY_TEST_KEY", "")
	_, err := NewOpenAICompatibleEmbedder("GALAXY_TEST_KEY", "m", "http://localhost")
	assert.Error(t, err)
}

func TestOpenAIEmbedder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	t.Setenv("GALAXY_TEST_KEY", "test-key")
	emb, err := NewOpenAICompatibleEmbedder("GALAXY_TEST_KEY", "m", server.URL)
	require.NoError(t, err)

	_, err = emb.Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestOpenAIEmbedder_Empty(t *testing.T) {
	t.Setenv("GALAXY_TEST_KEY", "test-key")
	emb, err := NewOpenAICompatibleEmbedder("GALAXY_TEST_KEY", "m", "http://127.0.0.1:1")
	require.NoError(t, err)

	got, err := emb.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOllamaEmbedder_Embed(t *testing.T) {
	server := newFakeServer(t, nil)
	defer server.Close()

	emb, err := NewOllamaEmbedder("all-minilm", server.URL, 0)
	require.NoError(t, err)

	got, err := emb.Embed(context.Background(), []string{"hello", "hi"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, float32(5), got[0][0])
	assert.Equal(t, float32(2), got[1][0])
	assert.Equal(t, 384, emb.Dimension())
}
