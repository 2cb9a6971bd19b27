package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ziadkadry99/docqa/internal/retry"
)

const (
	googleAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	// Upper bound on requests per batchEmbedContents call.
	googleMaxBatchSize = 100
)

// GoogleModel represents a supported Google embedding model.
type GoogleModel string

const (
	ModelTextEmbedding004   GoogleModel = "text-embedding-004"
	ModelGeminiEmbedding001 GoogleModel = "gemini-embedding-001"
)

func (m GoogleModel) dimensions() int {
	switch m {
	case ModelTextEmbedding004:
		return 768
	case ModelGeminiEmbedding001:
		return 3072
	default:
		return 768
	}
}

// GoogleEmbedder generates embeddings using the Gemini batchEmbedContents API.
type GoogleEmbedder struct {
	apiKey     string
	model      GoogleModel
	baseURL    string
	httpClient *http.Client
}

// NewGoogleEmbedder creates a new Google embedder.
func NewGoogleEmbedder(apiKey string, model GoogleModel) *GoogleEmbedder {
	return &GoogleEmbedder{
		apiKey:     apiKey,
		model:      model,
		baseURL:    googleAPIBaseURL,
		httpClient: &http.Client{},
	}
}

func (e *GoogleEmbedder) Name() string {
	return string(e.model)
}

func (e *GoogleEmbedder) Dimensions() int {
	return e.model.dimensions()
}

type googleBatchRequest struct {
	Requests []googleEmbedRequest `json:"requests"`
}

type googleEmbedRequest struct {
	Model   string        `json:"model"`
	Content googleContent `json:"content"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += googleMaxBatchSize {
		end := min(i+googleMaxBatchSize, len(texts))
		batch, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	return results, nil
}

func (e *GoogleEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	modelRef := "models/" + string(e.model)
	reqs := make([]googleEmbedRequest, len(texts))
	for i, text := range texts {
		reqs[i] = googleEmbedRequest{
			Model:   modelRef,
			Content: googleContent{Parts: []googlePart{{Text: text}}},
		}
	}

	body, err := json.Marshal(googleBatchRequest{Requests: reqs})
	if err != nil {
		return nil, fmt.Errorf("marshal google embed request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:batchEmbedContents?key=%s", e.baseURL, e.model, e.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create google embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google embed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &retry.StatusError{Service: "google embeddings", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result googleBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode google embed response: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("google returned %d embeddings, expected %d", len(result.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if len(emb.Values) == 0 {
			return nil, fmt.Errorf("google returned an empty embedding at position %d", i)
		}
		out[i] = emb.Values
	}
	return out, nil
}
