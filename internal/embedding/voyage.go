package embedding

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
)

const (
	// DefaultVoyageModel is the default Voyage AI embedding model.
	DefaultVoyageModel = "voyage-3"

	// VoyageAPIEndpoint is the Voyage AI API endpoint.
	VoyageAPIEndpoint = "https://api.voyageai.com/v1/embeddings"
)

// VoyageClient implements Embedder using Voyage AI. Utterances and intent
// exemplars are both short queries, so every call is sent with input_type
// "query" and server-side truncation enabled.
type VoyageClient struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

var _ Embedder = (*VoyageClient)(nil)

// NewVoyageClient creates a Voyage AI client. An empty model selects DefaultVoyageModel.
func NewVoyageClient(apiKey, model string) (*VoyageClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("voyage: API key required")
	}
	return &VoyageClient{
		apiKey:   apiKey,
		model:    cmp.Or(model, DefaultVoyageModel),
		endpoint: VoyageAPIEndpoint,
		client:   &http.Client{},
	}, nil
}

// Model returns the configured embedding model name.
func (c *VoyageClient) Model() string {
	return c.model
}

type voyageItem struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// Embed embeds a single utterance.
func (c *VoyageClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request and returns the vectors in input order.
func (c *VoyageClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	items, err := c.post(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(items) != len(texts) {
		return nil, fmt.Errorf("voyage: got %d embeddings for %d inputs", len(items), len(texts))
	}

	slices.SortFunc(items, func(a, b voyageItem) int { return a.Index - b.Index })
	out := make([][]float32, len(items))
	for i, it := range items {
		if it.Index != i {
			return nil, fmt.Errorf("voyage: unexpected embedding index %d", it.Index)
		}
		out[i] = it.Embedding
	}
	return out, nil
}

func (c *VoyageClient) post(ctx context.Context, texts []string) ([]voyageItem, error) {
	body, err := json.Marshal(map[string]any{
		"input":      texts,
		"model":      c.model,
		"input_type": "query",
		"truncation": true,
	})
	if err != nil {
		return nil, fmt.Errorf("voyage: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("voyage: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voyage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Detail != "" {
			return nil, fmt.Errorf("voyage: status %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return nil, fmt.Errorf("voyage: status %d: %s", resp.StatusCode, raw)
	}

	var decoded struct {
		Data []voyageItem `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("voyage: decode response: %w", err)
	}
	return decoded.Data, nil
}
