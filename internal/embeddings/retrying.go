package embeddings

import (
	"context"

	"github.com/ziadkadry99/docqa/internal/retry"
)

// Retrying retries transient failures of the wrapped Embedder.
type Retrying struct {
	Embedder
	policy retry.Policy
}

// NewRetrying wraps e with the given retry policy.
func NewRetrying(e Embedder, policy retry.Policy) *Retrying {
	return &Retrying{Embedder: e, policy: policy}
}

func (r *Retrying) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		out, err = r.Embedder.Embed(ctx, texts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
