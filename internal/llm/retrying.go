package llm

import (
	"context"

	"github.com/ziadkadry99/docqa/internal/retry"
)

// RetryingProvider retries transient failures of the wrapped Provider.
type RetryingProvider struct {
	provider Provider
	policy   retry.Policy
}

// NewRetryingProvider wraps provider with the given retry policy.
func NewRetryingProvider(provider Provider, policy retry.Policy) Provider {
	return &RetryingProvider{provider: provider, policy: policy}
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var resp *CompletionResponse
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		resp, err = r.provider.Complete(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
