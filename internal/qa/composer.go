// Package qa answers questions from retrieved document passages.
package qa

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/docqa/internal/docerr"
	"github.com/ziadkadry99/docqa/internal/index"
	"github.com/ziadkadry99/docqa/internal/llm"
)

const (
	answerTemperature = 0.2
	answerMaxTokens   = 2048
)

// Retriever finds passages relevant to a query. *index.Index satisfies it.
type Retriever interface {
	Search(ctx context.Context, query string, k int, docIDs []string) ([]index.Passage, error)
}

// Composer retrieves passages for a question and asks the model to answer
// from them alone.
type Composer struct {
	retriever   Retriever
	provider    llm.Provider
	model       string
	defaultTopK int
	maxTopK     int
}

// New creates a Composer. Non-positive topK bounds fall back to the
// package defaults.
func New(retriever Retriever, provider llm.Provider, model string, defaultTopK, maxTopK int) *Composer {
	if maxTopK <= 0 {
		maxTopK = MaxTopK
	}
	if defaultTopK <= 0 || defaultTopK > maxTopK {
		defaultTopK = min(DefaultTopK, maxTopK)
	}
	return &Composer{
		retriever:   retriever,
		provider:    provider,
		model:       model,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// Validate checks the question length and TopK range and returns the
// effective TopK.
func (c *Composer) Validate(req Request) (int, error) {
	if strings.TrimSpace(req.Question) == "" {
		return 0, fmt.Errorf("%w: question is required", docerr.ErrValidation)
	}
	if n := utf8.RuneCountInString(req.Question); n > MaxQuestionLength {
		return 0, fmt.Errorf("%w: question must be at most %d characters, got %d", docerr.ErrValidation, MaxQuestionLength, n)
	}
	topK := req.TopK
	if topK == 0 {
		topK = c.defaultTopK
	}
	if topK < 1 || topK > c.maxTopK {
		return 0, fmt.Errorf("%w: top_k must be between 1 and %d, got %d", docerr.ErrValidation, c.maxTopK, req.TopK)
	}
	return topK, nil
}

// Search returns the raw passages a question would be answered from.
func (c *Composer) Search(ctx context.Context, req Request) ([]index.Passage, error) {
	topK, err := c.Validate(req)
	if err != nil {
		return nil, err
	}
	passages, err := c.retriever.Search(ctx, req.Question, topK, req.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}
	return passages, nil
}

// Answer retrieves passages and asks the model for a grounded answer. When
// nothing is retrieved it returns NoResultsAnswer without calling the model.
func (c *Composer) Answer(ctx context.Context, req Request) (*Answer, error) {
	passages, err := c.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return &Answer{Answer: NoResultsAnswer, Sources: []Source{}}, nil
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPrompt(req.Question, passages)},
		},
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w: %w", docerr.ErrGeneration, err)
	}

	return &Answer{
		Answer:  resp.Content,
		Sources: sourcesFor(passages),
	}, nil
}
