package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docqa/internal/documents"
	"github.com/ziadkadry99/docqa/internal/index"
	"github.com/ziadkadry99/docqa/internal/qa"
)

// mockAnswerer records requests and returns canned results.
type mockAnswerer struct {
	lastReq  qa.Request
	answer   *qa.Answer
	passages []index.Passage
	err      error
}

func (m *mockAnswerer) Answer(_ context.Context, req qa.Request) (*qa.Answer, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAnswerer) Search(_ context.Context, req qa.Request) ([]index.Passage, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.passages, nil
}

type mockCatalog struct {
	recs          []documents.Record
	gotCollection string
}

func (m *mockCatalog) List(_ context.Context, collection string) ([]documents.Record, error) {
	m.gotCollection = collection
	return m.recs, nil
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	// Verify tool names and required properties.
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_documents", askDocumentsTool, "ask_documents"},
		{"search_documents", searchDocumentsTool, "search_documents"},
		{"list_documents", listDocumentsTool, "list_documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	answerer := &mockAnswerer{}
	srv := NewServer(answerer, &mockCatalog{})

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.answerer != answerer {
		t.Error("answerer not set correctly")
	}
}

func TestHandleAskDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("answer with sources", func(t *testing.T) {
		answerer := &mockAnswerer{answer: &qa.Answer{
			Answer:  "Leave accrues monthly.",
			Sources: []qa.Source{{DocumentID: "d1", DocumentTitle: "Handbook", PageNumber: 4}},
		}}
		srv := NewServer(answerer, &mockCatalog{})

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"question":     "How does leave accrue?",
			"document_ids": "d1, d2 ,",
			"top_k":        float64(3),
		}
		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := textOf(t, result)
		if !strings.Contains(text, "Leave accrues monthly.") || !strings.Contains(text, "Handbook (d1), page 4") {
			t.Errorf("unexpected text:\n%s", text)
		}
		if answerer.lastReq.TopK != 3 {
			t.Errorf("TopK = %d, want 3", answerer.lastReq.TopK)
		}
		if got := answerer.lastReq.DocumentIDs; len(got) != 2 || got[0] != "d1" || got[1] != "d2" {
			t.Errorf("DocumentIDs = %v", got)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		srv := NewServer(&mockAnswerer{}, &mockCatalog{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("answer failure", func(t *testing.T) {
		srv := NewServer(&mockAnswerer{err: errors.New("generation error: quota")}, &mockCatalog{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "q"}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error")
		}
	})
}

func TestHandleSearchDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("passages", func(t *testing.T) {
		answerer := &mockAnswerer{passages: []index.Passage{
			{DocumentID: "d1", Title: "Manual", PageNumber: 2, Content: "Hold reset for ten seconds.", Score: 0.87},
		}}
		srv := NewServer(answerer, &mockCatalog{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "reset", "limit": float64(7)}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := textOf(t, result)
		for _, want := range []string{"Found 1 passage(s)", "Document: Manual (d1)", "Page: 2", "Similarity: 87.0%", "Hold reset"} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}
		if answerer.lastReq.TopK != 7 {
			t.Errorf("TopK = %d, want 7", answerer.lastReq.TopK)
		}
	})

	t.Run("empty results", func(t *testing.T) {
		srv := NewServer(&mockAnswerer{}, &mockCatalog{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := srv.handleSearchDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := NewServer(&mockAnswerer{}, &mockCatalog{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, _ := srv.handleSearchDocuments(ctx, req)
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleListDocuments(t *testing.T) {
	ctx := context.Background()
	catalog := &mockCatalog{recs: []documents.Record{
		{ID: "d1", Title: "Handbook", PageCount: 12, Collection: "hr", UploadedAt: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
	}}
	srv := NewServer(&mockAnswerer{}, catalog)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"collection": "hr"}
	result, err := srv.handleListDocuments(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := textOf(t, result)
	if !strings.Contains(text, "d1: Handbook (12 pages, collection hr, uploaded 2025-02-03)") {
		t.Errorf("unexpected text:\n%s", text)
	}
	if catalog.gotCollection != "hr" {
		t.Errorf("collection = %q, want hr", catalog.gotCollection)
	}

	empty := NewServer(&mockAnswerer{}, &mockCatalog{})
	result, _ = empty.handleListDocuments(ctx, mcp.CallToolRequest{})
	if textOf(t, result) != "No documents uploaded." {
		t.Errorf("unexpected empty listing: %s", textOf(t, result))
	}
}

func TestSplitIDs(t *testing.T) {
	if got := splitIDs(""); got != nil {
		t.Errorf("splitIDs(\"\") = %v, want nil", got)
	}
	got := splitIDs(" a,,b ")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitIDs = %v", got)
	}
}
