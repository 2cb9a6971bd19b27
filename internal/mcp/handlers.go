package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docqa/internal/documents"
	"github.com/ziadkadry99/docqa/internal/index"
	"github.com/ziadkadry99/docqa/internal/qa"
)

// handleAskDocuments answers a question from the indexed documents.
func (s *Server) handleAskDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer, err := s.answerer.Answer(ctx, qa.Request{
		Question:    question,
		TopK:        request.GetInt("top_k", 0),
		DocumentIDs: splitIDs(request.GetString("document_ids", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("question failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatAnswer(answer)), nil
}

// handleSearchDocuments returns the passages most similar to a query.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	passages, err := s.answerer.Search(ctx, qa.Request{
		Question:    query,
		TopK:        request.GetInt("limit", 0),
		DocumentIDs: splitIDs(request.GetString("document_ids", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(passages) == 0 {
		return mcp.NewToolResultText("No results found. Upload documents with `docqa ingest` first."), nil
	}

	return mcp.NewToolResultText(formatPassages(passages)), nil
}

// handleListDocuments lists uploaded documents.
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := s.catalog.List(ctx, request.GetString("collection", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	if len(recs) == 0 {
		return mcp.NewToolResultText("No documents uploaded."), nil
	}
	return mcp.NewToolResultText(formatRecords(recs)), nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func formatAnswer(a *qa.Answer) string {
	var sb strings.Builder
	sb.WriteString(a.Answer)
	sb.WriteString("\n")

	if len(a.Sources) > 0 {
		sb.WriteString("\nSources:\n")
		for _, src := range a.Sources {
			sb.WriteString(fmt.Sprintf("- %s (%s), page %d\n", src.DocumentTitle, src.DocumentID, src.PageNumber))
		}
	}
	return sb.String()
}

// formatPassages renders passages for AI agent consumption.
func formatPassages(passages []index.Passage) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d passage(s):\n", len(passages)))

	for i, p := range passages {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Document: %s (%s)\n", p.Title, p.DocumentID))
		sb.WriteString(fmt.Sprintf("Page: %d\n", p.PageNumber))
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", p.Score*100))
		sb.WriteString("\n")
		sb.WriteString(p.Content)
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatRecords(recs []documents.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d document(s):\n", len(recs)))
	for _, r := range recs {
		sb.WriteString(fmt.Sprintf("- %s: %s (%d pages", r.ID, r.Title, r.PageCount))
		if r.Collection != "" {
			sb.WriteString(", collection " + r.Collection)
		}
		sb.WriteString(fmt.Sprintf(", uploaded %s)\n", r.UploadedAt.Format("2006-01-02")))
	}
	return sb.String()
}
