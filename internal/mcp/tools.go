package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askDocumentsTool defines the ask_documents MCP tool.
var askDocumentsTool = mcp.NewTool("ask_documents",
	mcp.WithDescription("Answer a question using only the uploaded PDF documents. Returns the answer with document and page citations."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question (up to 1000 characters)"),
	),
	mcp.WithString("document_ids",
		mcp.Description("Comma-separated document ids to restrict the search to"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Number of passages to retrieve (1-20, default 5)"),
	),
)

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Semantic search over the uploaded PDF documents. Returns matching passages with their document and page."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithString("document_ids",
		mcp.Description("Comma-separated document ids to restrict the search to"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of passages to return (1-20, default 5)"),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List uploaded documents with their ids, titles and page counts."),
	mcp.WithString("collection",
		mcp.Description("Only list documents in this collection"),
	),
)
