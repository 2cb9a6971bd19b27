package vectordb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

func TestPointIDIsStableUUID(t *testing.T) {
	a := pointID("doc:1:0")
	if a != pointID("doc:1:0") {
		t.Error("pointID is not deterministic")
	}
	if a == pointID("doc:1:1") {
		t.Error("different chunks must map to different points")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("pointID %q is not a UUID: %v", a, err)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	doc := Document{
		ID:      "doc-1:2:3",
		Content: "chunk body",
		Metadata: ChunkMetadata{
			DocumentID: "doc-1",
			Title:      "Annual Report",
			PageNumber: 2,
			ChunkIndex: 3,
		},
	}

	got := documentFromPayload(qdrant.NewValueMap(payloadFor(doc)))
	if got.ID != doc.ID || got.Content != doc.Content || got.Metadata != doc.Metadata {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, doc)
	}
}

func TestParseHostPort(t *testing.T) {
	tests := []struct {
		addr     string
		wantHost string
		wantPort int
	}{
		{"qdrant:6334", "qdrant", 6334},
		{"10.0.0.5:7000", "10.0.0.5", 7000},
		{":6000", "localhost", 6000},
		{"", "localhost", 6334},
		{"bad:port", "bad", 6334},
	}
	for _, tt := range tests {
		host, port := parseHostPort(tt.addr, "localhost", 6334)
		if host != tt.wantHost || port != tt.wantPort {
			t.Errorf("parseHostPort(%q) = %s:%d, want %s:%d", tt.addr, host, port, tt.wantHost, tt.wantPort)
		}
	}
}
