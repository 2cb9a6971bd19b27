package vectordb

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig locates a Qdrant server and collection.
type QdrantConfig struct {
	Addr       string // host:port of the gRPC endpoint
	APIKey     string
	UseTLS     bool
	Collection string
	Dimensions int
}

// QdrantStore implements VectorStore on a Qdrant collection using cosine
// distance. Chunk ids are mapped to deterministic UUID point ids.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore connects to Qdrant and creates the collection and its
// document id index when missing.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig) (*QdrantStore, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: vector dimensions must be positive")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	host, port := parseHostPort(cfg.Addr, "localhost", 6334)
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect %s:%d: %w", host, port, err)
	}

	s := &QdrantStore{client: client, collection: cfg.Collection}
	if err := s.ensureCollection(ctx, cfg.Dimensions); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context, dims int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("qdrant: check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dims),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", s.collection, err)
	}

	wait := true
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		Wait:           &wait,
		FieldName:      keyDocumentID,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("qdrant: index %s: %w", keyDocumentID, err)
	}
	return nil
}

func (s *QdrantStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID(doc.ID)),
			Vectors: qdrant.NewVectors(doc.Embedding...),
			Payload: qdrant.NewValueMap(payloadFor(doc)),
		}
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, embedding []float32, limit int, filter *SearchFilter) ([]SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	n := uint64(limit)
	req := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          &n,
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	}
	ids, restricted := filter.documentIDs()
	if restricted && len(ids) == 0 {
		return nil, nil
	}
	if restricted {
		req.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchKeywords(keyDocumentID, ids...)},
		}
	}

	points, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant query: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, SearchResult{
			Document:   documentFromPayload(p.Payload),
			Similarity: p.Score,
		})
	}
	return results, nil
}

func (s *QdrantStore) DeleteByDocumentID(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("document id is required")
	}
	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchKeywords(keyDocumentID, documentID)},
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete: %w", err)
	}
	return nil
}

func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	exact := true
	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count: %w", err)
	}
	return int(n), nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// pointID maps a chunk id onto a stable UUID, since Qdrant only accepts
// UUIDs or integers as point ids.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

func payloadFor(doc Document) map[string]any {
	return map[string]any{
		"chunk_id":    doc.ID,
		keyContent:    doc.Content,
		keyDocumentID: doc.Metadata.DocumentID,
		keyTitle:      doc.Metadata.Title,
		keyPage:       int64(doc.Metadata.PageNumber),
		keyChunkIndex: int64(doc.Metadata.ChunkIndex),
	}
}

func documentFromPayload(p map[string]*qdrant.Value) Document {
	str := func(k string) string {
		if v, ok := p[k]; ok {
			return v.GetStringValue()
		}
		return ""
	}
	num := func(k string) int {
		if v, ok := p[k]; ok {
			return int(v.GetIntegerValue())
		}
		return 0
	}
	return Document{
		ID:      str("chunk_id"),
		Content: str(keyContent),
		Metadata: ChunkMetadata{
			DocumentID: str(keyDocumentID),
			Title:      str(keyTitle),
			PageNumber: num(keyPage),
			ChunkIndex: num(keyChunkIndex),
		},
	}
}

// parseHostPort splits "host:port", falling back to the defaults on error.
func parseHostPort(addr string, defaultHost string, defaultPort int) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, defaultPort
	}
	return host, port
}
