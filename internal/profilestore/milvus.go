package profilestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Common errors for Milvus operations
var (
	ErrInvalidDimension = errors.New("invalid vector dimension")
	ErrEmptyRecord      = errors.New("no profile provided for insertion")
	ErrConnectionFailed = errors.New("failed to connect to Milvus")
	ErrInsertFailed     = errors.New("failed to insert profile")
	ErrSearchFailed     = errors.New("failed to search profiles")
)

// MilvusConfig holds configuration for Milvus connection and collection.
type MilvusConfig struct {
	Address        string // Milvus server address (e.g., "localhost:19530")
	CollectionName string // Name of the collection
	Dimension      int    // Vector dimension (e.g., 3072 for text-embedding-3-large)

	// HNSW index parameters
	M              int // HNSW M parameter (default: 16)
	EfConstruction int // HNSW efConstruction (default: 256)
}

// DefaultMilvusConfig returns default configuration from environment variables.
func DefaultMilvusConfig() MilvusConfig {
	address := os.Getenv("MILVUS_ADDRESS")
	if address == "" {
		address = "localhost:19530"
	}

	collection := os.Getenv("MILVUS_COLLECTION")
	if collection == "" {
		collection = "stylo_profiles"
	}

	return MilvusConfig{
		Address:        address,
		CollectionName: collection,
		Dimension:      3072, // text-embedding-3-large
		M:              16,
		EfConstruction: 256,
	}
}

// MilvusStore persists profile embeddings in a Milvus collection.
type MilvusStore struct {
	client client.Client
	config MilvusConfig
}

// NewMilvusStore connects to Milvus and ensures the profile collection
// exists with the proper schema.
func NewMilvusStore(ctx context.Context, config MilvusConfig) (*MilvusStore, error) {
	if config.Dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	c, err := client.NewGrpcClient(ctx, config.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &MilvusStore{
		client: c,
		config: config,
	}

	if err := store.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the collection with schema if it doesn't exist.
func (m *MilvusStore) ensureCollection(ctx context.Context) error {
	has, err := m.client.HasCollection(ctx, m.config.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if has {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: m.config.CollectionName,
		AutoID:         true,
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeInt64,
				PrimaryKey: true,
				AutoID:     true,
			},
			{
				Name:     "username",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "summary",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
			{
				Name:     "embedding",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", m.config.Dimension),
				},
			},
			{
				Name:     "analyzed_at",
				DataType: entity.FieldTypeInt64, // Unix timestamp
			},
			{
				Name:     "repo_count",
				DataType: entity.FieldTypeInt64,
			},
		},
	}

	if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx, err := entity.NewIndexHNSW(entity.COSINE, m.config.M, m.config.EfConstruction)
	if err != nil {
		return fmt.Errorf("failed to create index config: %w", err)
	}

	if err := m.client.CreateIndex(ctx, m.config.CollectionName, "embedding", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := m.client.LoadCollection(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	return nil
}

// Insert stores one profile with its embedding.
func (m *MilvusStore) Insert(ctx context.Context, record ProfileRecord, embedding []float32) error {
	if record.Username == "" {
		return ErrEmptyRecord
	}
	if len(embedding) != m.config.Dimension {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(embedding))
	}

	columns := []entity.Column{
		entity.NewColumnVarChar("username", []string{record.Username}),
		entity.NewColumnVarChar("summary", []string{record.Summary}),
		entity.NewColumnFloatVector("embedding", m.config.Dimension, [][]float32{embedding}),
		entity.NewColumnInt64("analyzed_at", []int64{record.AnalyzedAt.Unix()}),
		entity.NewColumnInt64("repo_count", []int64{int64(record.RepoCount)}),
	}

	if _, err := m.client.Insert(ctx, m.config.CollectionName, "", columns...); err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}

	if err := m.client.Flush(ctx, m.config.CollectionName, false); err != nil {
		return fmt.Errorf("failed to flush data: %w", err)
	}

	return nil
}

// Search returns the topK profiles most similar to the query vector,
// excluding the named user's own record.
func (m *MilvusStore) Search(ctx context.Context, queryVector []float32, topK int, excludeUsername string) ([]SimilarProfile, error) {
	if len(queryVector) != m.config.Dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidDimension, m.config.Dimension, len(queryVector))
	}

	expr := ""
	if excludeUsername != "" {
		expr = fmt.Sprintf(`username != "%s"`, excludeUsername)
	}

	sp, err := entity.NewIndexHNSWSearchParam(64) // ef parameter for search
	if err != nil {
		return nil, fmt.Errorf("failed to create search params: %w", err)
	}

	vectors := []entity.Vector{entity.FloatVector(queryVector)}
	outputFields := []string{"username", "analyzed_at", "repo_count"}

	results, err := m.client.Search(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		expr,
		outputFields,
		vectors,
		"embedding",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	if len(results) == 0 {
		return []SimilarProfile{}, nil
	}

	profiles := make([]SimilarProfile, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		profile := SimilarProfile{
			Score: results[0].Scores[i],
		}

		for _, field := range results[0].Fields {
			switch field.Name() {
			case "username":
				profile.Username = field.(*entity.ColumnVarChar).Data()[i]
			case "analyzed_at":
				profile.AnalyzedAt = time.Unix(field.(*entity.ColumnInt64).Data()[i], 0)
			case "repo_count":
				profile.RepoCount = int(field.(*entity.ColumnInt64).Data()[i])
			}
		}

		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Exists checks which usernames already have a stored profile.
func (m *MilvusStore) Exists(ctx context.Context, usernames []string) (map[string]bool, error) {
	if len(usernames) == 0 {
		return map[string]bool{}, nil
	}

	expr := fmt.Sprintf(`username == "%s"`, usernames[0])
	for i := 1; i < len(usernames); i++ {
		expr = fmt.Sprintf(`%s or username == "%s"`, expr, usernames[i])
	}

	results, err := m.client.Query(
		ctx,
		m.config.CollectionName,
		nil, // partition names
		expr,
		[]string{"username"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}

	existenceMap := make(map[string]bool, len(usernames))
	for _, name := range usernames {
		existenceMap[name] = false
	}

	for _, column := range results {
		if column.Name() == "username" {
			if varcharCol, ok := column.(*entity.ColumnVarChar); ok {
				for _, name := range varcharCol.Data() {
					existenceMap[name] = true
				}
			}
		}
	}

	return existenceMap, nil
}

// Delete removes stored profiles by username.
func (m *MilvusStore) Delete(ctx context.Context, usernames []string) error {
	if len(usernames) == 0 {
		return nil
	}

	expr := fmt.Sprintf(`username == "%s"`, usernames[0])
	for i := 1; i < len(usernames); i++ {
		expr = fmt.Sprintf(`%s or username == "%s"`, expr, usernames[i])
	}

	if err := m.client.Delete(ctx, m.config.CollectionName, "", expr); err != nil {
		return fmt.Errorf("failed to delete profiles: %w", err)
	}

	return nil
}

// GetStats returns collection statistics.
func (m *MilvusStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats, err := m.client.GetCollectionStatistics(ctx, m.config.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return map[string]interface{}{
		"row_count": stats["row_count"],
	}, nil
}

// Close releases resources and closes the Milvus connection.
func (m *MilvusStore) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
