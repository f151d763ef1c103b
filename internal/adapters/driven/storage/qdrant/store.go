// Package qdrant implements driven.VectorStore on a Qdrant collection over
// gRPC. Chunks are points with a UUID id, the embedding as the single
// unnamed vector and user_id, asset_id, position, content and metadata in
// the payload. The collection uses Euclidean distance, so scores are L2
// distances and results come back nearest first.
package qdrant

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Payload keys.
const (
	keyUserID   = "user_id"
	keyAssetID  = "asset_id"
	keyPosition = "position"
	keyContent  = "content"
	keyMetadata = "metadata"
)

// Defaults.
const (
	DefaultAddress    = "localhost:6334"
	DefaultCollection = domain.DefaultCollection
)

// Config configures the Qdrant store.
type Config struct {
	// Address is the gRPC host:port.
	Address string

	// Collection is created on first Store if it does not exist.
	Collection string
}

// Store is a Qdrant-backed driven.VectorStore.
type Store struct {
	conn        *grpc.ClientConn
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	collection  string

	mu   sync.Mutex
	dims int // vector size of the collection, 0 until known
}

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// New connects to Qdrant. The connection is lazy; nothing is sent until
// the first call.
func New(cfg Config) (*Store, error) {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	conn, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant at %s: %w: %w", cfg.Address, domain.ErrStorage, err)
	}

	return &Store{
		conn:        conn,
		points:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
		collection:  cfg.Collection,
	}, nil
}

// Store upserts the chunk as one point, creating the collection sized to
// the embedding if needed.
func (s *Store) Store(ctx context.Context, chunk *domain.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}
	if chunk.ID == "" {
		chunk.ID = uuid.NewString()
	}

	dims, err := s.ensureCollection(ctx, len(chunk.Embedding))
	if err != nil {
		return err
	}
	if dims != len(chunk.Embedding) {
		return fmt.Errorf("collection %s holds %d-dimension vectors, chunk has %d: %w",
			s.collection, dims, len(chunk.Embedding), domain.ErrDimensionMismatch)
	}

	wait := true
	_, err = s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{{
			Id:      pointID(chunk.ID),
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: chunk.Embedding}}},
			Payload: chunkPayload(chunk),
		}},
	})
	if err != nil {
		return storageErr("upserting point", err)
	}
	return nil
}

// Query searches the collection with a filter on user_id and, when given,
// asset_id. A vector of the wrong size matches nothing.
func (s *Store) Query(
	ctx context.Context,
	userID string,
	vector []float32,
	assetIDs []string,
	topK int,
) ([]domain.RetrievedChunk, error) {
	if topK <= 0 {
		return []domain.RetrievedChunk{}, nil
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("empty query vector: %w", domain.ErrInvalidInput)
	}

	dims, err := s.collectionDims(ctx)
	if err != nil {
		return nil, err
	}
	if dims != len(vector) {
		if dims != 0 {
			logger.Debug("qdrant: query vector has %d dimensions, collection %d", len(vector), dims)
		}
		return []domain.RetrievedChunk{}, nil
	}

	resp, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Filter:         scopeFilter(userID, assetIDs),
		Limit:          uint64(topK),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, storageErr("searching points", err)
	}

	results := make([]domain.RetrievedChunk, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		payload := p.GetPayload()
		results = append(results, domain.RetrievedChunk{
			AssetID:  payload[keyAssetID].GetStringValue(),
			Content:  payload[keyContent].GetStringValue(),
			Metadata: metadataFromValue(payload[keyMetadata]),
			Distance: float64(p.GetScore()),
		})
	}
	return results, nil
}

// DeleteByAsset counts then deletes the asset's points.
func (s *Store) DeleteByAsset(ctx context.Context, assetID string) (int, error) {
	return s.deleteMatching(ctx, &qdrant.Filter{
		Must: []*qdrant.Condition{keywordCondition(keyAssetID, assetID)},
	})
}

// DeleteByAssetExcept counts then deletes the asset's points not in keep.
func (s *Store) DeleteByAssetExcept(ctx context.Context, assetID string, keep []string) (int, error) {
	filter := &qdrant.Filter{Must: []*qdrant.Condition{keywordCondition(keyAssetID, assetID)}}
	if len(keep) > 0 {
		filter.MustNot = []*qdrant.Condition{hasIDCondition(keep)}
	}
	return s.deleteMatching(ctx, filter)
}

// DeleteByIDs counts then deletes the points of the given chunks.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.deleteMatching(ctx, &qdrant.Filter{Must: []*qdrant.Condition{hasIDCondition(ids)}})
}

func (s *Store) deleteMatching(ctx context.Context, filter *qdrant.Filter) (int, error) {
	dims, err := s.collectionDims(ctx)
	if err != nil {
		return 0, err
	}
	if dims == 0 {
		return 0, nil
	}

	exact := true
	countResp, err := s.points.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Filter:         filter,
		Exact:          &exact,
	})
	if err != nil {
		return 0, storageErr("counting points", err)
	}
	n := int(countResp.GetResult().GetCount())
	if n == 0 {
		return 0, nil
	}

	wait := true
	_, err = s.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filter},
		},
	})
	if err != nil {
		return 0, storageErr("deleting points", err)
	}
	return n, nil
}

// Close closes the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// collectionDims returns the collection's vector size, or 0 if the
// collection does not exist yet.
func (s *Store) collectionDims(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDims(ctx)
}

// loadDims reads the collection's vector size. s.mu must be held.
func (s *Store) loadDims(ctx context.Context) (int, error) {
	if s.dims > 0 {
		return s.dims, nil
	}

	info, err := s.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: s.collection})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			return 0, nil
		}
		return 0, storageErr("getting collection", err)
	}
	s.dims = int(info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize())
	return s.dims, nil
}

// ensureCollection creates the collection with size dims and keyword
// indexes on user_id and asset_id when it is missing. It returns the
// collection's actual size, which differs from dims when another writer
// created it first with another size.
func (s *Store) ensureCollection(ctx context.Context, dims int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadDims(ctx)
	if err != nil || existing > 0 {
		return existing, err
	}

	logger.Info("qdrant: creating collection %s (%d dimensions)", s.collection, dims)
	_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dims),
					Distance: qdrant.Distance_Euclid,
				},
			},
		},
	})
	if err != nil {
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.AlreadyExists {
			return 0, storageErr("creating collection", err)
		}
		// Another writer created it first; its size wins.
		s.dims = 0
		return s.loadDims(ctx)
	}

	wait := true
	for _, field := range []string{keyUserID, keyAssetID} {
		_, err := s.points.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collection,
			Wait:           &wait,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			logger.Warn("qdrant: creating %s index: %v", field, err)
		}
	}

	s.dims = dims
	return dims, nil
}

func scopeFilter(userID string, assetIDs []string) *qdrant.Filter {
	must := []*qdrant.Condition{keywordCondition(keyUserID, userID)}
	if len(assetIDs) > 0 {
		must = append(must, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: keyAssetID,
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Keywords{
							Keywords: &qdrant.RepeatedStrings{Strings: assetIDs},
						},
					},
				},
			},
		})
	}
	return &qdrant.Filter{Must: must}
}

func hasIDCondition(chunkIDs []string) *qdrant.Condition {
	ids := make([]*qdrant.PointId, len(chunkIDs))
	for i, id := range chunkIDs {
		ids[i] = pointID(id)
	}
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_HasId{HasId: &qdrant.HasIdCondition{HasId: ids}},
	}
}

func keywordCondition(key, value string) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key:   key,
				Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: value}},
			},
		},
	}
}

// pointID maps a chunk ID to a Qdrant UUID point ID. Non-UUID IDs are
// hashed into a name-based UUID so the mapping is stable.
func pointID(chunkID string) *qdrant.PointId {
	id, err := uuid.Parse(chunkID)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID))
	}
	return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id.String()}}
}

func chunkPayload(chunk *domain.Chunk) map[string]*qdrant.Value {
	fields := make(map[string]*qdrant.Value, len(chunk.Metadata))
	for k, v := range chunk.Metadata {
		fields[k] = stringValue(v)
	}
	return map[string]*qdrant.Value{
		keyUserID:   stringValue(chunk.UserID),
		keyAssetID:  stringValue(chunk.AssetID),
		keyPosition: {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(chunk.Position)}},
		keyContent:  stringValue(chunk.Content),
		keyMetadata: {Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: fields}}},
	}
}

func metadataFromValue(v *qdrant.Value) map[string]string {
	fields := v.GetStructValue().GetFields()
	md := make(map[string]string, len(fields))
	for k, f := range fields {
		md[k] = f.GetStringValue()
	}
	return md
}

func stringValue(s string) *qdrant.Value {
	return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: s}}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("qdrant %s: %w: %w", op, domain.ErrStorage, err)
}
