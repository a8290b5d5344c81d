package embedding

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore keeps one point per entity in a single collection. Point ids are name-based
// UUIDs of the entity key, and entity type and id are kept in the payload.
type QdrantStore struct {
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	collection  string
}

func NewQdrantStore(client *qdrant.Client, collection string) *QdrantStore {
	return &QdrantStore{
		points:      qdrant.NewPointsClient(client.GetConnection()),
		collections: qdrant.NewCollectionsClient(client.GetConnection()),
		collection:  collection,
	}
}

// pointID maps an entity key to a stable UUID point id
func pointID(entityType, entityID string) *qdrant.PointId {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(Key(entityType, entityID)))
	return &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: id.String()}}
}

func (s *QdrantStore) GetEmbedding(ctx context.Context, entityType, entityID string) ([]float32, bool, error) {
	response, err := s.points.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{pointID(entityType, entityID)},
		WithVectors: &qdrant.WithVectorsSelector{
			SelectorOptions: &qdrant.WithVectorsSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("qdrant get %s: %w", Key(entityType, entityID), err)
	}
	result := response.GetResult()
	if len(result) == 0 {
		return nil, false, nil
	}
	return result[0].GetVectors().GetVector().GetData(), true, nil
}

func (s *QdrantStore) SetEmbedding(ctx context.Context, entityType, entityID string, embedding []float32) error {
	wait := true
	_, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{{
			Id: pointID(entityType, entityID),
			Payload: map[string]*qdrant.Value{
				"entity_type": {Kind: &qdrant.Value_StringValue{StringValue: entityType}},
				"entity_id":   {Kind: &qdrant.Value_StringValue{StringValue: entityID}},
			},
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: embedding}}},
		}},
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert %s: %w", Key(entityType, entityID), err)
	}
	return nil
}

func (s *QdrantStore) GetSystemStats(ctx context.Context) (SystemStats, error) {
	response, err := s.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: s.collection})
	if err != nil {
		return SystemStats{}, fmt.Errorf("qdrant collection info %s: %w", s.collection, err)
	}
	return SystemStats{TableStats: map[string]TableStats{
		s.collection: {Entries: int64(response.GetResult().GetPointsCount()), Backend: StoreTypeQdrant},
	}}, nil
}
