package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

const (
	retrieveQuery = "SELECT embedding FROM %s.%s WHERE entity_type = ? AND entity_id = ?"
	persistQuery  = "INSERT INTO %s.%s (entity_type, entity_id, embedding, updated_at) VALUES (?, ?, ?, ?)"
	countQuery    = "SELECT COUNT(*) FROM %s.%s"
)

// ScyllaStore keeps embeddings in a table keyed by ((entity_type), entity_id):
//
//	CREATE TABLE <keyspace>.<table> (
//	    entity_type text, entity_id text, embedding list<float>, updated_at timestamp,
//	    PRIMARY KEY ((entity_type), entity_id))
type ScyllaStore struct {
	session  *gocql.Session
	keyspace string
	table    string
	queries  scyllaQueries
}

type scyllaQueries struct {
	retrieve string
	persist  string
	count    string
}

func NewScyllaStore(session *gocql.Session, keyspace, table string) *ScyllaStore {
	return &ScyllaStore{
		session:  session,
		keyspace: keyspace,
		table:    table,
		queries:  buildScyllaQueries(keyspace, table),
	}
}

func buildScyllaQueries(keyspace, table string) scyllaQueries {
	return scyllaQueries{
		retrieve: fmt.Sprintf(retrieveQuery, keyspace, table),
		persist:  fmt.Sprintf(persistQuery, keyspace, table),
		count:    fmt.Sprintf(countQuery, keyspace, table),
	}
}

func (s *ScyllaStore) GetEmbedding(ctx context.Context, entityType, entityID string) ([]float32, bool, error) {
	var embedding []float32
	err := s.session.Query(s.queries.retrieve, entityType, entityID).WithContext(ctx).Scan(&embedding)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("scylla get %s: %w", Key(entityType, entityID), err)
	}
	return embedding, true, nil
}

func (s *ScyllaStore) SetEmbedding(ctx context.Context, entityType, entityID string, embedding []float32) error {
	err := s.session.Query(s.queries.persist, entityType, entityID, embedding, time.Now()).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("scylla set %s: %w", Key(entityType, entityID), err)
	}
	return nil
}

func (s *ScyllaStore) GetSystemStats(ctx context.Context) (SystemStats, error) {
	var count int64
	if err := s.session.Query(s.queries.count).WithContext(ctx).Scan(&count); err != nil {
		return SystemStats{}, fmt.Errorf("scylla count %s.%s: %w", s.keyspace, s.table, err)
	}
	return SystemStats{TableStats: map[string]TableStats{
		s.keyspace + "." + s.table: {Entries: count, Backend: StoreTypeScylla},
	}}, nil
}
