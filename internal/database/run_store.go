package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/samparkk13/fantasyedge-ai/internal/utils"
)

const runKeyPrefix = "fantasyedge:runs:"

// RunStore keeps the report of the most recent run of each batch kind in
// Redis. Reports expire after ttl; zero keeps them indefinitely.
type RunStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRunStore(client *redis.Client, ttl time.Duration) *RunStore {
	return &RunStore{client: client, ttl: ttl}
}

// Save replaces the stored report for kind.
func (s *RunStore) Save(ctx context.Context, kind models.RunKind, report interface{}) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode %s report: %w", kind, err)
	}
	if err := s.client.Set(ctx, runKeyPrefix+string(kind), data, s.ttl).Err(); err != nil {
		return utils.NewPersistenceError("save "+string(kind)+" report", err)
	}
	return nil
}

// Latest returns the raw JSON of the last report for kind.
func (s *RunStore) Latest(ctx context.Context, kind models.RunKind) (json.RawMessage, error) {
	data, err := s.client.Get(ctx, runKeyPrefix+string(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, utils.NewNotFoundError(string(kind)+" report", "")
		}
		return nil, fmt.Errorf("failed to read %s report: %w", kind, err)
	}
	return json.RawMessage(data), nil
}
