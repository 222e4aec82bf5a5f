package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/samparkk13/fantasyedge-ai/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewTestRedis(t *testing.T) {
	mr, client := NewTestRedis(t)

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMockPlayerStore_NilResults(t *testing.T) {
	store := new(MockPlayerStore)
	store.On("GetByID", mock.Anything, "missing").Return(nil, errors.New("not found"))
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil, false, errors.New("down"))

	p, err := store.GetByID(context.Background(), "missing")
	assert.Nil(t, p)
	assert.Error(t, err)

	p, inserted, err := store.Upsert(context.Background(), models.PlayerUpsert{SourceID: "1"})
	assert.Nil(t, p)
	assert.False(t, inserted)
	assert.Error(t, err)
	store.AssertExpectations(t)
}
