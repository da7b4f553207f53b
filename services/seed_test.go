package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/database"
)

func TestSeederFillsEveryCollection(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t, nil)

	require.NoError(t, NewSeeder(db, 42).Seed(ctx, SeedCounts{Items: 3, Messages: 4, Events: 10}))

	for _, store := range db.Stores() {
		items, err := store.All(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 3, store.Schema().Collection)
	}

	page, err := db.MessageRepo().List(ctx, database.MessageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)

	recent, err := db.EventLog().Recent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, recent, 10)
	assert.True(t, recent[0].CreatedAt.Before(time.Now().Add(time.Minute)))
}
