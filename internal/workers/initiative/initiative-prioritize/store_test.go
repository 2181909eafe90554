package initiativeprioritize

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/database"
	"productlab-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedisStore(t *testing.T, ttl time.Duration) (*RedisBoardStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBoardStore(client, ttl), mr
}

func TestMemoryBoardStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBoardStore()
	assert.Equal(t, config.StoreMemory, store.Name())

	board, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultInitiatives(), board)

	board[0].Name = "mutated"
	again, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "Lead focus view with simple score", again[0].Name)

	sorted, err := store.Update(ctx, "default", SortByScoreDescending)
	require.NoError(t, err)
	assert.Equal(t, "In-app onboarding tour for new users", sorted[0].Name)

	loaded, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, sorted, loaded)

	other, err := store.Load(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultInitiatives(), other)
}

func TestMemoryBoardStore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryBoardStore()
	_, err := store.Load(ctx, "default")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Update(ctx, "default", SortByScoreDescending)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryBoardStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBoardStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "default", SortByScoreDescending)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	board, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, board, 4)
	assert.Equal(t, "In-app onboarding tour for new users", board[0].Name)
}

func TestRedisBoardStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniRedisStore(t, time.Hour)
	assert.Equal(t, config.StoreRedis, store.Name())

	board, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultInitiatives(), board)
	assert.False(t, mr.Exists(BoardKey("default")), "load must not seed the key")

	sorted, err := store.Update(ctx, "default", SortByScoreDescending)
	require.NoError(t, err)
	assert.Equal(t, "In-app onboarding tour for new users", sorted[0].Name)

	raw, err := mr.Get("initiative:board:default")
	require.NoError(t, err)
	var stored []models.Initiative
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, sorted, stored)
	assert.Equal(t, time.Hour, mr.TTL(BoardKey("default")))

	loaded, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, sorted, loaded)
}

func TestRedisBoardStore_ConcurrentSorts(t *testing.T) {
	ctx := context.Background()
	store, _ := newMiniRedisStore(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "shared", SortByScoreDescending)
			if err != nil {
				assert.ErrorIs(t, err, ErrBoardContended)
			}
		}()
	}
	wg.Wait()

	board, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, board, 4)
	assert.Equal(t, "In-app onboarding tour for new users", board[0].Name)
}

func TestRedisBoardStore_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisBoardStore(&database.RedisClient{Client: client}, time.Minute)

	mock.ExpectGet(BoardKey("default")).SetErr(errors.New("connection refused"))

	_, err := store.Load(context.Background(), "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBoardStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniRedisStore(t, 0)
	require.NoError(t, mr.Set(BoardKey("default"), "not json"))

	_, err := store.Load(ctx, "default")
	assert.Error(t, err)
	_, err = store.Update(ctx, "default", SortByScoreDescending)
	assert.Error(t, err)
}

func TestNewBoardStore(t *testing.T) {
	store, client, err := NewBoardStore(&config.Config{Initiatives: config.InitiativesConfig{Store: config.StoreMemory}})
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.IsType(t, &MemoryBoardStore{}, store)

	mr := miniredis.RunT(t)
	cfg := &config.Config{Initiatives: config.InitiativesConfig{Store: config.StoreRedis, BoardTTL: 60}}
	cfg.Database.Redis.Address = mr.Addr()

	store, client, err = NewBoardStore(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	assert.Equal(t, config.StoreRedis, store.Name())
	assert.Equal(t, time.Minute, store.(*RedisBoardStore).ttl)

	cfg.Database.Redis.Address = ""
	_, _, err = NewBoardStore(cfg)
	assert.Error(t, err)
}
