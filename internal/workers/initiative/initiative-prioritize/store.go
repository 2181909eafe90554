package initiativeprioritize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"productlab-workers/internal/common/config"
	"productlab-workers/internal/common/database"
	"productlab-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// BoardStore keeps the ordering of named initiative boards between jobs. A
// board that was never saved holds the built-in initiatives in natural order.
type BoardStore interface {
	Name() string
	Load(ctx context.Context, boardID string) ([]models.Initiative, error)
	// Update applies fn to the board and saves the result atomically.
	Update(ctx context.Context, boardID string, fn func([]models.Initiative) []models.Initiative) ([]models.Initiative, error)
}

type MemoryBoardStore struct {
	mu     sync.Mutex
	boards map[string][]models.Initiative
}

func NewMemoryBoardStore() *MemoryBoardStore {
	return &MemoryBoardStore{boards: make(map[string][]models.Initiative)}
}

func (s *MemoryBoardStore) Name() string { return config.StoreMemory }

func (s *MemoryBoardStore) Load(ctx context.Context, boardID string) ([]models.Initiative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBoard(s.boardLocked(boardID)), nil
}

func (s *MemoryBoardStore) Update(ctx context.Context, boardID string, fn func([]models.Initiative) []models.Initiative) ([]models.Initiative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(cloneBoard(s.boardLocked(boardID)))
	s.boards[boardID] = cloneBoard(next)
	return next, nil
}

func (s *MemoryBoardStore) boardLocked(boardID string) []models.Initiative {
	if items, ok := s.boards[boardID]; ok {
		return items
	}
	return models.DefaultInitiatives()
}

const (
	boardKeyPrefix = "initiative:board:"
	maxTxAttempts  = 5
)

// ErrBoardContended is returned when a board kept changing under a Redis update.
var ErrBoardContended = errors.New("board changed concurrently")

// RedisBoardStore keeps each board as a JSON list under initiative:board:<id>.
type RedisBoardStore struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisBoardStore(client *database.RedisClient, ttl time.Duration) *RedisBoardStore {
	return &RedisBoardStore{client: client, ttl: ttl}
}

func (s *RedisBoardStore) Name() string { return config.StoreRedis }

func BoardKey(boardID string) string {
	return boardKeyPrefix + boardID
}

func (s *RedisBoardStore) Load(ctx context.Context, boardID string) ([]models.Initiative, error) {
	var items []models.Initiative
	err := s.client.GetJSON(ctx, BoardKey(boardID), &items)
	if errors.Is(err, database.ErrNotFound) {
		return models.DefaultInitiatives(), nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update runs fn inside WATCH/MULTI so concurrent sorts of the same board
// never interleave. The TTL is refreshed on every write.
func (s *RedisBoardStore) Update(ctx context.Context, boardID string, fn func([]models.Initiative) []models.Initiative) ([]models.Initiative, error) {
	key := BoardKey(boardID)
	var next []models.Initiative

	txf := func(tx *redis.Tx) error {
		items := models.DefaultInitiatives()
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("redis get %s: %w", key, err)
		default:
			items = nil
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
		}

		next = fn(items)
		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(encoded), s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %w", key, ErrBoardContended)
}

// NewBoardStore builds the store selected by initiatives.store.
func NewBoardStore(cfg *config.Config) (BoardStore, *database.RedisClient, error) {
	if cfg == nil || cfg.Initiatives.Store != config.StoreRedis {
		return NewMemoryBoardStore(), nil, nil
	}
	client, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return nil, nil, err
	}
	ttl := time.Duration(cfg.Initiatives.BoardTTL) * time.Second
	return NewRedisBoardStore(client, ttl), client, nil
}

func cloneBoard(items []models.Initiative) []models.Initiative {
	return append([]models.Initiative(nil), items...)
}
