package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallboard/config"
	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetBoard(ctx context.Context, board *model.Board) error {
	data, err := json.Marshal(cachedBoard(*board))
	if err != nil {
		return util.LogError("[CacheRepo] board serialization failed", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(board.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("[CacheRepo] redis set failed", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("[CacheRepo] unexpected redis reply: %s", cmd.Val())
	}

	return nil
}

// GetBoard : nil without error on a cache miss
func (r *CacheRepository) GetBoard(ctx context.Context, uuid string) (*model.Board, error) {
	val, err := r.client.Client.Get(ctx, r.key(uuid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("[CacheRepo] redis get failed", err)
	}

	var board cachedBoard
	if err := json.Unmarshal([]byte(val), &board); err != nil {
		return nil, util.LogError("[CacheRepo] cached board is corrupt", err)
	}
	result := model.Board(board)
	return &result, nil
}

func (r *CacheRepository) DeleteBoard(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.key(uuid)).Err(); err != nil {
		return util.LogError("[CacheRepo] redis delete failed", err)
	}
	return nil
}

func (r *CacheRepository) key(uuid string) string {
	return fmt.Sprintf("board:%s", uuid)
}

// cachedBoard keeps storage_path, which the API representation hides
type cachedBoard struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	StoragePath string    `json:"storage_path"`
	ImageWidth  int       `json:"image_width"`
	ImageHeight int       `json:"image_height"`
	OwnerUUID   string    `json:"owner_uuid"`
	CreatedAt   time.Time `json:"created_at"`
}
