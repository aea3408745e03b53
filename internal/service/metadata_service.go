package service

import (
	"context"
	"encoding/json"
	"errors"
	"examdesk_backend/internal/model"
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/util"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const metadataCacheTTL = 10 * time.Minute

// MetadataService 键值分类字典。读多写少，走 Redis 旁路缓存，
// 写入时同步失效，保证写后读一致。
type MetadataService struct {
	Repo  *repository.MetadataRepository
	Redis *redis.Client
}

func NewMetadataService(repo *repository.MetadataRepository, rdb *redis.Client) *MetadataService {
	return &MetadataService{Repo: repo, Redis: rdb}
}

func cacheKey(key string) string {
	return "metadata:" + key
}

// taxonomyKeys 被题库等读方按 {id, name, isActive} 形状消费，
// 写入时即校验，不把形状错误推迟到读路径。
var taxonomyKeys = map[string]bool{
	"grades":        true,
	"subjects":      true,
	"sections":      true,
	"questionTypes": true,
	"difficulties":  true,
	"roles":         true,
}

// Get 返回 key 对应的 JSON 数组；key 不存在时返回空数组而非错误。
func (s *MetadataService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, cacheKey(key)).Bytes()
		if err == nil {
			return cached, nil
		}
	}

	meta, err := s.Repo.Get(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return json.RawMessage("[]"), nil
	} else if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		s.Redis.Set(ctx, cacheKey(key), []byte(meta.Value), metadataCacheTTL)
	}
	return meta.Value, nil
}

func (s *MetadataService) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	entries, err := s.Repo.GetAll()
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// Update upsert 语义；写库成功后先失效缓存再返回。
func (s *MetadataService) Update(ctx context.Context, key string, value json.RawMessage) error {
	if len(value) == 0 || !json.Valid(value) {
		return fmt.Errorf("metadata value must be valid JSON: %w", util.ErrValidation)
	}

	if taxonomyKeys[key] {
		var items []model.MetadataItem
		if err := json.Unmarshal(value, &items); err != nil {
			return fmt.Errorf("metadata %q must be an array of {id, name, isActive} items: %w", key, util.ErrValidation)
		}
	}

	meta := &model.Metadata{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.Repo.Upsert(meta); err != nil {
		return err
	}

	if s.Redis != nil {
		s.Redis.Del(ctx, cacheKey(key))
	}
	return nil
}
