package postal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheTTL = 24 * time.Hour

// Cache guarda consultas de CEP no Redis. Opcional: com client nil todas as
// operações viram no-op e a consulta segue direto para o ViaCEP.
type Cache struct {
	rdb *redis.Client
}

func NewCache(redisURL string) *Cache {
	if redisURL == "" {
		return &Cache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		zap.L().Warn("invalid REDIS_URL, postal cache disabled", zap.Error(err))
		return &Cache{}
	}

	return &Cache{rdb: redis.NewClient(opts)}
}

func (c *Cache) Get(ctx context.Context, cep string) *Result {
	if c.rdb == nil {
		return nil
	}

	raw, err := c.rdb.Get(ctx, key(cep)).Result()
	if err != nil {
		return nil
	}

	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil
	}
	return &r
}

func (c *Cache) Set(ctx context.Context, r *Result) {
	if c.rdb == nil || r == nil {
		return
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key(r.CEP), raw, cacheTTL).Err(); err != nil {
		zap.L().Warn("postal cache write failed", zap.Error(err))
	}
}

func key(cep string) string {
	return "cep:" + cep
}
