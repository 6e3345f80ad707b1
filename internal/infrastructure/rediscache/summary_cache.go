// Package rediscache implementa el caché de lectura de resúmenes de stock
// sobre Redis. El libro en PostgreSQL sigue siendo la fuente de verdad: un
// Redis caído degrada a lecturas directas, nunca a datos incorrectos, porque
// toda escritura confirmada invalida la boutique afectada.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/pkg/config"
)

var _ ledger.SummaryCache = (*SummaryCache)(nil)

// SummaryCache caché de resúmenes por boutique con TTL.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New conecta con Redis y verifica la conexión.
func New(ctx context.Context, cfg config.RedisConfig) (*SummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SummaryCache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

func key(tenantID, boutiqueID string) string {
	return "stock:summary:" + tenantID + ":" + boutiqueID
}

// Get devuelve las líneas cacheadas, o (nil, nil) en miss.
func (c *SummaryCache) Get(ctx context.Context, tenantID, boutiqueID string) ([]*entity.StockLine, error) {
	raw, err := c.client.Get(ctx, key(tenantID, boutiqueID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get summary cache: %w", err)
	}
	var lines []*entity.StockLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		// Entrada corrupta: se descarta y se trata como miss.
		_ = c.client.Del(ctx, key(tenantID, boutiqueID)).Err()
		return nil, nil
	}
	return lines, nil
}

// Set guarda el resumen con TTL.
func (c *SummaryCache) Set(ctx context.Context, tenantID, boutiqueID string, lines []*entity.StockLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, key(tenantID, boutiqueID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set summary cache: %w", err)
	}
	return nil
}

// Invalidate borra el resumen de las boutiques indicadas.
func (c *SummaryCache) Invalidate(ctx context.Context, tenantID string, boutiqueIDs ...string) error {
	if len(boutiqueIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(boutiqueIDs))
	for _, id := range boutiqueIDs {
		keys = append(keys, key(tenantID, id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate summary cache: %w", err)
	}
	return nil
}

// Close cierra la conexión con Redis.
func (c *SummaryCache) Close() error {
	return c.client.Close()
}
