// internal/service/order/infrastructure/adapter/replay_guard_redis.go
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 承运商最长会重推两天，TTL 略大于该窗口
const replayTTL = 72 * time.Hour

// ReplayGuardRedisAdapter 用 Redis SETNX 吸收承运商的重复推送。
type ReplayGuardRedisAdapter struct {
	rdb *redis.Client
}

// NewReplayGuardRedisAdapter 创建重放守卫
func NewReplayGuardRedisAdapter(rdb *redis.Client) *ReplayGuardRedisAdapter {
	return &ReplayGuardRedisAdapter{rdb: rdb}
}

// Seen 原子地记录 requestID，返回是否已处理过
func (a *ReplayGuardRedisAdapter) Seen(ctx context.Context, requestID string) (bool, error) {
	key := fmt.Sprintf("courier:webhook:req:%s", requestID)
	created, err := a.rdb.SetNX(ctx, key, 1, replayTTL).Result()
	if err != nil {
		return false, fmt.Errorf("replay guard setnx: %w", err)
	}
	return !created, nil
}
