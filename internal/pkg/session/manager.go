// internal/pkg/session/manager.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// Manager 维护 "管理员 -> 网关节点" 的会话映射，存储在 Redis 中。
// 推送网关据此判断消息应投递到哪个节点。
type Manager struct {
	rdb *redis.Client
}

// NewManager 创建一个会话管理器
func NewManager(addr string) *Manager {
	return &Manager{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:gateway:%s", userID)
}

// SetUserGateway 记录用户连接所在的网关节点
func (m *Manager) SetUserGateway(ctx context.Context, userID, nodeID string) error {
	return m.rdb.Set(ctx, sessionKey(userID), nodeID, sessionTTL).Err()
}

// GetUserGateway 查询用户所在的网关节点
func (m *Manager) GetUserGateway(ctx context.Context, userID string) (string, error) {
	return m.rdb.Get(ctx, sessionKey(userID)).Result()
}

// RemoveUserGateway 删除会话映射（连接断开时调用）
func (m *Manager) RemoveUserGateway(ctx context.Context, userID string) error {
	return m.rdb.Del(ctx, sessionKey(userID)).Err()
}
