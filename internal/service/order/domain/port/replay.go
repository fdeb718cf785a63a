// internal/service/order/domain/port/replay.go
package port

import "context"

// ReplayGuard 记录已处理过的入站 requestID，吸收承运商的重复推送。
// 实现不可用时应当放行（当作首次处理），靠状态机的回退保护兜底。
type ReplayGuard interface {
	// Seen 返回该 requestID 是否已处理过，并原子地记录之
	Seen(ctx context.Context, requestID string) (bool, error)
}
