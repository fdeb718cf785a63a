// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 是订单聚合的仓储端口。订单永不删除，终态保留审计。
type OrderRepository interface {
	// Save 整聚合 upsert，包含行项目与承运商留档
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	// FindByIDs 按给定顺序返回存在的订单；缺失的 id 直接跳过
	FindByIDs(ctx context.Context, ids []string) ([]*Order, error)
	// FindByWaybill 按运单号查找。承运商不知道订单号，回执只能按运单号关联；
	// 可能返回 0 条或多条，策略由调用方决定
	FindByWaybill(ctx context.Context, waybillNo string) ([]*Order, error)
}
