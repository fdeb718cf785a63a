// internal/service/catalog/domain/product.go
package domain

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// BulkDiscountType 批量折扣类型
type BulkDiscountType string

const (
	BulkDiscountPercent BulkDiscountType = "percent" // 按百分比下调单价
	BulkDiscountFixed   BulkDiscountType = "fixed"   // 直接覆盖单价
)

// BulkDiscount 是按购买数量触发的单价覆盖规则，与会员等级无关
type BulkDiscount struct {
	Threshold int              // 触发数量，quantity >= Threshold 时生效
	Type      BulkDiscountType
	Value     int64
}

// Product 是目录侧的商品快照，核心域只读
type Product struct {
	ID            string
	Name          string
	Price         int64 // 原价，整数货币单位
	DiscountPrice int64 // 优惠价，0 表示未设置；仅当低于原价时生效
	Bulk          *BulkDiscount
	// ExcludeTierDiscount 为 true 时该商品不参与会员等级折扣
	ExcludeTierDiscount bool
	WeightKG            float64
}

// BasePrice 返回计价起点：优惠价设置且低于原价时取优惠价，否则取原价
func (p *Product) BasePrice() int64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}

// Repository 是目录的只读仓储端口
type Repository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindByIDs 返回按 id 索引的商品表；缺失的 id 不在结果中
	FindByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
}
