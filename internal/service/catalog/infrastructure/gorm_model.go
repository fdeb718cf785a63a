// internal/service/catalog/infrastructure/gorm_model.go
package infrastructure

import (
	"gorm.io/gorm"
)

// ProductModel 对应数据库中的 product 表
type ProductModel struct {
	gorm.Model
	ProductID           string `gorm:"column:product_id;uniqueIndex"`
	Name                string `gorm:"column:name"`
	Price               int64  `gorm:"column:price"`
	DiscountPrice       int64  `gorm:"column:discount_price"`
	BulkThreshold       int    `gorm:"column:bulk_threshold"`
	BulkType            string `gorm:"column:bulk_type"`
	BulkValue           int64  `gorm:"column:bulk_value"`
	ExcludeTierDiscount bool   `gorm:"column:exclude_tier_discount"`
	WeightKG            float64 `gorm:"column:weight_kg;type:decimal(8,3)"`
}

// TableName 指定 GORM 应该使用的表名
func (ProductModel) TableName() string {
	return "product"
}
