// internal/service/catalog/infrastructure/mapper.go
package infrastructure

import (
	"storefront/internal/service/catalog/domain"
)

// ToDomainProduct 将数据库模型转换为领域模型
func ToDomainProduct(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	p := &domain.Product{
		ID:                  model.ProductID,
		Name:                model.Name,
		Price:               model.Price,
		DiscountPrice:       model.DiscountPrice,
		ExcludeTierDiscount: model.ExcludeTierDiscount,
		WeightKG:            model.WeightKG,
	}
	// bulk_threshold 为 0 表示未配置批量折扣
	if model.BulkThreshold > 0 {
		p.Bulk = &domain.BulkDiscount{
			Threshold: model.BulkThreshold,
			Type:      domain.BulkDiscountType(model.BulkType),
			Value:     model.BulkValue,
		}
	}
	return p
}
