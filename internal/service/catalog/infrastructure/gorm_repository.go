// internal/service/catalog/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/service/catalog/domain"
)

// GormProductRepository 是 catalog domain.Repository 的 GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository 创建一个新的 GORM 仓储实例
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("product_id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return ToDomainProduct(&model), nil
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	var models []ProductModel
	if err := r.db.WithContext(ctx).Where("product_id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	result := make(map[string]*domain.Product, len(models))
	for i := range models {
		p := ToDomainProduct(&models[i])
		result[p.ID] = p
	}
	return result, nil
}
