// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/service/order/domain"
)

const mysqlDuplicateEntry = 1062

// GormOrderRepository 是 domain.OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 仓储实例
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save 整聚合 upsert：主键冲突时覆盖全部业务列
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	model, err := FromDomainOrder(order)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(model).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return pkgerrors.Wrapf(err, "duplicate key saving order %s", order.ID)
		}
		return pkgerrors.Wrapf(err, "save order %s", order.ID)
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, pkgerrors.Wrapf(err, "find order %s", id)
	}
	return ToDomainOrder(&model)
}

// FindByIDs 按入参顺序返回存在的订单，缺失的 id 跳过
func (r *GormOrderRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []OrderModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "find orders by ids")
	}
	byID := make(map[string]*OrderModel, len(models))
	for i := range models {
		byID[models[i].ID] = &models[i]
	}
	orders := make([]*domain.Order, 0, len(models))
	for _, id := range ids {
		model, ok := byID[id]
		if !ok {
			continue
		}
		order, err := ToDomainOrder(model)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *GormOrderRepository) FindByWaybill(ctx context.Context, waybillNo string) ([]*domain.Order, error) {
	var models []OrderModel
	if err := r.db.WithContext(ctx).Where("waybill_no = ?", waybillNo).Find(&models).Error; err != nil {
		return nil, pkgerrors.Wrapf(err, "find orders by waybill %s", waybillNo)
	}
	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		order, err := ToDomainOrder(&models[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
