// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"
)

// OrderModel 对应数据库中的 customer_order 表。
// 列名是既有集成约定的 snake_case，不可随意改名。
type OrderModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	CustomerName     string    `gorm:"column:customer_name"`
	CustomerPhone    string    `gorm:"column:customer_phone"`
	Total            int64     `gorm:"column:total"`
	Subtotal         int64     `gorm:"column:subtotal"`
	DeliveryFee      int64     `gorm:"column:delivery_fee"`
	Status           string    `gorm:"column:status;index"`
	OrderDate        time.Time `gorm:"column:order_date"`
	ItemsCount       int       `gorm:"column:items_count"`
	LineItems        string    `gorm:"column:line_items;type:json"`
	DeliveryMethod   string    `gorm:"column:delivery_method"`
	DeliveryAddress  string    `gorm:"column:delivery_address"`
	DeliveryDistrict string    `gorm:"column:delivery_district"`
	DeliveryFloor    string    `gorm:"column:delivery_floor"`
	DeliveryFlat     string    `gorm:"column:delivery_flat"`
	ContactName      string    `gorm:"column:contact_name"`
	WaybillNo        string    `gorm:"column:waybill_no;index"`
	TrackingNumber   string    `gorm:"column:tracking_number"`
	SFResponses      string    `gorm:"column:sf_responses;type:json"`
	PaymentRef       string    `gorm:"column:payment_ref"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "customer_order"
}
