// internal/service/order/domain/port/courier.go
package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// CourierService 是承运商集成层的出站端口。
// raw 是承运商原始响应，无论成败都必须返回给调用方留档。
type CourierService interface {
	CreateOrder(ctx context.Context, order *domain.Order) (waybillNo string, raw []byte, err error)
}
