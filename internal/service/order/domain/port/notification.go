// internal/service/order/domain/port/notification.go
package port

import (
	"context"

	"storefront/internal/service/order/domain"
)

// NotificationProducer 是状态变更通知的出站端口，fire-and-forget
type NotificationProducer interface {
	OrderStatusChanged(ctx context.Context, event *domain.OrderStatusChangedEvent) error
	Close() error
}
