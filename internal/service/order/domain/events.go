// internal/service/order/domain/events.go
package domain

import "time"

// OrderStatusChangedEvent 是状态变更后发往通知通道的消息。
// 通知是旁路：发送失败只记日志，不回滚状态。
type OrderStatusChangedEvent struct {
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	FromStatus   Status    `json:"from_status"`
	ToStatus     Status    `json:"to_status"`
	WaybillNo    string    `json:"waybill_no,omitempty"`
	Message      string    `json:"message"`
	OccurredAt   time.Time `json:"occurred_at"`
}
