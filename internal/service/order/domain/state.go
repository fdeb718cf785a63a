// internal/service/order/domain/state.go
package domain

// Status 定义了订单的生命周期状态。持久化为 snake_case 字符串，兼容既有集成。
type Status string

const (
	StatusPendingPayment Status = "pending_payment"  // 已提交，等待支付确认
	StatusPaid           Status = "paid"             // 支付确认
	StatusProcessing     Status = "processing"       // 截单，备货中
	StatusReadyForPickup Status = "ready_for_pickup" // 承运商下单成功，待揽收
	StatusShipping       Status = "shipping"         // 运输中（路由推送驱动）
	StatusCompleted      Status = "completed"        // 签收，终态
	StatusAbnormal       Status = "abnormal"         // 异常，仅人工处理
	StatusRefund         Status = "refund"           // 退款，终态
)

// transitions 是唯一合法的状态迁移表。
// abnormal 的出边仅限人工操作触发，路由推送不得使用。
var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusPaid, StatusRefund},
	StatusPaid:           {StatusProcessing, StatusRefund},
	StatusProcessing:     {StatusReadyForPickup, StatusAbnormal, StatusShipping, StatusRefund},
	StatusReadyForPickup: {StatusShipping, StatusCompleted, StatusRefund},
	StatusShipping:       {StatusCompleted, StatusRefund},
	StatusCompleted:      {},
	StatusAbnormal:       {StatusProcessing, StatusRefund},
	StatusRefund:         {},
}

// Valid 判断是否为已知状态
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo 判断迁移是否合法
func (s Status) CanTransitionTo(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// Terminal 终态订单只读保留，用于审计
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRefund
}

// WebhookFrozen 处于这些状态的订单不再接受路由推送驱动的状态变更。
// 过期路由回报早期节点时必须是 no-op，状态永不回退。
func (s Status) WebhookFrozen() bool {
	return s == StatusCompleted || s == StatusAbnormal || s == StatusRefund
}
