// internal/service/order/application/dto.go
package application

import (
	"storefront/internal/service/order/domain"
	"storefront/internal/service/pricing"
	"storefront/internal/service/shipping"
)

// CheckoutItem 是结算请求中的一行购物车条目
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest 是结算提交的输入。
// Tier 来自会话/账户状态，由调用方推导，核心域不持久化。
type CheckoutRequest struct {
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	ContactName   string         `json:"contactName"`
	Tier          pricing.Tier   `json:"tier"`
	Items         []CheckoutItem `json:"items"`

	DeliveryMethod   shipping.DeliveryMethod `json:"deliveryMethod"`
	DeliveryAddress  string                  `json:"deliveryAddress"`
	DeliveryDistrict string                  `json:"deliveryDistrict"`
	DeliveryFloor    string                  `json:"deliveryFloor"`
	DeliveryFlat     string                  `json:"deliveryFlat"`
	LockerPoint      string                  `json:"lockerPoint"`

	// PaymentRef 是支付意图单号，由支付协作方在提交前创建
	PaymentRef string `json:"paymentRef"`
}

// CheckoutResponse 返回新订单的关键信息
type CheckoutResponse struct {
	OrderID     string        `json:"orderId"`
	Status      domain.Status `json:"status"`
	Subtotal    int64         `json:"subtotal"`
	DeliveryFee int64         `json:"deliveryFee"`
	Total       int64         `json:"total"`
}

// ConfirmPaymentRequest 是支付协作方的确认回调
type ConfirmPaymentRequest struct {
	OrderID            string `json:"orderId"`
	PaymentReferenceID string `json:"paymentReferenceId"`
}

// BatchRequest 是管理台批量操作的输入
type BatchRequest struct {
	OrderIDs []string `json:"orderIds"`
	// Force 跳过问题单确认检查点，仅发货操作使用
	Force bool `json:"force,omitempty"`
}

// PickListRow 聚合拣货单的一行
type PickListRow struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// DispatchProblem 是预检不通过的订单及原因
type DispatchProblem struct {
	OrderID string `json:"id"`
	Reason  string `json:"reason"`
}

// DispatchReport 是批量发货的逐单结果汇总。
// 批量操作永远正常返回汇总，即使每一单都失败。
type DispatchReport struct {
	SuccessCount int               `json:"successCount"`
	FailedIDs    []string          `json:"failedIds"`
	Problematic  []DispatchProblem `json:"problematic,omitempty"`
	// PendingConfirmation 为 true 表示存在问题单且未强制确认，本次未发出任何请求
	PendingConfirmation bool     `json:"pendingConfirmation,omitempty"`
	ValidIDs            []string `json:"validIds,omitempty"`
}
