// internal/service/order/domain/order.go
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/service/shipping"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrPaymentMismatch   = errors.New("payment reference does not match order")
	ErrOrderNotFound     = errors.New("order not found")
)

// LineItem 是下单时刻冻结的行项目。单价一经落单不可变，
// 后续价格规则调整不得追溯历史订单。
type LineItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
}

// CarrierLogEntry 是承运商交互的原始留档，仅追加
type CarrierLogEntry struct {
	At      time.Time       `json:"at"`
	Kind    string          `json:"kind"` // create_order / route_push
	Payload json.RawMessage `json:"payload"`
}

// Order 是订单聚合的根实体。
// 创建后只有状态机和承运商集成层可以改写 status、waybill 与留档字段。
type Order struct {
	ID            string
	CustomerName  string // 下单时刻的客户快照，不是活引用
	CustomerPhone string
	Items         []LineItem

	DeliveryMethod   shipping.DeliveryMethod
	DeliveryAddress  string // 自提柜订单存自提点编码
	DeliveryDistrict string
	DeliveryFloor    string
	DeliveryFlat     string
	ContactName      string

	Subtotal    int64
	DeliveryFee int64
	Total       int64

	Status         Status
	PaymentRef     string
	WaybillNo      string
	TrackingNumber string
	CarrierLog     []CarrierLogEntry

	ItemsCount int
	OrderDate  time.Time
	UpdatedAt  time.Time
}

// NewOrder 工厂函数：从冻结的行项目与费用创建初始订单。
// 不变量 total = subtotal + deliveryFee 在此建立，之后每次变更都校验。
func NewOrder(id, customerName, customerPhone string, items []LineItem, method shipping.DeliveryMethod, deliveryFee int64, paymentRef string) (*Order, error) {
	if id == "" || customerName == "" || customerPhone == "" || len(items) == 0 {
		return nil, errors.New("cannot create order with empty required fields")
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unsupported delivery method: %s", method)
	}

	var subtotal int64
	var count int
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity for product %s", item.ProductID)
		}
		if item.LineTotal != item.UnitPrice*int64(item.Quantity) {
			return nil, fmt.Errorf("inconsistent line total for product %s", item.ProductID)
		}
		subtotal += item.LineTotal
		count += item.Quantity
	}

	now := time.Now()
	return &Order{
		ID:             id,
		CustomerName:   customerName,
		CustomerPhone:  customerPhone,
		Items:          items,
		DeliveryMethod: method,
		Subtotal:       subtotal,
		DeliveryFee:    deliveryFee,
		Total:          subtotal + deliveryFee,
		Status:         StatusPendingPayment, // 唯一初始状态
		PaymentRef:     paymentRef,
		ItemsCount:     count,
		OrderDate:      now,
		UpdatedAt:      now,
	}, nil
}

// CheckInvariant 校验金额不变量，每次状态变更前后都必须成立
func (o *Order) CheckInvariant() error {
	if o.Total != o.Subtotal+o.DeliveryFee {
		return fmt.Errorf("order %s violates total invariant: %d != %d + %d",
			o.ID, o.Total, o.Subtotal, o.DeliveryFee)
	}
	return nil
}

// TransitionTo 按迁移表流转状态
func (o *Order) TransitionTo(to Status) error {
	if err := o.CheckInvariant(); err != nil {
		return err
	}
	if !o.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

// ConfirmPayment 支付网关确认后流转到已支付；支付单号必须与订单匹配
func (o *Order) ConfirmPayment(paymentRef string) error {
	if paymentRef == "" || paymentRef != o.PaymentRef {
		return ErrPaymentMismatch
	}
	return o.TransitionTo(StatusPaid)
}

// MarkDispatched 承运商下单成功：记录运单号并流转到待揽收
func (o *Order) MarkDispatched(waybillNo string) error {
	if waybillNo == "" {
		return errors.New("waybill number is required to mark order dispatched")
	}
	if err := o.TransitionTo(StatusReadyForPickup); err != nil {
		return err
	}
	o.WaybillNo = waybillNo
	o.TrackingNumber = waybillNo
	return nil
}

// MarkAbnormal 承运商下单失败或校验失败时降级为异常，等待人工处理
func (o *Order) MarkAbnormal() error {
	return o.TransitionTo(StatusAbnormal)
}

// ApplyWebhookStatus 应用路由推送得出的目标状态。
// 冻结状态、状态回退、重复推送都静默跳过（返回 false），不视为错误。
func (o *Order) ApplyWebhookStatus(target Status) (bool, error) {
	if target != StatusShipping && target != StatusCompleted {
		return false, fmt.Errorf("webhook may not drive status %s", target)
	}
	if o.Status.WebhookFrozen() {
		return false, nil
	}
	if o.Status == target {
		return false, nil
	}
	if !o.Status.CanTransitionTo(target) {
		// 过期推送（如签收后又收到在途），按回退保护跳过
		return false, nil
	}
	if err := o.TransitionTo(target); err != nil {
		return false, err
	}
	return true, nil
}

// AppendCarrierLog 追加一条承运商原始响应留档
func (o *Order) AppendCarrierLog(kind string, payload []byte) {
	if len(payload) == 0 {
		return
	}
	raw := make(json.RawMessage, len(payload))
	copy(raw, payload)
	if !json.Valid(raw) {
		// 非 JSON 响应同样要留档，包一层字符串
		quoted, _ := json.Marshal(string(payload))
		raw = quoted
	}
	o.CarrierLog = append(o.CarrierLog, CarrierLogEntry{At: time.Now(), Kind: kind, Payload: raw})
}

// LastCarrierResponse 返回最近一条承运商原始响应，用于订单详情页诊断
func (o *Order) LastCarrierResponse() *CarrierLogEntry {
	if len(o.CarrierLog) == 0 {
		return nil
	}
	return &o.CarrierLog[len(o.CarrierLog)-1]
}
