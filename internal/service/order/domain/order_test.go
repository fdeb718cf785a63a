// internal/service/order/domain/order_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/service/shipping"
)

func testItems() []LineItem {
	return []LineItem{
		{ProductID: "p1", ProductName: "oat milk", UnitPrice: 81, Quantity: 2, LineTotal: 162},
		{ProductID: "p2", ProductName: "cold brew", UnitPrice: 40, Quantity: 1, LineTotal: 40},
	}
}

func testOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("o1", "Chan Tai Man", "91234567", testItems(), shipping.MethodHome, 50, "pay-1")
	require.NoError(t, err)
	order.DeliveryAddress = "1 Queen's Road"
	return order
}

func TestNewOrder(t *testing.T) {
	order := testOrder(t)

	assert.Equal(t, StatusPendingPayment, order.Status)
	assert.Equal(t, int64(202), order.Subtotal)
	assert.Equal(t, int64(50), order.DeliveryFee)
	assert.Equal(t, int64(252), order.Total)
	assert.Equal(t, 3, order.ItemsCount)
	require.NoError(t, order.CheckInvariant())
}

func TestNewOrder_Validation(t *testing.T) {
	items := testItems()

	_, err := NewOrder("", "Chan Tai Man", "91234567", items, shipping.MethodHome, 0, "")
	assert.Error(t, err)

	_, err = NewOrder("o1", "Chan Tai Man", "91234567", nil, shipping.MethodHome, 0, "")
	assert.Error(t, err)

	_, err = NewOrder("o1", "Chan Tai Man", "91234567", items, shipping.DeliveryMethod("drone"), 0, "")
	assert.Error(t, err)

	bad := testItems()
	bad[0].Quantity = 0
	_, err = NewOrder("o1", "Chan Tai Man", "91234567", bad, shipping.MethodHome, 0, "")
	assert.Error(t, err)

	// 行小计与单价*数量不一致必须拒绝
	bad = testItems()
	bad[1].LineTotal = 999
	_, err = NewOrder("o1", "Chan Tai Man", "91234567", bad, shipping.MethodHome, 0, "")
	assert.Error(t, err)
}

func TestTransitionTo(t *testing.T) {
	order := testOrder(t)

	require.NoError(t, order.TransitionTo(StatusPaid))
	require.NoError(t, order.TransitionTo(StatusProcessing))

	err := order.TransitionTo(StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusProcessing, order.Status, "failed transition must not change status")
}

func TestTransitionTo_InvariantViolation(t *testing.T) {
	order := testOrder(t)
	order.Total = 9999

	err := order.TransitionTo(StatusPaid)
	require.Error(t, err)
	assert.Equal(t, StatusPendingPayment, order.Status)
}

func TestConfirmPayment(t *testing.T) {
	order := testOrder(t)

	assert.ErrorIs(t, order.ConfirmPayment("wrong-ref"), ErrPaymentMismatch)
	assert.ErrorIs(t, order.ConfirmPayment(""), ErrPaymentMismatch)
	assert.Equal(t, StatusPendingPayment, order.Status)

	require.NoError(t, order.ConfirmPayment("pay-1"))
	assert.Equal(t, StatusPaid, order.Status)

	// 重复确认是非法迁移
	assert.ErrorIs(t, order.ConfirmPayment("pay-1"), ErrInvalidTransition)
}

func TestMarkDispatched(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.TransitionTo(StatusPaid))
	require.NoError(t, order.TransitionTo(StatusProcessing))

	assert.Error(t, order.MarkDispatched(""))

	require.NoError(t, order.MarkDispatched("SF1234567890"))
	assert.Equal(t, StatusReadyForPickup, order.Status)
	assert.Equal(t, "SF1234567890", order.WaybillNo)
	assert.Equal(t, "SF1234567890", order.TrackingNumber)
}

func TestApplyWebhookStatus(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.TransitionTo(StatusPaid))
	require.NoError(t, order.TransitionTo(StatusProcessing))
	require.NoError(t, order.MarkDispatched("SF1"))

	changed, err := order.ApplyWebhookStatus(StatusShipping)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusShipping, order.Status)

	// 同状态重复推送静默跳过
	changed, err = order.ApplyWebhookStatus(StatusShipping)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = order.ApplyWebhookStatus(StatusCompleted)
	require.NoError(t, err)
	assert.True(t, changed)

	// 签收后收到过期在途推送：回退保护，no-op
	changed, err = order.ApplyWebhookStatus(StatusShipping)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusCompleted, order.Status)
}

func TestApplyWebhookStatus_FrozenAndIllegalTargets(t *testing.T) {
	order := testOrder(t)
	require.NoError(t, order.TransitionTo(StatusPaid))
	require.NoError(t, order.TransitionTo(StatusProcessing))
	require.NoError(t, order.MarkAbnormal())

	// 异常单冻结，推送不得驱动任何变更
	changed, err := order.ApplyWebhookStatus(StatusShipping)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusAbnormal, order.Status)

	// 推送只能驱动 shipping / completed
	_, err = order.ApplyWebhookStatus(StatusPaid)
	assert.Error(t, err)
}

func TestCarrierLog(t *testing.T) {
	order := testOrder(t)
	assert.Nil(t, order.LastCarrierResponse())

	order.AppendCarrierLog("create_order", []byte(`{"ok":true}`))
	order.AppendCarrierLog("route_push", []byte("gateway timeout"))
	order.AppendCarrierLog("route_push", nil)

	require.Len(t, order.CarrierLog, 2)
	last := order.LastCarrierResponse()
	require.NotNil(t, last)
	assert.Equal(t, "route_push", last.Kind)
	// 非 JSON 响应包成字符串留档
	assert.JSONEq(t, `"gateway timeout"`, string(last.Payload))
}
