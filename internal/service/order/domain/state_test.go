// internal/service/order/domain/state_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPendingPayment, StatusPaid},
		{StatusPendingPayment, StatusRefund},
		{StatusPaid, StatusProcessing},
		{StatusPaid, StatusRefund},
		{StatusProcessing, StatusReadyForPickup},
		{StatusProcessing, StatusAbnormal},
		{StatusProcessing, StatusShipping},
		{StatusProcessing, StatusRefund},
		{StatusReadyForPickup, StatusShipping},
		{StatusReadyForPickup, StatusCompleted},
		{StatusReadyForPickup, StatusRefund},
		{StatusShipping, StatusCompleted},
		{StatusShipping, StatusRefund},
		{StatusAbnormal, StatusProcessing},
		{StatusAbnormal, StatusRefund},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPendingPayment, StatusProcessing}, // 不能跳过支付
		{StatusPaid, StatusShipping},
		{StatusShipping, StatusProcessing}, // 状态永不回退
		{StatusCompleted, StatusShipping},
		{StatusCompleted, StatusRefund}, // 终态没有出边
		{StatusRefund, StatusPaid},
		{StatusAbnormal, StatusShipping},
		{StatusReadyForPickup, StatusPaid},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{
		StatusPendingPayment, StatusPaid, StatusProcessing, StatusReadyForPickup,
		StatusShipping, StatusCompleted, StatusAbnormal, StatusRefund,
	} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, Status("cancelled").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTerminalAndFrozen(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusRefund.Terminal())
	// abnormal 不是终态，人工处理后可回到备货中
	assert.False(t, StatusAbnormal.Terminal())

	assert.True(t, StatusCompleted.WebhookFrozen())
	assert.True(t, StatusAbnormal.WebhookFrozen())
	assert.True(t, StatusRefund.WebhookFrozen())
	assert.False(t, StatusShipping.WebhookFrozen())
	assert.False(t, StatusReadyForPickup.WebhookFrozen())
}
