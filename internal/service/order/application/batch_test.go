// internal/service/order/application/batch_test.go
package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/service/order/domain"
)

func TestCutoff(t *testing.T) {
	env := newTestEnv(testProducts(),
		orderInStatus(t, "o1", domain.StatusPaid),
		orderInStatus(t, "o2", domain.StatusPendingPayment),
		orderInStatus(t, "o3", domain.StatusPaid),
		orderInStatus(t, "o4", domain.StatusShipping),
	)

	// 未支付与已发运的订单静默排除，不算失败
	count, err := env.service.Cutoff(context.Background(), []string{"o1", "o2", "o3", "o4", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for id, want := range map[string]domain.Status{
		"o1": domain.StatusProcessing,
		"o2": domain.StatusPendingPayment,
		"o3": domain.StatusProcessing,
		"o4": domain.StatusShipping,
	} {
		order, err := env.orders.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, order.Status, "order %s", id)
	}
	assert.Len(t, env.notifier.events, 2)
}

func TestPickList(t *testing.T) {
	o1 := orderInStatus(t, "o1", domain.StatusProcessing)
	o1.Items = []domain.LineItem{
		{ProductID: "p1", ProductName: "oat milk", UnitPrice: 81, Quantity: 3, LineTotal: 243},
		{ProductID: "p2", ProductName: "cold brew", UnitPrice: 40, Quantity: 2, LineTotal: 80},
	}
	o2 := orderInStatus(t, "o2", domain.StatusProcessing)
	o2.Items = []domain.LineItem{
		{ProductID: "p1", ProductName: "oat milk", UnitPrice: 81, Quantity: 2, LineTotal: 162},
		{ProductID: "p3", ProductName: "almond latte", UnitPrice: 55, Quantity: 5, LineTotal: 275},
	}
	env := newTestEnv(testProducts(), o1, o2)

	rows, err := env.service.PickList(context.Background(), []string{"o1", "o2"})
	require.NoError(t, err)

	// 按总量降序；p1 跨订单求和
	require.Len(t, rows, 3)
	assert.Equal(t, PickListRow{ProductID: "p1", ProductName: "oat milk", Quantity: 5}, rows[0])
	assert.Equal(t, PickListRow{ProductID: "p3", ProductName: "almond latte", Quantity: 5}, rows[1])
	assert.Equal(t, PickListRow{ProductID: "p2", ProductName: "cold brew", Quantity: 2}, rows[2])
	// 数量并列时按商品ID升序，输出稳定
	assert.Less(t, rows[0].ProductID, rows[1].ProductID)
}

func TestDispatch_PendingConfirmation(t *testing.T) {
	good := orderInStatus(t, "o1", domain.StatusProcessing)
	noAddress := orderInStatus(t, "o2", domain.StatusProcessing)
	noAddress.DeliveryAddress = ""
	notReady := orderInStatus(t, "o3", domain.StatusPaid)
	env := newTestEnv(testProducts(), good, noAddress, notReady)

	report, err := env.service.Dispatch(context.Background(), []string{"o1", "o2", "o3"}, false)
	require.NoError(t, err)

	// 存在问题单且未强制确认：一单都不发出
	assert.True(t, report.PendingConfirmation)
	assert.Empty(t, env.courier.calls)
	assert.Equal(t, 0, report.SuccessCount)
	assert.Equal(t, []string{"o1"}, report.ValidIDs)
	require.Len(t, report.Problematic, 2)

	// 强制确认后只发有效集
	report, err = env.service.Dispatch(context.Background(), []string{"o1", "o2", "o3"}, true)
	require.NoError(t, err)
	assert.False(t, report.PendingConfirmation)
	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, []string{"o1"}, env.courier.calls)
}

func TestDispatch_SingleFailureDoesNotAbortBatch(t *testing.T) {
	env := newTestEnv(testProducts(),
		orderInStatus(t, "o1", domain.StatusProcessing),
		orderInStatus(t, "o2", domain.StatusProcessing),
		orderInStatus(t, "o3", domain.StatusProcessing),
	)
	env.courier.results["o2"] = courierResult{
		raw: []byte(`{"success":false,"errorCode":"8016"}`),
		err: errors.New("courier order failed: 8016"),
	}

	report, err := env.service.Dispatch(context.Background(), []string{"o1", "o2", "o3"}, false)
	require.NoError(t, err, "batch always returns a report, never an error")

	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, []string{"o2"}, report.FailedIDs)
	// 严格按选择顺序串行外呼，失败后继续
	assert.Equal(t, []string{"o1", "o2", "o3"}, env.courier.calls)

	for id, want := range map[string]domain.Status{
		"o1": domain.StatusReadyForPickup,
		"o2": domain.StatusAbnormal,
		"o3": domain.StatusReadyForPickup,
	} {
		order, findErr := env.orders.FindByID(context.Background(), id)
		require.NoError(t, findErr)
		assert.Equal(t, want, order.Status, "order %s", id)
	}

	// 成功单拿到运单号，失败单留档原始响应
	o1, _ := env.orders.FindByID(context.Background(), "o1")
	assert.Equal(t, "SF-o1", o1.WaybillNo)
	o2, _ := env.orders.FindByID(context.Background(), "o2")
	assert.Empty(t, o2.WaybillNo)
	require.NotNil(t, o2.LastCarrierResponse())
	assert.Equal(t, "create_order", o2.LastCarrierResponse().Kind)
}

func TestDispatch_AllFail(t *testing.T) {
	env := newTestEnv(testProducts(),
		orderInStatus(t, "o1", domain.StatusProcessing),
		orderInStatus(t, "o2", domain.StatusProcessing),
	)
	env.courier.results["o1"] = courierResult{err: errors.New("dial tcp: timeout")}
	env.courier.results["o2"] = courierResult{err: errors.New("dial tcp: timeout")}

	report, err := env.service.Dispatch(context.Background(), []string{"o1", "o2"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.SuccessCount)
	assert.Equal(t, []string{"o1", "o2"}, report.FailedIDs)
}
