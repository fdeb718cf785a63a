// internal/service/order/application/fakes_test.go
package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	catalog "storefront/internal/service/catalog/domain"
	"storefront/internal/service/order/domain"
	"storefront/internal/service/pricing"
	"storefront/internal/service/shipping"
)

// ---- 内存仓储 ----

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	saves  int
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	r.saves++
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		if order, ok := r.orders[id]; ok {
			out = append(out, order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByWaybill(_ context.Context, waybillNo string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, order := range r.orders {
		if order.WaybillNo == waybillNo {
			out = append(out, order)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*catalog.Product
}

func (r *fakeProductRepo) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []string) (map[string]*catalog.Product, error) {
	out := make(map[string]*catalog.Product)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// ---- 出站端口假实现 ----

type courierResult struct {
	waybillNo string
	raw       []byte
	err       error
}

type fakeCourier struct {
	results map[string]courierResult
	calls   []string // 记录外呼顺序
}

func (c *fakeCourier) CreateOrder(_ context.Context, order *domain.Order) (string, []byte, error) {
	c.calls = append(c.calls, order.ID)
	res, ok := c.results[order.ID]
	if !ok {
		return "SF-" + order.ID, []byte(`{"success":true}`), nil
	}
	return res.waybillNo, res.raw, res.err
}

type fakeNotifier struct {
	events []*domain.OrderStatusChangedEvent
}

func (n *fakeNotifier) OrderStatusChanged(_ context.Context, event *domain.OrderStatusChangedEvent) error {
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) Close() error { return nil }

type fakeReplay struct {
	seen map[string]bool
	err  error
}

func (g *fakeReplay) Seen(_ context.Context, requestID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.seen == nil {
		g.seen = make(map[string]bool)
	}
	dup := g.seen[requestID]
	g.seen[requestID] = true
	return dup, nil
}

// ---- 组装 ----

type testEnv struct {
	service  *OrderApplicationService
	orders   *fakeOrderRepo
	courier  *fakeCourier
	notifier *fakeNotifier
	replay   *fakeReplay
}

func newTestEnv(products map[string]*catalog.Product, orders ...*domain.Order) *testEnv {
	env := &testEnv{
		orders:   newFakeOrderRepo(orders...),
		courier:  &fakeCourier{results: make(map[string]courierResult)},
		notifier: &fakeNotifier{},
		replay:   &fakeReplay{},
	}
	rules := func() pricing.Rules {
		return pricing.Rules{MemberDiscountPct: 10, WalletDiscountPct: 5}
	}
	env.service = NewOrderApplicationService(
		env.orders, &fakeProductRepo{products: products}, env.courier,
		env.notifier, env.replay, shipping.NewProvider(nil), rules, otel.Tracer("test"),
	)
	return env
}

// orderInStatus 构造一个推进到目标状态的订单
func orderInStatus(t *testing.T, id string, status domain.Status) *domain.Order {
	t.Helper()
	items := []domain.LineItem{
		{ProductID: "p1", ProductName: "oat milk", UnitPrice: 81, Quantity: 2, LineTotal: 162},
	}
	order, err := domain.NewOrder(id, "Chan Tai Man", "91234567", items, shipping.MethodHome, 50, "pay-"+id)
	require.NoError(t, err)
	order.DeliveryAddress = "1 Queen's Road"

	path := map[domain.Status][]domain.Status{
		domain.StatusPendingPayment: {},
		domain.StatusPaid:           {domain.StatusPaid},
		domain.StatusProcessing:     {domain.StatusPaid, domain.StatusProcessing},
		domain.StatusReadyForPickup: {domain.StatusPaid, domain.StatusProcessing, domain.StatusReadyForPickup},
		domain.StatusShipping:       {domain.StatusPaid, domain.StatusProcessing, domain.StatusReadyForPickup, domain.StatusShipping},
		domain.StatusCompleted:      {domain.StatusPaid, domain.StatusProcessing, domain.StatusReadyForPickup, domain.StatusShipping, domain.StatusCompleted},
		domain.StatusAbnormal:       {domain.StatusPaid, domain.StatusProcessing, domain.StatusAbnormal},
		domain.StatusRefund:         {domain.StatusRefund},
	}
	for _, s := range path[status] {
		require.NoError(t, order.TransitionTo(s))
	}
	return order
}
