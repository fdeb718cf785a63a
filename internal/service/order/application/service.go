// internal/service/order/application/service.go
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/pkg/logger"
	catalog "storefront/internal/service/catalog/domain"
	"storefront/internal/service/order/domain"
	"storefront/internal/service/order/domain/port"
	"storefront/internal/service/pricing"
	"storefront/internal/service/shipping"
)

// OrderApplicationService 负责订单域的业务流程编排：
// 结算、支付确认、批量操作与路由推送的应用逻辑。
type OrderApplicationService struct {
	orders   domain.OrderRepository
	products catalog.Repository
	courier  port.CourierService
	notifier port.NotificationProducer
	replay   port.ReplayGuard
	fees     *shipping.Provider
	rules    func() pricing.Rules
	tracer   trace.Tracer
}

func NewOrderApplicationService(
	orders domain.OrderRepository,
	products catalog.Repository,
	courierSvc port.CourierService,
	notifier port.NotificationProducer,
	replay port.ReplayGuard,
	fees *shipping.Provider,
	rules func() pricing.Rules,
	tracer trace.Tracer,
) *OrderApplicationService {
	return &OrderApplicationService{
		orders: orders, products: products, courier: courierSvc,
		notifier: notifier, replay: replay, fees: fees, rules: rules, tracer: tracer,
	}
}

// PlaceOrder 处理结算提交：定价、算运费、冻结行项目并落库。
// 定价与运费是同步纯计算；校验过的输入不应再产生计算错误。
func (s *OrderApplicationService) PlaceOrder(ctx context.Context, req *CheckoutRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.PlaceOrder")
	defer span.End()

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("checkout requires at least one item")
	}
	if !req.DeliveryMethod.Valid() {
		return nil, fmt.Errorf("unsupported delivery method: %s", req.DeliveryMethod)
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	productsByID, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load products: %w", err)
	}

	rules := s.rules()
	items := make([]domain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		p, ok := productsByID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, item.ProductID)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity for product %s", item.ProductID)
		}
		unitPrice := pricing.EffectivePrice(p, item.Quantity, req.Tier, rules)
		items = append(items, domain.LineItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   unitPrice,
			Quantity:    item.Quantity,
			LineTotal:   unitPrice * int64(item.Quantity),
		})
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal
	}
	// 运费表来自配置快照，配置中心不可用时 Provider 已退回兜底表
	fee := shipping.Fee(subtotal, req.DeliveryMethod, s.fees.Table())

	order, err := domain.NewOrder(uuid.New().String(), req.CustomerName, req.CustomerPhone, items, req.DeliveryMethod, fee, req.PaymentRef)
	if err != nil {
		return nil, err
	}
	order.ContactName = req.ContactName
	if req.DeliveryMethod == shipping.MethodLocker {
		if req.LockerPoint == "" {
			return nil, fmt.Errorf("locker delivery requires a locker point")
		}
		order.DeliveryAddress = req.LockerPoint
	} else {
		order.DeliveryAddress = req.DeliveryAddress
		order.DeliveryDistrict = req.DeliveryDistrict
		order.DeliveryFloor = req.DeliveryFloor
		order.DeliveryFlat = req.DeliveryFlat
	}

	if err := s.orders.Save(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save new order")
		return nil, fmt.Errorf("save order: %w", err)
	}

	logger.Ctx(ctx).Info().Str("order_id", order.ID).Int64("total", order.Total).
		Msg("order created, pending payment")
	return order, nil
}

// ConfirmPayment 是支付协作方边界：支付单号匹配则流转到已支付
func (s *OrderApplicationService) ConfirmPayment(ctx context.Context, orderID, paymentRef string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.ConfirmPayment")
	defer span.End()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := order.ConfirmPayment(paymentRef); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save order: %w", err)
	}
	s.notifyStatusChanged(ctx, order, from, "payment confirmed")
	return order, nil
}

// GetOrder 返回订单详情，含最近一条承运商原始响应
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// notifyStatusChanged 旁路通知：发送失败只记日志，绝不影响主流程
func (s *OrderApplicationService) notifyStatusChanged(ctx context.Context, order *domain.Order, from domain.Status, message string) {
	if s.notifier == nil {
		return
	}
	event := &domain.OrderStatusChangedEvent{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		FromStatus:   from,
		ToStatus:     order.Status,
		WaybillNo:    order.WaybillNo,
		Message:      message,
		OccurredAt:   time.Now(),
	}
	if err := s.notifier.OrderStatusChanged(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).
			Msg("failed to publish order status notification")
	}
}
