// internal/service/order/application/batch.go
package application

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"storefront/internal/pkg/logger"
	"storefront/internal/service/order/domain"
)

// Cutoff 截单：把选中订单里处于已支付的批量流转到备货中。
// 不满足条件的订单静默排除，不算批量失败。返回实际流转的数量。
func (s *OrderApplicationService) Cutoff(ctx context.Context, orderIDs []string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "app.Cutoff")
	defer span.End()

	orders, err := s.orders.FindByIDs(ctx, orderIDs)
	if err != nil {
		return 0, fmt.Errorf("load orders: %w", err)
	}

	count := 0
	for _, order := range orders {
		if order.Status != domain.StatusPaid {
			continue
		}
		from := order.Status
		if err := order.TransitionTo(domain.StatusProcessing); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("cutoff transition failed")
			continue
		}
		if err := s.orders.Save(ctx, order); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("cutoff save failed")
			continue
		}
		s.notifyStatusChanged(ctx, order, from, "order moved to processing")
		count++
	}
	span.SetAttributes(attribute.Int("cutoff.count", count))
	return count, nil
}

// PickList 聚合拣货单：按 (商品ID, 商品名) 分组求和数量，按总量降序。
// 这是确定性的归并，数量相同时按商品ID升序保证输出稳定。
func (s *OrderApplicationService) PickList(ctx context.Context, orderIDs []string) ([]PickListRow, error) {
	ctx, span := s.tracer.Start(ctx, "app.PickList")
	defer span.End()

	orders, err := s.orders.FindByIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	type key struct{ id, name string }
	sums := make(map[key]int)
	for _, order := range orders {
		for _, item := range order.Items {
			sums[key{item.ProductID, item.ProductName}] += item.Quantity
		}
	}

	rows := make([]PickListRow, 0, len(sums))
	for k, qty := range sums {
		rows = append(rows, PickListRow{ProductID: k.id, ProductName: k.name, Quantity: qty})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Quantity != rows[j].Quantity {
			return rows[i].Quantity > rows[j].Quantity
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	return rows, nil
}

// Dispatch 批量发货，两阶段：
// 阶段一校验每单的地址与联系人完整性，拆出问题单；存在问题单且未强制确认时
// 原样返回拆分结果，一单都不发出。
// 阶段二对确认的有效集逐单串行调用承运商——承运商侧的限流与幂等模型假设串行，
// 不得并行化。单个订单失败降级为异常后继续下一单，失败永不吞掉。
func (s *OrderApplicationService) Dispatch(ctx context.Context, orderIDs []string, force bool) (*DispatchReport, error) {
	ctx, span := s.tracer.Start(ctx, "app.Dispatch")
	defer span.End()

	orders, err := s.orders.FindByIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	report := &DispatchReport{FailedIDs: []string{}}
	valid := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if reason := dispatchPrecheck(order); reason != "" {
			report.Problematic = append(report.Problematic, DispatchProblem{OrderID: order.ID, Reason: reason})
			continue
		}
		valid = append(valid, order)
		report.ValidIDs = append(report.ValidIDs, order.ID)
	}

	if len(report.Problematic) > 0 && !force {
		report.PendingConfirmation = true
		logger.Ctx(ctx).Warn().Int("problematic", len(report.Problematic)).
			Msg("dispatch blocked pending confirmation of problematic orders")
		return report, nil
	}

	// 严格按选择顺序逐单外呼
	for _, order := range valid {
		s.dispatchOne(ctx, order, report)
	}

	span.SetAttributes(
		attribute.Int("dispatch.success", report.SuccessCount),
		attribute.Int("dispatch.failed", len(report.FailedIDs)),
	)
	logger.Ctx(ctx).Info().Int("success", report.SuccessCount).Int("failed", len(report.FailedIDs)).
		Msg("batch dispatch finished")
	return report, nil
}

// dispatchOne 处理单个订单的承运商下单。任何失败（网络、超时、非2xx、响应缺运单号）
// 都把该订单降级为异常并继续，绝不让单个订单中断批次。
func (s *OrderApplicationService) dispatchOne(ctx context.Context, order *domain.Order, report *DispatchReport) {
	from := order.Status
	waybillNo, raw, err := s.courier.CreateOrder(ctx, order)
	order.AppendCarrierLog("create_order", raw)

	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("courier dispatch failed")
		dispatchFailureTotal.Inc()
		if markErr := order.MarkAbnormal(); markErr != nil {
			logger.Ctx(ctx).Error().Err(markErr).Str("order_id", order.ID).Msg("failed to mark order abnormal")
		}
		if saveErr := s.orders.Save(ctx, order); saveErr != nil {
			logger.Ctx(ctx).Error().Err(saveErr).Str("order_id", order.ID).Msg("failed to save abnormal order")
		}
		report.FailedIDs = append(report.FailedIDs, order.ID)
		s.notifyStatusChanged(ctx, order, from, "courier dispatch failed")
		return
	}

	if err := order.MarkDispatched(waybillNo); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to mark order dispatched")
		report.FailedIDs = append(report.FailedIDs, order.ID)
		dispatchFailureTotal.Inc()
		return
	}
	if err := s.orders.Save(ctx, order); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to save dispatched order")
		report.FailedIDs = append(report.FailedIDs, order.ID)
		dispatchFailureTotal.Inc()
		return
	}

	dispatchSuccessTotal.Inc()
	report.SuccessCount++
	s.notifyStatusChanged(ctx, order, from, "order dispatched to courier")
}

// dispatchPrecheck 校验发货前置条件，返回空串表示通过
func dispatchPrecheck(order *domain.Order) string {
	if order.Status != domain.StatusProcessing {
		return fmt.Sprintf("status is %s, expected %s", order.Status, domain.StatusProcessing)
	}
	if order.CustomerPhone == "" {
		return "missing customer phone"
	}
	if order.ContactName == "" && order.CustomerName == "" {
		return "missing contact name"
	}
	if order.DeliveryAddress == "" {
		return "missing delivery address"
	}
	return ""
}
