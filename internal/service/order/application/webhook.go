// internal/service/order/application/webhook.go
package application

import (
	"context"

	"storefront/internal/pkg/logger"
	"storefront/internal/service/courier"
	"storefront/internal/service/order/domain"
)

// HandleRoutePush 处理签名校验已通过的路由推送，raw 为原始 msgData 用于留档。
// 对承运商永远应答成功以终止重推；内部的跳过与失败只记日志与指标。
func (s *OrderApplicationService) HandleRoutePush(ctx context.Context, requestID string, msg *courier.RoutePushMsg, raw []byte) {
	ctx, span := s.tracer.Start(ctx, "app.HandleRoutePush")
	defer span.End()

	log := logger.Ctx(ctx)

	// 重复推送吸收；守卫不可用时放行，靠状态机回退保护兜底
	if s.replay != nil && requestID != "" {
		seen, err := s.replay.Seen(ctx, requestID)
		if err != nil {
			log.Warn().Err(err).Str("request_id", requestID).Msg("replay guard unavailable, proceeding")
		} else if seen {
			log.Info().Str("request_id", requestID).Msg("duplicate route push acknowledged and skipped")
			webhookEventsTotal.WithLabelValues("duplicate").Inc()
			return
		}
	}

	var target domain.Status
	switch courier.ScanRoutes(msg.Routes) {
	case courier.OutcomeDelivered:
		target = domain.StatusCompleted
	case courier.OutcomeShipping:
		target = domain.StatusShipping
	default:
		// 不认识的路由码：应答成功但不迁移，否则承运商会持续重推
		log.Info().Str("waybill_no", msg.MailNo).Msg("route push contains no recognized op codes, ignored")
		webhookEventsTotal.WithLabelValues("ignored").Inc()
		return
	}

	// 承运商不知道订单号，只能按运单号关联
	orders, err := s.orders.FindByWaybill(ctx, msg.MailNo)
	if err != nil {
		log.Error().Err(err).Str("waybill_no", msg.MailNo).Msg("waybill lookup failed")
		webhookEventsTotal.WithLabelValues("error").Inc()
		return
	}
	if len(orders) != 1 {
		// 0 条或多条都不能猜，记日志跳过
		log.Warn().Str("waybill_no", msg.MailNo).Int("matches", len(orders)).
			Msg("waybill does not resolve to exactly one order, skipped")
		webhookEventsTotal.WithLabelValues("unmatched").Inc()
		return
	}

	order := orders[0]
	from := order.Status
	changed, err := order.ApplyWebhookStatus(target)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("route push status application failed")
		webhookEventsTotal.WithLabelValues("error").Inc()
		return
	}
	if !changed {
		// 冻结或回退保护：状态不动，也不落任何写
		log.Info().Str("order_id", order.ID).Str("status", string(order.Status)).
			Str("target", string(target)).Msg("route push skipped by regression guard")
		webhookEventsTotal.WithLabelValues("skipped").Inc()
		return
	}

	order.AppendCarrierLog("route_push", raw)
	if err := s.orders.Save(ctx, order); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to save order after route push")
		webhookEventsTotal.WithLabelValues("error").Inc()
		return
	}

	webhookEventsTotal.WithLabelValues("applied").Inc()
	s.notifyStatusChanged(ctx, order, from, "carrier route update")
}
