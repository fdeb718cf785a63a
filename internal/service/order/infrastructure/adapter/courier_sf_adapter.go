// internal/service/order/infrastructure/adapter/courier_sf_adapter.go
package adapter

import (
	"context"

	"storefront/internal/pkg/logger"
	catalog "storefront/internal/service/catalog/domain"
	"storefront/internal/service/courier"
	"storefront/internal/service/order/domain"
)

// 商品未配置重量时按每件 0.5kg 估算，承运商要求总重必须大于 0
const defaultItemWeightKG = 0.5

// SFAdapterConfig 是承运商适配器的寄件方与报文默认值配置
type SFAdapterConfig struct {
	Sender        courier.ContactInfo // contactType 会被强制为寄件方
	DefaultRegion string
	DefaultCity   string
	Language      string
	PayMethod     int
}

// CourierSFAdapter 实现 port.CourierService：
// 把订单聚合翻译成承运商下单报文，再交给 courier.Client 签名外呼。
type CourierSFAdapter struct {
	client   *courier.Client
	products catalog.Repository
	cfg      SFAdapterConfig
}

// NewCourierSFAdapter 创建承运商适配器
func NewCourierSFAdapter(client *courier.Client, products catalog.Repository, cfg SFAdapterConfig) *CourierSFAdapter {
	if cfg.Language == "" {
		cfg.Language = "zh-HK"
	}
	if cfg.PayMethod == 0 {
		cfg.PayMethod = 1 // 寄方月结
	}
	cfg.Sender.ContactType = courier.ContactTypeSender
	return &CourierSFAdapter{client: client, products: products, cfg: cfg}
}

func (a *CourierSFAdapter) CreateOrder(ctx context.Context, order *domain.Order) (string, []byte, error) {
	msg := a.buildMsg(ctx, order)
	return a.client.CreateOrder(ctx, msg)
}

func (a *CourierSFAdapter) buildMsg(ctx context.Context, order *domain.Order) *courier.CreateOrderMsg {
	contactName := order.ContactName
	if contactName == "" {
		contactName = order.CustomerName
	}
	city := order.DeliveryDistrict
	if city == "" {
		city = a.cfg.DefaultCity
	}

	cargo := make([]courier.CargoDetail, 0, len(order.Items))
	for _, item := range order.Items {
		cargo = append(cargo, courier.CargoDetail{Name: item.ProductName, Count: item.Quantity})
	}

	return &courier.CreateOrderMsg{
		OrderID:       order.ID,
		Language:      a.cfg.Language,
		MonthlyCard:   a.client.MonthlyCard(),
		ExpressTypeID: courier.ExpressTypeFor(string(order.DeliveryMethod)),
		PayMethod:     a.cfg.PayMethod,
		ParcelQty:     1,
		TotalWeight:   a.totalWeight(ctx, order),
		ContactInfoList: []courier.ContactInfo{
			a.cfg.Sender,
			{
				ContactType: courier.ContactTypeReceiver,
				Contact:     contactName,
				Mobile:      order.CustomerPhone,
				Address:     order.DeliveryAddress,
				Region:      a.cfg.DefaultRegion,
				City:        city,
			},
		},
		CargoDetails: cargo,
	}
}

// totalWeight 按目录重量累加；目录不可用或未配置重量时按件数估算，
// 宁可估重也不能让报文带 0 重量被拒
func (a *CourierSFAdapter) totalWeight(ctx context.Context, order *domain.Order) float64 {
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := a.products.FindByIDs(ctx, ids)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).
			Msg("catalog unavailable for weight lookup, estimating")
		products = nil
	}

	var total float64
	for _, item := range order.Items {
		weight := defaultItemWeightKG
		if p, ok := products[item.ProductID]; ok && p.WeightKG > 0 {
			weight = p.WeightKG
		}
		total += weight * float64(item.Quantity)
	}
	if total <= 0 {
		total = defaultItemWeightKG
	}
	return total
}
