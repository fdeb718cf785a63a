// internal/service/order/infrastructure/mapper.go
package infrastructure

import (
	"encoding/json"

	"github.com/pkg/errors"

	"storefront/internal/service/order/domain"
	"storefront/internal/service/shipping"
)

// FromDomainOrder 将领域模型转换为数据库模型。
// 行项目与承运商留档序列化为 JSON 列。
func FromDomainOrder(order *domain.Order) (*OrderModel, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, errors.Wrap(err, "marshal line items")
	}
	responses, err := json.Marshal(order.CarrierLog)
	if err != nil {
		return nil, errors.Wrap(err, "marshal carrier log")
	}
	return &OrderModel{
		ID:               order.ID,
		CustomerName:     order.CustomerName,
		CustomerPhone:    order.CustomerPhone,
		Total:            order.Total,
		Subtotal:         order.Subtotal,
		DeliveryFee:      order.DeliveryFee,
		Status:           string(order.Status),
		OrderDate:        order.OrderDate,
		ItemsCount:       order.ItemsCount,
		LineItems:        string(items),
		DeliveryMethod:   string(order.DeliveryMethod),
		DeliveryAddress:  order.DeliveryAddress,
		DeliveryDistrict: order.DeliveryDistrict,
		DeliveryFloor:    order.DeliveryFloor,
		DeliveryFlat:     order.DeliveryFlat,
		ContactName:      order.ContactName,
		WaybillNo:        order.WaybillNo,
		TrackingNumber:   order.TrackingNumber,
		SFResponses:      string(responses),
		PaymentRef:       order.PaymentRef,
		UpdatedAt:        order.UpdatedAt,
	}, nil
}

// ToDomainOrder 将数据库模型转换为领域模型
func ToDomainOrder(model *OrderModel) (*domain.Order, error) {
	if model == nil {
		return nil, nil
	}
	var items []domain.LineItem
	if model.LineItems != "" {
		if err := json.Unmarshal([]byte(model.LineItems), &items); err != nil {
			return nil, errors.Wrapf(err, "unmarshal line items of order %s", model.ID)
		}
	}
	var carrierLog []domain.CarrierLogEntry
	if model.SFResponses != "" {
		if err := json.Unmarshal([]byte(model.SFResponses), &carrierLog); err != nil {
			return nil, errors.Wrapf(err, "unmarshal carrier log of order %s", model.ID)
		}
	}
	return &domain.Order{
		ID:               model.ID,
		CustomerName:     model.CustomerName,
		CustomerPhone:    model.CustomerPhone,
		Items:            items,
		DeliveryMethod:   shipping.DeliveryMethod(model.DeliveryMethod),
		DeliveryAddress:  model.DeliveryAddress,
		DeliveryDistrict: model.DeliveryDistrict,
		DeliveryFloor:    model.DeliveryFloor,
		DeliveryFlat:     model.DeliveryFlat,
		ContactName:      model.ContactName,
		Subtotal:         model.Subtotal,
		DeliveryFee:      model.DeliveryFee,
		Total:            model.Total,
		Status:           domain.Status(model.Status),
		PaymentRef:       model.PaymentRef,
		WaybillNo:        model.WaybillNo,
		TrackingNumber:   model.TrackingNumber,
		CarrierLog:       carrierLog,
		ItemsCount:       model.ItemsCount,
		OrderDate:        model.OrderDate,
		UpdatedAt:        model.UpdatedAt,
	}, nil
}
