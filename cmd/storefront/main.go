// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/httpclient"
	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/mq"
	cataloginfra "storefront/internal/service/catalog/infrastructure"
	"storefront/internal/service/courier"
	"storefront/internal/service/order/application"
	orderinfra "storefront/internal/service/order/infrastructure"
	"storefront/internal/service/order/infrastructure/adapter"
	"storefront/internal/service/order/interfaces"
	"storefront/internal/service/pricing"
	"storefront/internal/service/shipping"
)

const serviceName = "storefront"

// main 函数是应用的"组装根" (Composition Root)：
// 创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init()
	logger.Init(serviceName)
	cfg := bootstrap.GetCurrentConfig()

	db, err := gorm.Open(gormmysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("FATAL: failed to connect mysql: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Infra.Redis.Addr})
	writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.NotificationTopic)

	orders := orderinfra.NewGormOrderRepository(db)
	products := cataloginfra.NewGormProductRepository(db)
	notifier := adapter.NewNotificationKafkaAdapter(writer)
	replay := adapter.NewReplayGuardRedisAdapter(rdb)

	courierClient := courier.NewClient(courier.Config{
		BaseURL:     cfg.Courier.BaseURL,
		PartnerID:   cfg.Courier.PartnerID,
		Checkword:   cfg.Courier.Checkword,
		MonthlyCard: cfg.Courier.MonthlyCard,
		Timeout:     time.Duration(cfg.Courier.TimeoutSeconds) * time.Second,
	}, httpclient.NewClient(otel.Tracer(serviceName)))
	courierAdapter := adapter.NewCourierSFAdapter(courierClient, products, adapter.SFAdapterConfig{
		Sender: courier.ContactInfo{
			Contact: cfg.Courier.Sender.Name,
			Mobile:  cfg.Courier.Sender.Mobile,
			Address: cfg.Courier.Sender.Address,
			Region:  cfg.Courier.Sender.Region,
			City:    cfg.Courier.Sender.City,
		},
		DefaultRegion: cfg.Courier.Sender.Region,
		DefaultCity:   cfg.Courier.Sender.City,
	})

	feeProvider := shipping.NewProvider(fallbackFeeTable(cfg))
	service := application.NewOrderApplicationService(
		orders, products, courierAdapter, notifier, replay,
		feeProvider, pricingRules, otel.Tracer(serviceName),
	)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			interfaces.NewOrderHandler(service).RegisterRoutes(appCtx.Mux)
			interfaces.NewWebhookHandler(service, func() string {
				return bootstrap.GetCurrentConfig().Courier.Checkword
			}).RegisterRoutes(appCtx.Mux)
			// 运费表热更新订阅；配置中心不可用时继续用兜底表
			feeProvider.SubscribeNacos(appCtx.Nacos, cfg.Shipping.NacosDataID)
		},
		OnShutdown: func(ctx context.Context) {
			if err := notifier.Close(); err != nil {
				log.Printf("Error closing kafka writer: %v", err)
			}
			if err := rdb.Close(); err != nil {
				log.Printf("Error closing redis client: %v", err)
			}
		},
	})
}

// pricingRules 每次结算读取最新配置快照
func pricingRules() pricing.Rules {
	cfg := bootstrap.GetCurrentConfig()
	excluded := make(map[string]struct{}, len(cfg.Pricing.ExcludedProductIDs))
	for _, id := range cfg.Pricing.ExcludedProductIDs {
		excluded[id] = struct{}{}
	}
	return pricing.Rules{
		MemberDiscountPct:  cfg.Pricing.MemberDiscountPct,
		WalletDiscountPct:  cfg.Pricing.WalletDiscountPct,
		ExcludedProductIDs: excluded,
	}
}

// fallbackFeeTable 把配置文件里的兜底运费表转换为计算器的快照格式
func fallbackFeeTable(cfg *bootstrap.Config) shipping.FeeTable {
	table := shipping.FeeTable{}
	for method, fee := range cfg.Shipping.Fallback {
		table[shipping.DeliveryMethod(method)] = shipping.MethodFee{
			Fee:           fee.Fee,
			FreeThreshold: fee.FreeThreshold,
		}
	}
	return table
}
