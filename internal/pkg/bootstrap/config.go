// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"log"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Config 是整个应用的配置快照，启动时从 yaml 加载，可被环境变量覆盖。
// 运行期通过 GetCurrentConfig() 读取，禁止直接持有可变全局状态。
type Config struct {
	App struct {
		ServiceName string `yaml:"service_name"`
		Port        int    `yaml:"port"`
	} `yaml:"app"`

	Pricing struct {
		MemberDiscountPct  float64  `yaml:"member_discount_pct"`
		WalletDiscountPct  float64  `yaml:"wallet_discount_pct"`
		ExcludedProductIDs []string `yaml:"excluded_product_ids"`
	} `yaml:"pricing"`

	Shipping struct {
		// NacosDataID 是运费表在配置中心的 data-id，监听变更实现热更新
		NacosDataID string `yaml:"nacos_data_id"`
		// Fallback 是配置中心不可用时的兜底运费表，保证下单链路可降级
		Fallback map[string]struct {
			Fee           int64 `yaml:"fee"`
			FreeThreshold int64 `yaml:"free_threshold"`
		} `yaml:"fallback"`
	} `yaml:"shipping"`

	Courier struct {
		BaseURL        string `yaml:"base_url"`
		PartnerID      string `yaml:"partner_id"`
		Checkword      string `yaml:"checkword"`
		MonthlyCard    string `yaml:"monthly_card"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Sender         struct {
			Name    string `yaml:"name"`
			Mobile  string `yaml:"mobile"`
			Address string `yaml:"address"`
			Region  string `yaml:"region"`
			City    string `yaml:"city"`
		} `yaml:"sender"`
	} `yaml:"courier"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers           []string `yaml:"brokers"`
			NotificationTopic string   `yaml:"notification_topic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Nacos struct {
			ServerAddrs string `yaml:"server_addrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
	} `yaml:"infra"`
}

var currentConfig atomic.Value // *Config

// Init 加载配置文件并应用环境变量覆盖。必须在 StartService 之前调用。
func Init() {
	path := getEnv("CONFIG_FILE", "config.yaml")

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("WARN: could not read config file %s: %v. Using defaults.", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Fatalf("FATAL: invalid config file %s: %v", path, err)
	}

	applyEnvOverrides(cfg)
	currentConfig.Store(cfg)
}

// GetCurrentConfig 返回当前配置快照
func GetCurrentConfig() *Config {
	cfg, _ := currentConfig.Load().(*Config)
	if cfg == nil {
		cfg = defaultConfig()
		currentConfig.Store(cfg)
	}
	return cfg
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.ServiceName = "storefront"
	cfg.App.Port = 8080
	cfg.Pricing.MemberDiscountPct = 10
	cfg.Pricing.WalletDiscountPct = 5
	cfg.Shipping.NacosDataID = "shipping-fee-table"
	cfg.Courier.TimeoutSeconds = 10
	cfg.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/storefront?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Kafka.NotificationTopic = "order-notifications-v1"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	cfg.Infra.Mysql.DSN = getEnv("MYSQL_DSN", cfg.Infra.Mysql.DSN)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	cfg.Courier.PartnerID = getEnv("COURIER_PARTNER_ID", cfg.Courier.PartnerID)
	cfg.Courier.Checkword = getEnv("COURIER_CHECKWORD", cfg.Courier.Checkword)
	cfg.Courier.BaseURL = getEnv("COURIER_BASE_URL", cfg.Courier.BaseURL)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
