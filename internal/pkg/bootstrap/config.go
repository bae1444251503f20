// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 描述了服务的全部可配置项，由 yaml 文件加载，环境变量可覆盖关键字段。
type Config struct {
	App struct {
		// CaptureMethodPriority 声明扣款顺序，排在前面的支付方式先被扣款。
		// 店铺信用必须始终排在第一位。
		CaptureMethodPriority []string `yaml:"captureMethodPriority"`
		GiftCardCategoryID    string   `yaml:"giftCardCategoryId"`
		// NotificationChannel 选择礼品卡到账通知的投递通道：kafka 或 smtp。
		NotificationChannel string `yaml:"notificationChannel"`
	} `yaml:"app"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers           []string `yaml:"brokers"`
			NotificationTopic string   `yaml:"notificationTopic"`
		} `yaml:"kafka"`
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Zookeeper struct {
			Addrs []string `yaml:"addrs"`
		} `yaml:"zookeeper"`
		Stripe struct {
			APIKey string `yaml:"apiKey"`
		} `yaml:"stripe"`
		SMTP struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Username string `yaml:"username"`
			Password string `yaml:"password"`
			From     string `yaml:"from"`
			// UserEmailFormat 把用户 ID 映射为收件地址，例如 "%s@mail.example.com"。
			// 用户资料属于外部系统，SMTP 通道仅在能这样推导地址的环境里启用。
			UserEmailFormat string `yaml:"userEmailFormat"`
		} `yaml:"smtp"`
	} `yaml:"infra"`
}

var currentConfig Config

// Init 加载配置文件。路径来自 CONFIG_PATH，默认 configs/config.yaml。
// 配置缺失不是致命错误：各字段留空时组装根会退化到本地默认值。
func Init() {
	path := getEnv("CONFIG_PATH", "configs/config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("WARN: config file %s not readable (%v), using defaults", path, err)
		applyDefaults(&currentConfig)
		return
	}
	if err := yaml.Unmarshal(data, &currentConfig); err != nil {
		log.Fatalf("FATAL: invalid config file %s: %v", path, err)
	}
	applyDefaults(&currentConfig)
}

// GetCurrentConfig 返回进程级配置。必须先调用 Init。
func GetCurrentConfig() *Config {
	return &currentConfig
}

func applyDefaults(c *Config) {
	if c.Infra.Mysql.DSN == "" {
		c.Infra.Mysql.DSN = getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/creditcore?charset=utf8mb4&parseTime=True&loc=Local")
	}
	if c.Infra.Redis.Addr == "" {
		c.Infra.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	}
	if len(c.Infra.Kafka.Brokers) == 0 {
		c.Infra.Kafka.Brokers = []string{getEnv("KAFKA_BROKERS", "localhost:9092")}
	}
	if c.Infra.Kafka.NotificationTopic == "" {
		c.Infra.Kafka.NotificationTopic = "store-credit-notifications"
	}
	if c.Infra.Jaeger.Endpoint == "" {
		c.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	}
	if len(c.Infra.Zookeeper.Addrs) == 0 {
		c.Infra.Zookeeper.Addrs = []string{getEnv("ZOOKEEPER_ADDRS", "localhost:2181")}
	}
	if c.Infra.Stripe.APIKey == "" {
		c.Infra.Stripe.APIKey = os.Getenv("STRIPE_API_KEY")
	}
	if len(c.App.CaptureMethodPriority) == 0 {
		c.App.CaptureMethodPriority = []string{"store_credit", "credit_card"}
	}
	if c.App.GiftCardCategoryID == "" {
		c.App.GiftCardCategoryID = "gift-card"
	}
	if c.App.NotificationChannel == "" {
		c.App.NotificationChannel = getEnv("NOTIFICATION_CHANNEL", "kafka")
	}
	if c.Infra.SMTP.UserEmailFormat == "" {
		c.Infra.SMTP.UserEmailFormat = "%s@mail.example.com"
	}
}
