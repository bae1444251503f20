// cmd/storecredit-service/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"creditcore/internal/pkg/bootstrap"
	"creditcore/internal/pkg/logger"
	"creditcore/internal/pkg/redis"
	"creditcore/internal/pkg/zookeeper"
	orderapp "creditcore/internal/service/order/application"
	"creditcore/internal/service/order/application/allocation"
	orderdomain "creditcore/internal/service/order/domain"
	orderinfra "creditcore/internal/service/order/infrastructure"
	orderadapter "creditcore/internal/service/order/infrastructure/adapter"
	orderhttp "creditcore/internal/service/order/interfaces"
	scapp "creditcore/internal/service/storecredit/application"
	scinfra "creditcore/internal/service/storecredit/infrastructure"
	scadapter "creditcore/internal/service/storecredit/infrastructure/adapter"
	schttp "creditcore/internal/service/storecredit/interfaces"
	scport "creditcore/internal/service/storecredit/port"
)

const (
	serviceName = "storecredit-service"
	servicePort = 8085
)

func main() {
	bootstrap.Init()
	logger.Init(serviceName)
	cfg := bootstrap.GetCurrentConfig()
	ctx := context.Background()

	// MySQL
	db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to mysql: %v", err)
	}
	if err := db.AutoMigrate(
		&scinfra.StoreCreditModel{},
		&scinfra.AuthorizationModel{},
		&scinfra.StoreCreditEventModel{},
		&orderinfra.OrderModel{},
		&orderinfra.PaymentModel{},
	); err != nil {
		log.Fatalf("failed to migrate database schema: %v", err)
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.Infra.Redis.Addr)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// ZooKeeper
	zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Addrs)
	if err != nil {
		log.Fatalf("failed to connect to zookeeper: %v", err)
	}
	defer zkConn.Close()

	// Kafka
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Infra.Kafka.Brokers...),
		Topic:    cfg.Infra.Kafka.NotificationTopic,
		Balancer: &kafka.Hash{},
	}
	defer kafkaWriter.Close()

	tracer := otel.Tracer(serviceName)

	// 店铺信用上下文
	creditRepo := scinfra.NewGormStoreCreditRepository(db)
	eventRepo := scinfra.NewGormEventRepository(db)
	locker := scadapter.NewZkLockerAdapter(zkConn)
	cache := scadapter.NewBalanceRedisAdapter(redisClient)
	var notifier scport.Notifier
	if cfg.App.NotificationChannel == "smtp" {
		notifier = scadapter.NewNotificationMailAdapter(scadapter.SMTPConfig{
			Host:     cfg.Infra.SMTP.Host,
			Port:     cfg.Infra.SMTP.Port,
			Username: cfg.Infra.SMTP.Username,
			Password: cfg.Infra.SMTP.Password,
			From:     cfg.Infra.SMTP.From,
		}, func(_ context.Context, userID string) (string, error) {
			return fmt.Sprintf(cfg.Infra.SMTP.UserEmailFormat, userID), nil
		})
	} else {
		notifier = scadapter.NewNotificationKafkaAdapter(kafkaWriter)
	}
	creditService := scapp.NewStoreCreditService(
		creditRepo, eventRepo, locker, notifier, cache, tracer, cfg.App.GiftCardCategoryID)

	// 订单上下文
	orderRepo := orderinfra.NewGormOrderRepository(db)
	creditPort := orderadapter.NewStoreCreditLocalAdapter(creditService)
	gateway := orderadapter.NewStripeGatewayAdapter(cfg.Infra.Stripe.APIKey)
	allocStrategy := allocation.NewStoreCreditAllocation(creditPort, tracer)
	orderService := orderapp.NewOrderApplicationService(orderRepo, allocStrategy, creditPort, tracer)
	capturing := orderapp.NewOrderCapturing(
		orderRepo, creditPort, gateway, captureMethodPriority(cfg.App.CaptureMethodPriority), tracer)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			schttp.NewStoreCreditHandler(creditService).RegisterRoutes(appCtx.Mux)
			orderhttp.NewOrderHandler(orderService, capturing).RegisterRoutes(appCtx.Mux)
			appCtx.Mux.Handle("/metrics", promhttp.Handler())
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		},
	})
}

func captureMethodPriority(raw []string) []orderdomain.PaymentMethod {
	methods := make([]orderdomain.PaymentMethod, len(raw))
	for i, m := range raw {
		methods[i] = orderdomain.PaymentMethod(m)
	}
	return methods
}
