package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mtljason322/freshcart/internal/events"
	"github.com/mtljason322/freshcart/internal/handler"
	"github.com/mtljason322/freshcart/internal/repository"
	"github.com/mtljason322/freshcart/internal/service"
	"github.com/mtljason322/freshcart/pkg/config"
	"github.com/mtljason322/freshcart/pkg/logger"
	pkgtls "github.com/mtljason322/freshcart/pkg/tls"
	"go.uber.org/zap"
)

func main() {
	// Config 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Logger 초기화
	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 이벤트 싱크 (LOCAL_MODE에서는 비활성)
	var (
		publishers events.Fanout
		opts       []service.Option
	)

	if cfg.KafkaEnabled() {
		producer, err := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, zlog)
		if err != nil {
			zlog.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		defer producer.Close()
		publishers = append(publishers, producer)
	}

	if cfg.AuditEnabled() {
		dynamoClient, err := repository.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			zlog.Fatal("Failed to create DynamoDB client", zap.Error(err))
		}
		auditRepo := repository.NewAuditRepository(dynamoClient, cfg.AuditTableName)
		publishers = append(publishers, auditRepo)
		opts = append(opts, service.WithHistory(auditRepo))
	}

	if len(publishers) > 0 {
		opts = append(opts, service.WithPublisher(publishers))
	}

	zlog.Info("Event sinks configured",
		zap.Bool("local_mode", cfg.LocalMode),
		zap.Bool("kafka", cfg.KafkaEnabled()),
		zap.Bool("audit", cfg.AuditEnabled()))

	// Service, Handler 초기화
	productService := service.NewProductService(zlog, opts...)
	productHandler := handler.NewProductHandler(productService, zlog)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(productHandler, zlog)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tlsSource, err := pkgtls.Load(ctx, cfg.TLSConfig, zlog)
	if err != nil {
		zlog.Fatal("Failed to load TLS configuration", zap.Error(err))
	}
	defer tlsSource.Close()

	if tlsSource != nil {
		srv.TLSConfig = tlsSource.ServerConfig()
		go tlsSource.Watch(ctx, 30*time.Second)
	}

	// Server 시작
	go func() {
		zlog.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.Bool("tls", tlsSource != nil))

		var err error
		if tlsSource != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()

	zlog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	zlog.Info("Server exited")
}
