package main

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/shorty/internal/app"
	"github.com/tempizhere/shorty/internal/config"
	grpcserver "github.com/tempizhere/shorty/internal/grpc"
	"github.com/tempizhere/shorty/internal/grpc/proto"
	"github.com/tempizhere/shorty/internal/log"
	"github.com/tempizhere/shorty/internal/middleware"
	"github.com/tempizhere/shorty/internal/ratelimit"
	"github.com/tempizhere/shorty/internal/repository"
	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	// Получаем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	logger := log.NewLogger()
	defer logger.Sync()

	// Выбираем хранилище: PostgreSQL, файловое, либо in-memory
	var repo repository.Repository
	db, err := app.NewDB(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	switch {
	case db != nil:
		repo, err = repository.NewPostgresRepository(db, logger)
		if err != nil {
			logger.Fatal("Failed to create postgres repository", zap.Error(err))
		}
		logger.Info("Using postgres repository")
	case cfg.DataDir != "":
		repo, err = repository.NewFileRepository(cfg.DataDir, logger)
		if err != nil {
			logger.Fatal("Failed to create file repository", zap.Error(err))
		}
		logger.Info("Using file repository", zap.String("data_dir", cfg.DataDir))
	default:
		repo = repository.NewMemoryRepository()
		logger.Info("Using in-memory repository")
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	svc := service.NewService(repo, limiter, cfg, logger).WithTokens(cfg.JWTSecret)
	appInstance := app.NewApp(svc, db, cfg, logger)

	// Фоновая очистка по расписанию для развёртываний с нулевой
	// вероятностью встроенной очистки
	if cfg.SweepIntervalSec > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.SweepIntervalSec) * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				removed, err := svc.Sweep()
				if err != nil {
					logger.Warn("Scheduled sweep failed", zap.Error(err))
					continue
				}
				if removed > 0 {
					logger.Info("Scheduled sweep finished", zap.Int("removed", removed))
				}
			}
		}()
	}

	// Запускаем gRPC сервер, если настроен адрес
	if cfg.GRPCAddr != "" {
		go func() {
			listener, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				logger.Fatal("Failed to listen gRPC address", zap.Error(err))
			}
			server := grpc.NewServer(grpc.ChainUnaryInterceptor(
				grpcserver.LoggingInterceptor(logger),
				grpcserver.TrustedSubnetInterceptor(cfg.TrustedSubnet, logger),
				grpcserver.ClientKeyInterceptor(),
			))
			proto.RegisterShortenerServiceServer(server, grpcserver.NewServer(svc, db, logger))
			logger.Info("Starting gRPC server", zap.String("addr", cfg.GRPCAddr))
			if err := server.Serve(listener); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	// Создаём маршрутизатор
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.IdentityMiddleware(svc, logger))

	// Регистрируем обработчики
	r.Post("/api/shorten", appInstance.HandleShorten)
	r.Get("/api/expand/{code}", appInstance.HandleExpand)
	r.Get("/{code}", appInstance.HandleRedirect)
	r.Get("/ping", appInstance.HandlePing)
	r.Route("/api/internal", func(r chi.Router) {
		r.Use(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger))
		r.Get("/stats", appInstance.HandleStats)
	})

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RunAddr))
	if err := http.ListenAndServe(cfg.RunAddr, r); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
