// Package grpc содержит интерцепторы для gRPC сервера
package grpc

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// contextKey определяет тип для ключей контекста
type contextKey string

const clientKeyCtxKey contextKey = "clientKey"

// statsMethod задаёт полное имя метода внутренней статистики
const statsMethod = "/shortener.v1.ShortenerService/GetStats"

// ClientKeyInterceptor создаёт интерцептор, определяющий сетевой ключ клиента
// для ограничителя частоты: метаданные x-real-ip, либо адрес соединения
func ClientKeyInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		clientKey := "unknown"

		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("x-real-ip"); len(values) > 0 && values[0] != "" {
				clientKey = values[0]
			}
		}
		if clientKey == "unknown" {
			if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
				if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
					clientKey = host
				} else {
					clientKey = p.Addr.String()
				}
			}
		}

		ctx = context.WithValue(ctx, clientKeyCtxKey, clientKey)
		return handler(ctx, req)
	}
}

// clientKeyFromContext извлекает сетевой ключ клиента из контекста
func clientKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(clientKeyCtxKey).(string); ok {
		return key
	}
	return "unknown"
}

// TrustedSubnetInterceptor создаёт интерцептор для проверки доверенной подсети.
// Запросы внутренней статистики пропускаются только от пиров из подсети
// trustedSubnet; ключ клиента из метаданных здесь не используется, поскольку
// метаданные подконтрольны клиенту.
func TrustedSubnetInterceptor(trustedSubnet string, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if info.FullMethod != statsMethod {
			return handler(ctx, req)
		}

		if trustedSubnet == "" {
			logger.Warn("Access denied: trusted subnet is empty", zap.String("method", info.FullMethod))
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}

		p, ok := peer.FromContext(ctx)
		if !ok || p.Addr == nil {
			logger.Warn("Access denied: missing peer info", zap.String("method", info.FullMethod))
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}

		clientIP := p.Addr.String()
		if host, _, err := net.SplitHostPort(clientIP); err == nil {
			clientIP = host
		}

		_, subnet, err := net.ParseCIDR(trustedSubnet)
		if err != nil {
			logger.Error("Invalid trusted subnet", zap.String("trusted_subnet", trustedSubnet), zap.Error(err))
			return nil, status.Error(codes.Internal, "invalid trusted subnet configuration")
		}

		ip := net.ParseIP(clientIP)
		if ip == nil || !subnet.Contains(ip) {
			logger.Warn("Access denied: peer not in trusted subnet",
				zap.String("method", info.FullMethod),
				zap.String("peer", clientIP))
			return nil, status.Error(codes.PermissionDenied, "access denied")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor создаёт интерцептор для логирования вызовов
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		if err != nil {
			logger.Warn("gRPC request failed",
				zap.String("method", info.FullMethod),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Info("gRPC request",
				zap.String("method", info.FullMethod),
				zap.Duration("duration", duration))
		}
		return resp, err
	}
}
