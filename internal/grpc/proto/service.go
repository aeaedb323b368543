// Package proto содержит интерфейс gRPC сервиса коротких ссылок
package proto

import (
	"context"

	"google.golang.org/grpc"
)

// ShortenerServiceServer представляет интерфейс gRPC сервиса
type ShortenerServiceServer interface {
	ShortenLink(ctx context.Context, req *ShortenLinkRequest) (*ShortenLinkResponse, error)
	ResolveLink(ctx context.Context, req *ResolveLinkRequest) (*ResolveLinkResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
	GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error)
}

// UnimplementedShortenerServiceServer предоставляет базовую реализацию интерфейса
type UnimplementedShortenerServiceServer struct{}

// ShortenLink предоставляет базовую реализацию создания короткой ссылки
func (UnimplementedShortenerServiceServer) ShortenLink(ctx context.Context, req *ShortenLinkRequest) (*ShortenLinkResponse, error) {
	return nil, nil
}

// ResolveLink предоставляет базовую реализацию разрешения кода
func (UnimplementedShortenerServiceServer) ResolveLink(ctx context.Context, req *ResolveLinkRequest) (*ResolveLinkResponse, error) {
	return nil, nil
}

// Ping предоставляет базовую реализацию проверки состояния сервиса
func (UnimplementedShortenerServiceServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return nil, nil
}

// GetStats предоставляет базовую реализацию получения статистики хранилища
func (UnimplementedShortenerServiceServer) GetStats(ctx context.Context, req *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, nil
}

// RegisterShortenerServiceServer регистрирует реализацию сервиса в gRPC сервере
func RegisterShortenerServiceServer(s *grpc.Server, srv ShortenerServiceServer) {
	// В реальном проекте это было бы автоматически сгенерировано protoc
	// Здесь заглушка для демонстрации
}
