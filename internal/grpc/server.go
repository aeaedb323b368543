// Package grpc содержит реализацию gRPC сервера сервиса коротких ссылок
package grpc

import (
	"context"
	"errors"

	"github.com/tempizhere/shorty/internal/grpc/proto"
	"github.com/tempizhere/shorty/internal/repository"
	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server реализует gRPC сервер сервиса коротких ссылок
type Server struct {
	proto.UnimplementedShortenerServiceServer
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewServer создаёт новый gRPC сервер
func NewServer(svc *service.Service, db repository.Database, logger *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		db:     db,
		logger: logger,
	}
}

// ShortenLink обрабатывает создание короткой ссылки
func (s *Server) ShortenLink(ctx context.Context, req *proto.ShortenLinkRequest) (*proto.ShortenLinkResponse, error) {
	if req.URL == "" {
		return nil, status.Error(codes.InvalidArgument, "URL is required")
	}

	ttlDays := int(req.TTLDays)
	if ttlDays == 0 {
		ttlDays = s.svc.DefaultTTL()
	}

	rec, err := s.svc.Shorten(req.URL, ttlDays, clientKeyFromContext(ctx))
	if err != nil {
		return nil, s.mapError(err)
	}

	return &proto.ShortenLinkResponse{
		Code:      rec.Code,
		ShortURL:  s.svc.ShortURL(rec.Code),
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// ResolveLink обрабатывает разрешение кода в оригинальный URL
func (s *Server) ResolveLink(ctx context.Context, req *proto.ResolveLinkRequest) (*proto.ResolveLinkResponse, error) {
	if req.Code == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	originalURL, err := s.svc.Resolve(req.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &proto.ResolveLinkResponse{Found: false}, nil
		}
		return nil, s.mapError(err)
	}

	return &proto.ResolveLinkResponse{
		URL:   originalURL,
		Found: true,
	}, nil
}

// Ping обрабатывает проверку состояния сервиса
func (s *Server) Ping(ctx context.Context, req *proto.PingRequest) (*proto.PingResponse, error) {
	if s.db == nil {
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}
	if err := s.db.Ping(); err != nil {
		s.logger.Warn("Database ping failed", zap.Error(err))
		return &proto.PingResponse{DatabaseAvailable: false}, nil
	}
	return &proto.PingResponse{DatabaseAvailable: true}, nil
}

// GetStats обрабатывает получение статистики хранилища
func (s *Server) GetStats(ctx context.Context, req *proto.GetStatsRequest) (*proto.GetStatsResponse, error) {
	count, err := s.svc.Count()
	if err != nil {
		return nil, s.mapError(err)
	}
	return &proto.GetStatsResponse{LinksCount: int32(count)}, nil
}

// mapError преобразует ошибки сервиса в gRPC статусы
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrInvalidTTL):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, service.ErrBusy):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		s.logger.Error("Internal error", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
