// Package proto содержит определения типов для gRPC сервиса коротких ссылок
package proto

// ShortenLinkRequest представляет запрос на создание короткой ссылки
type ShortenLinkRequest struct {
	URL     string `json:"url"`
	TTLDays int32  `json:"ttl_days"`
}

// ShortenLinkResponse представляет ответ с созданной короткой ссылкой
type ShortenLinkResponse struct {
	Code      string `json:"code"`
	ShortURL  string `json:"short_url"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// ResolveLinkRequest представляет запрос на разрешение кода
type ResolveLinkRequest struct {
	Code string `json:"code"`
}

// ResolveLinkResponse представляет ответ с оригинальным URL
type ResolveLinkResponse struct {
	URL   string `json:"url"`
	Found bool   `json:"found"`
}

// PingRequest представляет запрос проверки состояния
type PingRequest struct{}

// PingResponse представляет ответ проверки состояния
type PingResponse struct {
	DatabaseAvailable bool `json:"database_available"`
}

// GetStatsRequest представляет запрос статистики
type GetStatsRequest struct{}

// GetStatsResponse представляет ответ со статистикой хранилища
type GetStatsResponse struct {
	LinksCount int32 `json:"links_count"`
}
