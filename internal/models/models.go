// Package models содержит модели данных сервиса коротких ссылок.
package models

import "time"

// LinkRecord представляет сохранённую короткую ссылку.
// Запись неизменяема после создания и удаляется либо лениво при обращении
// после истечения срока, либо фоновой очисткой.
type LinkRecord struct {
	URL       string `json:"url"`
	Code      string `json:"code"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
	ClientID  string `json:"ip,omitempty"`
}

// Expired сообщает, истёк ли срок жизни записи на момент now
func (r LinkRecord) Expired(now time.Time) bool {
	return now.Unix() > r.ExpiresAt
}

// ShortenRequest представляет тело POST-запроса на создание короткой ссылки
type ShortenRequest struct {
	URL     string `json:"url"`
	TTLDays int    `json:"ttl_days"`
}

// ShortenResponse представляет ответ на успешное создание короткой ссылки.
// Временные метки отдаются в формате ISO-8601.
type ShortenResponse struct {
	Code      string `json:"code"`
	ShortURL  string `json:"short_url"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// ExpandResponse представляет ответ с оригинальным URL
type ExpandResponse struct {
	URL string `json:"url"`
}

// ErrorResponse представляет тело ответа об ошибке
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// StatsResponse представляет ответ внутренней статистики хранилища
type StatsResponse struct {
	Links int `json:"links"`
}
