package models

import "time"

// SystemMetrics is a JSON friendly summary of process counters.
type SystemMetrics struct {
	ActiveSessions           int       `json:"activeSessions"`
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	BulkDeleteSucceeded      uint64    `json:"bulkDeleteSucceeded"`
	BulkDeleteFailed         uint64    `json:"bulkDeleteFailed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
