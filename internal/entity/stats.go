package entity

import "time"

type ProcessingStats struct {
	TotalRequests         int64      `json:"total_requests"`
	SuccessfulRequests    int64      `json:"successful_requests"`
	FailedRequests        int64      `json:"failed_requests"`
	AverageProcessingTime float64    `json:"average_processing_time"`
	Uptime                float64    `json:"uptime"`
	LastRequestTime       *time.Time `json:"last_request_time"`
}
