package domain

import "time"

// WorkerInfo represents information about a judging worker
type WorkerInfo struct {
	ID            string    `json:"id"`
	Hostname      string    `json:"hostname"`
	CurrentLoad   int       `json:"current_load"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	IsActive      bool      `json:"is_active"`
}
