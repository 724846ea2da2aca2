package services

import (
	"context"
	"time"
)

// Version is the API version reported by the health endpoints.
const Version = "0.3.0"

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthService answers liveness and version queries.
type HealthService struct {
	name string
}

// NewHealthService creates a health service reporting the given app name.
func NewHealthService(name string) *HealthService {
	return &HealthService{name: name}
}

// HealthCheck reports liveness.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Name:      s.name,
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}
}

// VersionInfo reports the API version.
func (s *HealthService) VersionInfo() map[string]string {
	return map[string]string{"version": Version}
}
