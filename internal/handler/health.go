package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/loandash/loandash/pkg/response"
)

type HealthHandler struct {
	dataFilePath string
}

func NewHealthHandler(dataFilePath string) *HealthHandler {
	return &HealthHandler{dataFilePath: dataFilePath}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready verifies the data directory is reachable and writable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	dir := filepath.Dir(h.dataFilePath)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		status.Status = "error"
		status.Checks["storage"] = "data directory unavailable"
	} else {
		status.Checks["storage"] = "ok"
	}

	if status.Status == "error" {
		response.Error(w, http.StatusServiceUnavailable, "Service not ready", nil)
		return
	}

	response.Success(w, status)
}
