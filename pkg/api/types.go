package api

import (
	"github.com/ssargent/progress/pkg/model"
	"github.com/ssargent/progress/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind           string
	Port           int
	APIKey         string   // optional; when set every /api/v1 request must carry it
	AllowedOrigins []string // CORS origins, defaults to *
}

// StoreOpener loads a fresh copy of the store. The API never saves, so each request
// works on its own snapshot of the file.
type StoreOpener func() (*store.Store, error)

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Tasks    int    `json:"tasks"`
	NextTask string `json:"next_task"`
}

// TaskList is returned by the task listing endpoint
type TaskList struct {
	State string       `json:"state"`
	Count int          `json:"count"`
	Tasks []model.Task `json:"tasks"`
}
