package api

import (
	"github.com/rpupo63/portfolio-cms-backend/database"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler     healthHandler
	authHandler       authHandler
	collectionHandler collectionHandler
	messageHandler    messageHandler
	bulkHandler       bulkHandler
	analyticsHandler  analyticsHandler
	profileHandler    profileHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"Internal Server Error"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty" example:"Additional error details"`
	Cause   string            `json:"cause,omitempty" example:"Underlying error cause"`
}

// ReorderRequest accepts either explicit assignments or an id list in display order.
type ReorderRequest struct {
	Items []database.OrderAssignment `json:"items"`
	IDs   []string                   `json:"ids"`
}

type BulkRequest struct {
	Action     string   `json:"action"`
	EntityType string   `json:"entity_type"`
	IDs        []string `json:"ids"`
}

type ReplyRequest struct {
	Body      string `json:"body"`
	SendEmail bool   `json:"send_email"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type TrackRequest struct {
	EventType string         `json:"event_type" validate:"required,max=64"`
	Page      string         `json:"page" validate:"max=500"`
	Payload   map[string]any `json:"payload"`
}
