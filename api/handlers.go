package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	aggregator := services.NewAggregator(deps.Database.EventLog())
	messages := services.NewMessageService(deps.Database, deps.Validator, deps.Notifier)

	return &routeHandlers{
		healthHandler:     newHealthHandler(deps, startupTime),
		authHandler:       newAuthHandler(deps.Auth),
		collectionHandler: newCollectionHandler(deps.Database),
		messageHandler:    newMessageHandler(messages),
		bulkHandler:       newBulkHandler(services.NewDispatcher(deps.Database)),
		analyticsHandler:  newAnalyticsHandler(aggregator, deps.Validator),
		profileHandler:    newProfileHandler(deps.Database.ProfileRepo(), deps.Storage, aggregator),
	}
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	deps        Dependencies
	startupTime time.Time
}

func newHealthHandler(deps Dependencies, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{responder: NewResponder(logger), logger: logger, deps: deps, startupTime: startupTime}
}

type HealthResponse struct {
	Status   string   `json:"status"`
	Database string   `json:"database"`
	Uptime   string   `json:"uptime"`
	Notifier []string `json:"notifier_channels"`
}

func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(h.startupTime).Round(time.Second).String(),
			Notifier: []string{},
		}
		if h.deps.Notifier != nil {
			response.Notifier = h.deps.Notifier.Channels()
		}

		status := http.StatusOK
		sqlDB, err := h.deps.Database.DB().DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			h.logger.Error().Err(err).Msg("Database ping failed")
			response.Status = "degraded"
			response.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
		h.responder.WriteStatus(w, status, response)
	}
}
