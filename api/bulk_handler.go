package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/services"
)

type bulkHandler struct {
	responder  Responder
	logger     zerolog.Logger
	dispatcher *services.Dispatcher
}

func newBulkHandler(dispatcher *services.Dispatcher) bulkHandler {
	logger := log.With().Str("handlerName", "bulkHandler").Logger()

	return bulkHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		dispatcher: dispatcher,
	}
}

// execute runs one action over many ids
// @Summary Bulk action
// @Tags Bulk
// @Accept json
// @Produce json
// @Param body body BulkRequest true "Action, entity type and ids"
// @Success 200 {object} services.BulkResult "Applied, or supported=false for unsupported combinations"
// @Success 207 {object} services.BulkResult "Some ids failed"
// @Failure 422 {object} ErrorResponse "Unknown action"
// @Router /admin/bulk [post]
func (h bulkHandler) execute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		result, err := h.dispatcher.Execute(r.Context(), req.Action, req.EntityType, req.IDs, ctxGetActor(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		status := http.StatusOK
		if len(result.Errors) > 0 {
			status = http.StatusMultiStatus
		}
		h.responder.WriteStatus(w, status, result)
	}
}

func (h bulkHandler) capabilities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.dispatcher.Capabilities())
	}
}
