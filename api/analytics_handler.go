package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type analyticsHandler struct {
	responder  Responder
	logger     zerolog.Logger
	aggregator *services.Aggregator
	validator  database.Validator
	now        func() time.Time
}

func newAnalyticsHandler(aggregator *services.Aggregator, validator database.Validator) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()

	return analyticsHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		aggregator: aggregator,
		validator:  validator,
		now:        time.Now,
	}
}

// track records a visitor event. The event log is best-effort, so the response
// does not depend on it being written.
// @Summary Track event
// @Tags Analytics
// @Accept json
// @Param body body TrackRequest true "Event"
// @Success 202
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /api/track [post]
func (h analyticsHandler) track() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrackRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.validator.Struct(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.aggregator.Track(r.Context(), &models.AnalyticsEvent{
			EventType: req.EventType,
			Page:      req.Page,
			Payload:   req.Payload,
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		})
		w.WriteHeader(http.StatusAccepted)
	}
}

// overview returns the dashboard headline numbers
// @Summary Analytics overview
// @Tags Analytics
// @Param start query string false "YYYY-MM-DD, default 29 days before end"
// @Param end query string false "YYYY-MM-DD, default today"
// @Success 200 {object} services.Result[services.Overview]
// @Router /admin/analytics/overview [get]
func (h analyticsHandler) overview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r, h.now())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		result, err := h.aggregator.Overview(r.Context(), start, end)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

func (h analyticsHandler) timeline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r, h.now())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		eventType := r.URL.Query().Get("event_type")
		if eventType == "" {
			eventType = models.EventPageView
		}
		granularity := services.Granularity(r.URL.Query().Get("granularity"))
		if granularity == "" {
			granularity = services.GranularityDay
		}

		result, err := h.aggregator.TimeBucketed(r.Context(), eventType, start, end, granularity)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

func (h analyticsHandler) topPages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, end, err := dateRange(r, h.now())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		result, err := h.aggregator.TopPages(r.Context(), start, end, intParam(r, "limit"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

func (h analyticsHandler) activity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.aggregator.RecentActivity(r.Context(), intParam(r, "limit")))
	}
}
