package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type messageHandler struct {
	responder Responder
	logger    zerolog.Logger
	messages  *services.MessageService
}

func newMessageHandler(messages *services.MessageService) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		messages:  messages,
	}
}

// submit accepts the public contact form
// @Summary Submit contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param body body services.Submission true "Contact form"
// @Success 201 {object} map[string]string "Message id"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /api/contact [post]
func (h messageHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var submission services.Submission
		if err := decodeJSON(w, r, &submission); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		submission.IPAddress = clientIP(r)
		submission.UserAgent = r.UserAgent()
		submission.Referrer = r.Referer()
		submission.Country = r.Header.Get("CF-IPCountry")

		msg, err := h.messages.Submit(r.Context(), submission)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteStatus(w, http.StatusCreated, map[string]string{"id": msg.ID.String(), "status": string(msg.Status)})
	}
}

func (h messageHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()
		query := database.MessageQuery{
			Status: models.MessageStatus(values.Get("status")),
			Search: values.Get("q"),
		}
		query.Page, _ = strconv.Atoi(values.Get("page"))
		query.PerPage, _ = strconv.Atoi(values.Get("per_page"))

		page, err := h.messages.List(r.Context(), query)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, page)
	}
}

func (h messageHandler) counts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.messages.StatusCounts(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, counts)
	}
}

// transition wraps the single-message operations that take only an id.
func (h messageHandler) transition(apply func(*http.Request, uuid.UUID) (*models.ContactMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		msg, err := apply(r, id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, msg)
	}
}

// show opens a message, which marks it read when it is new.
func (h messageHandler) show() http.HandlerFunc {
	return h.transition(func(r *http.Request, id uuid.UUID) (*models.ContactMessage, error) {
		return h.messages.Show(r.Context(), id)
	})
}

func (h messageHandler) markRead() http.HandlerFunc {
	return h.transition(func(r *http.Request, id uuid.UUID) (*models.ContactMessage, error) {
		return h.messages.MarkRead(r.Context(), id)
	})
}

func (h messageHandler) archive() http.HandlerFunc {
	return h.transition(func(r *http.Request, id uuid.UUID) (*models.ContactMessage, error) {
		return h.messages.Archive(r.Context(), id)
	})
}

// reply records a reply, optionally emailing it first
// @Summary Reply to message
// @Tags Messages
// @Param body body ReplyRequest true "Reply"
// @Success 200 {object} models.ContactMessage
// @Failure 409 {object} ErrorResponse "Message is archived"
// @Failure 502 {object} ErrorResponse "Email could not be sent"
// @Router /admin/messages/{id}/reply [post]
func (h messageHandler) reply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req ReplyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		msg, err := h.messages.Reply(r.Context(), id, req.Body, req.SendEmail)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("actor", ctxGetActor(r.Context())).Str("messageID", id.String()).Bool("emailed", req.SendEmail).Msg("Replied to message")
		h.responder.WriteJSON(w, msg)
	}
}

func (h messageHandler) updateNotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req NotesRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		msg, err := h.messages.UpdateNotes(r.Context(), id, req.Notes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, msg)
	}
}

func (h messageHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.messages.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
