package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/transfer"
)

// collectionHandler serves every content type through its schema, so one set
// of routes covers portfolios, skills, languages and the rest.
type collectionHandler struct {
	responder Responder
	logger    zerolog.Logger
	database  database.Database
	now       func() time.Time
}

func newCollectionHandler(database database.Database) collectionHandler {
	logger := log.With().Str("handlerName", "collectionHandler").Logger()

	return collectionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		database:  database,
		now:       time.Now,
	}
}

func (h collectionHandler) store(r *http.Request) (database.Store, error) {
	name := chi.URLParam(r, "collection")
	store, ok := h.database.Store(name)
	if !ok {
		return nil, errs.NewNotFound(fmt.Sprintf("Collection %q", name))
	}
	return store, nil
}

// withStore resolves the collection and id path parameters before calling next.
func (h collectionHandler) withStore(next func(http.ResponseWriter, *http.Request, database.Store)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := h.store(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		next(w, r, store)
	}
}

func (h collectionHandler) withItem(next func(http.ResponseWriter, *http.Request, database.Store, uuid.UUID)) http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		next(w, r, store, id)
	})
}

// list returns a filtered, sorted page of a collection
// @Summary List collection
// @Tags Collections
// @Param collection path string true "Collection name, e.g. skills"
// @Success 200 {object} database.Page[any]
// @Failure 422 {object} ErrorResponse "Undeclared filter or sort column"
// @Router /admin/{collection} [get]
func (h collectionHandler) list() http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		page, err := store.List(r.Context(), listQuery(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, page)
	})
}

// publicList hides inactive rows from visitors.
func (h collectionHandler) publicList() http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		query := listQuery(r)
		if store.Schema().HasActive {
			query.Filters["is_active"] = "true"
		}
		page, err := store.List(r.Context(), query)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, page)
	})
}

func (h collectionHandler) get() http.HandlerFunc {
	return h.withItem(func(w http.ResponseWriter, r *http.Request, store database.Store, id uuid.UUID) {
		item, err := store.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	})
}

func (h collectionHandler) publicGet() http.HandlerFunc {
	return h.withItem(func(w http.ResponseWriter, r *http.Request, store database.Store, id uuid.UUID) {
		item, err := store.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if switchable, ok := item.(models.Switchable); ok && !switchable.Active() {
			h.responder.WriteError(w, errs.NewNotFound(store.Schema().Label))
			return
		}
		h.responder.WriteJSON(w, item)
	})
}

// create adds an item; generated keys in the body are ignored
// @Summary Create item
// @Tags Collections
// @Accept json
// @Produce json
// @Param collection path string true "Collection name"
// @Success 201 {object} any "Created item"
// @Failure 400 {object} ErrorResponse "Invalid JSON"
// @Failure 409 {object} ErrorResponse "Unique column already taken"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /admin/{collection} [post]
func (h collectionHandler) create() http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		var fields database.Fields
		if err := decodeJSON(w, r, &fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := store.Create(r.Context(), fields)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("actor", ctxGetActor(r.Context())).Str("collection", store.Schema().Collection).Msg("Created item")
		h.responder.WriteStatus(w, http.StatusCreated, item)
	})
}

// update merges the supplied fields into the item.
func (h collectionHandler) update() http.HandlerFunc {
	return h.withItem(func(w http.ResponseWriter, r *http.Request, store database.Store, id uuid.UUID) {
		var fields database.Fields
		if err := decodeJSON(w, r, &fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := store.Update(r.Context(), id, fields)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	})
}

func (h collectionHandler) delete() http.HandlerFunc {
	return h.withItem(func(w http.ResponseWriter, r *http.Request, store database.Store, id uuid.UUID) {
		if err := store.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("actor", ctxGetActor(r.Context())).Str("collection", store.Schema().Collection).Str("id", id.String()).Msg("Deleted item")
		w.WriteHeader(http.StatusNoContent)
	})
}

// reorder applies all assignments or none
// @Summary Reorder collection
// @Tags Collections
// @Accept json
// @Param body body ReorderRequest true "Either items [{id, order}] or ids in display order"
// @Success 204
// @Failure 404 {object} ErrorResponse "Unknown ids, nothing applied"
// @Failure 422 {object} ErrorResponse "Duplicate ids or negative orders"
// @Router /admin/{collection}/reorder [post]
func (h collectionHandler) reorder() http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		var req ReorderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var err error
		if len(req.IDs) > 0 {
			ids := make([]uuid.UUID, len(req.IDs))
			for i, raw := range req.IDs {
				if ids[i], err = uuid.Parse(raw); err != nil {
					h.responder.WriteError(w, errs.NewValidationError(map[string]string{fmt.Sprintf("ids[%d]", i): "must be a UUID"}))
					return
				}
			}
			err = store.ReorderIDs(r.Context(), ids)
		} else {
			err = store.Reorder(r.Context(), req.Items)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h collectionHandler) compact() http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		moved, err := store.Compact(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]int{"moved": moved})
	})
}

func (h collectionHandler) toggleFeatured() http.HandlerFunc {
	return h.withItem(func(w http.ResponseWriter, r *http.Request, store database.Store, id uuid.UUID) {
		item, err := store.ToggleFeatured(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	})
}

func (h collectionHandler) toggleActive() http.HandlerFunc {
	return h.withItem(func(w http.ResponseWriter, r *http.Request, store database.Store, id uuid.UUID) {
		item, err := store.ToggleActive(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, item)
	})
}

// export downloads the whole collection as CSV or JSON
// @Summary Export collection
// @Tags Collections
// @Param format query string false "csv (default) or json"
// @Success 200 {file} file
// @Router /admin/{collection}/export [get]
func (h collectionHandler) export() http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		format, err := transfer.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		now := h.now()
		var buf bytes.Buffer
		var count int
		if format == transfer.FormatJSON {
			count, err = transfer.ExportJSON(r.Context(), &buf, store, now)
		} else {
			count, err = transfer.ExportCSV(r.Context(), &buf, store)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		filename := fmt.Sprintf("%s-%s.%s", store.Schema().Collection, now.UTC().Format("20060102-150405"), format)
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		h.logger.Info().Str("actor", ctxGetActor(r.Context())).Str("collection", store.Schema().Collection).Int("count", count).Msg("Exported collection")
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.Error().Err(err).Msg("error writing export")
		}
	})
}

// importData creates one item per row. The body is either a multipart form with
// a "file" field or the raw file; the format comes from ?format= or the file type.
// @Summary Import collection
// @Tags Collections
// @Success 200 {object} transfer.Result "Every row imported"
// @Success 207 {object} transfer.Result "Some rows rejected"
// @Router /admin/{collection}/import [post]
func (h collectionHandler) importData() http.HandlerFunc {
	return h.withStore(func(w http.ResponseWriter, r *http.Request, store database.Store) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

		formatHint := r.URL.Query().Get("format")
		var body io.Reader = r.Body
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mediaType {
		case "multipart/form-data":
			file, header, err := r.FormFile("file")
			if err != nil {
				h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
				return
			}
			defer file.Close()
			body = file
			if formatHint == "" {
				formatHint = formatFromName(header.Filename)
			}
		case "application/json":
			if formatHint == "" {
				formatHint = string(transfer.FormatJSON)
			}
		}

		format, err := transfer.ParseFormat(formatHint)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var result transfer.Result
		if format == transfer.FormatJSON {
			result, err = transfer.ImportJSON(r.Context(), body, store)
		} else {
			result, err = transfer.ImportCSV(r.Context(), body, store)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		logEvent := h.logger.Info()
		status := http.StatusOK
		if failure := result.Err(); failure != nil {
			logEvent = h.logger.Warn().Err(failure)
			status = http.StatusMultiStatus
		}
		logEvent.
			Str("actor", ctxGetActor(r.Context())).
			Str("collection", store.Schema().Collection).
			Int("imported", result.Imported).
			Int("skipped", result.Skipped).
			Msg("Imported collection")
		h.responder.WriteStatus(w, status, result)
	})
}

func formatFromName(filename string) string {
	return strings.TrimPrefix(filepath.Ext(filename), ".")
}
