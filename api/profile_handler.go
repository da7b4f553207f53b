package api

import (
	"context"
	"io"
	"net/http"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

var (
	photoTypes = []string{"image/jpeg", "image/png", "image/webp"}
	cvTypes    = []string{"application/pdf"}
)

type profileHandler struct {
	responder  Responder
	logger     zerolog.Logger
	profiles   *database.ProfileRepo
	storage    services.FileStorage
	aggregator *services.Aggregator
}

// newProfileHandler accepts a nil storage; uploads then fail with a configuration error.
func newProfileHandler(profiles *database.ProfileRepo, storage services.FileStorage, aggregator *services.Aggregator) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		profiles:   profiles,
		storage:    storage,
		aggregator: aggregator,
	}
}

func (h profileHandler) urlFor(path string) string {
	if h.storage == nil {
		return ""
	}
	return h.storage.URL(path)
}

func (h profileHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.profiles.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, profile.Public(h.urlFor))
	}
}

func (h profileHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields database.Fields
		if err := decodeJSON(w, r, &fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		profile, err := h.profiles.Update(r.Context(), fields)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, profile.Public(h.urlFor))
	}
}

// cv records the download and redirects to the stored file
// @Summary Download CV
// @Tags Profile
// @Success 302
// @Failure 404 {object} ErrorResponse "No CV uploaded"
// @Router /api/cv [get]
func (h profileHandler) cv() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.profiles.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		url := h.urlFor(profile.CVPath)
		if url == "" {
			h.responder.WriteError(w, errs.NewNotFound("CV"))
			return
		}
		h.aggregator.Track(r.Context(), &models.AnalyticsEvent{
			EventType: models.EventCVDownload,
			Page:      r.URL.Path,
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		})
		http.Redirect(w, r, url, http.StatusFound)
	}
}

func (h profileHandler) uploadPhoto() http.HandlerFunc {
	return h.upload("photo", photoTypes, h.profiles.SetPhotoPath)
}

func (h profileHandler) uploadCV() http.HandlerFunc {
	return h.upload("cv", cvTypes, h.profiles.SetCVPath)
}

// upload stores the multipart "file" field, points the profile at it and removes the file it replaced.
func (h profileHandler) upload(folder string, allowed []string, setPath func(context.Context, string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.storage == nil {
			h.responder.WriteError(w, errs.NewConfigMissingError("S3_BUCKET"))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("upload", err))
			return
		}
		contentType := http.DetectContentType(sniff[:n])
		if !slices.Contains(allowed, contentType) {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType, allowed))
			return
		}

		if _, err := file.Seek(0, io.SeekStart); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("upload", err))
			return
		}

		ctx := r.Context()
		key, err := h.storage.Put(ctx, folder, header.Filename, contentType, file, header.Size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		previous, err := setPath(ctx, key)
		if err != nil {
			if cleanupErr := h.storage.Delete(ctx, key); cleanupErr != nil {
				h.logger.Warn().Err(cleanupErr).Str("key", key).Msg("Failed to remove orphaned upload")
			}
			h.responder.WriteError(w, err)
			return
		}
		if previous != "" && previous != key {
			if err := h.storage.Delete(ctx, previous); err != nil {
				h.logger.Warn().Err(err).Str("key", previous).Msg("Failed to remove replaced upload")
			}
		}

		h.logger.Info().Str("actor", ctxGetActor(ctx)).Str("folder", folder).Str("key", key).Msg("Stored profile upload")
		h.responder.WriteStatus(w, http.StatusCreated, map[string]string{"key": key, "url": h.storage.URL(key)})
	}
}
