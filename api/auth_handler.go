package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *services.Authenticator
}

func newAuthHandler(auth *services.Authenticator) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
	}
}

// login exchanges admin credentials for a bearer token
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.auth == nil {
			h.responder.WriteError(w, errs.NewConfigMissingError("JWT_SECRET"))
			return
		}
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		token, expires, err := h.auth.Login(strings.TrimSpace(req.Username), req.Password)
		if err != nil {
			h.logger.Warn().Str("username", req.Username).Str("ip", clientIP(r)).Msg("Failed admin login")
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, LoginResponse{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339)})
	}
}
