package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const (
	maxJSONBody     = 1 << 20
	maxUploadBody   = 10 << 20
	defaultRangeDay = 29
)

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(tooLarge.Limit)
		}
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

func urlID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(param)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(param, "must be a UUID")
	}
	return id, nil
}

var reservedParams = map[string]bool{"page": true, "per_page": true, "q": true, "search": true, "sort": true, "format": true}

// listQuery maps query parameters onto a store query; every non-reserved parameter is an equality filter.
func listQuery(r *http.Request) database.Query {
	values := r.URL.Query()
	query := database.Query{
		Filters: map[string]string{},
		Search:  values.Get("q"),
		Sort:    values.Get("sort"),
	}
	if query.Search == "" {
		query.Search = values.Get("search")
	}
	query.Page, _ = strconv.Atoi(values.Get("page"))
	query.PerPage, _ = strconv.Atoi(values.Get("per_page"))
	for key := range values {
		if !reservedParams[key] {
			query.Filters[key] = values.Get(key)
		}
	}
	return query
}

// dateRange reads start/end (YYYY-MM-DD or RFC3339), defaulting to the last 30 days.
func dateRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	end, start := now.UTC(), now.UTC().AddDate(0, 0, -defaultRangeDay)
	problems := map[string]string{}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			problems["end"] = err.Error()
		}
		end = parsed
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			problems["start"] = err.Error()
		}
		start = parsed
	}
	if len(problems) > 0 {
		return time.Time{}, time.Time{}, errs.NewValidationError(problems)
	}
	return start, end, nil
}

func intParam(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// clientIP relies on chi's RealIP middleware, which leaves a bare address when a proxy header is present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
