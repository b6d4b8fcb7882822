package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/httputil"
	"github.com/questionhub/qa-server-go/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

// writeError logs err with the request context and writes the client-facing
// response. Upstream moderation details only reach the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.StatusFromCode(apperrors.GetCode(err))

	var event *zerolog.Event
	if status >= http.StatusInternalServerError {
		event = log.Error()
	} else {
		event = log.Warn()
	}

	event = event.
		Err(err).
		Str("requestId", chimw.GetReqID(r.Context())).
		Str("route", routePattern(r)).
		Str("code", string(apperrors.GetCode(err)))
	if session := middleware.GetSession(r.Context()); session != nil {
		event = event.Int64("accountId", session.AccountID)
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		if upstream, ok := appErr.Upstream(); ok {
			event = event.Int("upstreamStatus", upstream.Status).Str("upstreamMessage", upstream.Message)
		}
	}
	event.Msg("request failed")

	httputil.WriteError(w, err)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// decodeJSON reads the request body into dst. A body cut off by the body
// limit is PAYLOAD_TOO_LARGE. Any other read or syntax failure is
// BODY_DESERIALIZE.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.BodyDeserialize(io.EOF)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.PayloadTooLarge(tooLarge.Limit).WithCause(err)
		}
		return apperrors.BodyDeserialize(err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errors.New("must be positive")
		}
		return 0, apperrors.InvalidInput(name, "must be a positive integer").WithCause(err)
	}
	return id, nil
}

// requireSession returns the session stored by the auth gate. Routes wired
// without the gate get INVALID_TOKEN instead of a nil dereference.
func requireSession(r *http.Request) (int64, error) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		return 0, apperrors.InvalidToken("Invalid or missing session token")
	}
	return session.AccountID, nil
}
