package restapi

import (
	"log/slog"
	"net/http"

	"github.com/Kaouthar-hr/Move2See-Project/internal/fault"
	"github.com/Kaouthar-hr/Move2See-Project/internal/logging"
)

func requestAttrs(r *http.Request) []slog.Attr {
	return []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	}
}

// serverErrorResponse logs the error and replies with a generic 500.
func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "request failed", err,
		requestAttrs(r)...)
	api.sendError(w, r, http.StatusInternalServerError, "internal server error")
}

// faultResponse maps a domain error to its HTTP status and sends it.
func (api *RestAPI) faultResponse(w http.ResponseWriter, r *http.Request, err error) {
	kind := fault.KindOf(err)
	if kind == fault.KindInternal {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendError(w, r, statusForKind(kind), fault.MessageOf(err))
}

func statusForKind(kind fault.Kind) int {
	switch kind {
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindConflict:
		return http.StatusConflict
	case fault.KindInvalidInput:
		return http.StatusBadRequest
	case fault.KindUnauthorized:
		return http.StatusUnauthorized
	case fault.KindInvalidStateTransition:
		return http.StatusBadRequest
	case fault.KindRouteNotActive:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
