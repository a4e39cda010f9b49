package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/prodhub/backend/api/transport"
	"github.com/prodhub/backend/domain"
	"github.com/prodhub/backend/pkg/httpcontext"
)

const internalErrorMessage = "An internal server error occurred. Please try again later."

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// respondError maps the error taxonomy onto statuses. Persistence failures
// are logged in full but surface only a generic message.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewFieldErrors(fieldErrs))
		return
	}

	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(err.Error()))
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		h.respondJSON(ctx, http.StatusForbidden, transport.NewError(err.Error()))
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(err.Error()))
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		h.respondJSON(ctx, http.StatusNotFound, transport.NewError(err.Error()))
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		h.respondJSON(ctx, http.StatusConflict, transport.NewError(err.Error()))
	default:
		h.logger.Error("internal error", zap.Error(err))
		h.respondJSON(ctx, http.StatusInternalServerError, transport.NewError(internalErrorMessage))
	}
}

// userID extracts the authenticated owner injected by the auth middleware.
// A zero return means the response has already been written.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) int64 {
	raw := string(ctx.Request.Header.Peek("X-User-ID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("Authentication required"))
		return 0
	}
	return id
}

// pathID parses the {id} route segment.
func (h baseHandler) pathID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondJSON(ctx, http.StatusNotFound, transport.NewError("Not found"))
		return 0, false
	}
	return id, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
