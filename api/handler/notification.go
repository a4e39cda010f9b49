package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/prodhub/backend/api/transport"
	"github.com/prodhub/backend/pkg/httpcontext"
	notificationUC "github.com/prodhub/backend/usecase/notification"
)

type NotificationHandler struct {
	baseHandler
	uc *notificationUC.UseCase
}

func NewNotificationHandler(uc *notificationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List notifications
// @Tags notifications
// @Router /api/notifications [get]
func (h *NotificationHandler) GetNotifications(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	notifications, err := h.uc.ListNotifications(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := make([]transport.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, transport.NewNotificationResponse(n))
	}
	h.respondJSON(ctx, http.StatusOK, resp)
}

// @Summary Dismiss notification
// @Tags notifications
// @Router /api/notifications/{id}/dismiss [post]
func (h *NotificationHandler) Dismiss(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Dismiss(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]bool{"success": true})
}

// @Summary Snooze notification
// @Tags notifications
// @Router /api/notifications/{id}/snooze [post]
func (h *NotificationHandler) Snooze(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == 0 {
		return
	}
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req transport.SnoozeRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	until, err := h.uc.Snooze(stdCtx, userID, id, req.Minutes)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{
		"success":       true,
		"snoozed_until": until.Format(time.RFC3339),
	})
}
