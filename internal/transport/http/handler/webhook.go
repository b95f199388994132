package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-push-relay/internal/application/reply"
	"github.com/go-push-relay/internal/domain"
	"github.com/go-push-relay/internal/transport/http/middleware"
)

// maxEventBytes caps the webhook body. Change events carry one row.
const maxEventBytes = 1 << 20

// Plain-text bodies for the no-op outcomes.
var noOpBodies = map[reply.Result]string{
	reply.ResultIgnored:   "Ignored",
	reply.ResultSelfReply: "Self-reply",
	reply.ResultNoProfile: "Profile not found",
	reply.ResultNoToken:   "No Token",
}

// WebhookHandler receives database change events for story replies.
type WebhookHandler struct {
	svc reply.Service
}

func NewWebhookHandler(svc reply.Service) *WebhookHandler { return &WebhookHandler{svc: svc} }

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFromContext(r.Context())

	var ev domain.ChangeEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventBytes)).Decode(&ev); err != nil {
		logger.Error("decode webhook payload", "err", err)
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	logger.Debug("webhook payload", "type", ev.Type, "table", ev.Table, "record", string(ev.Record))

	out, err := h.svc.Notify(r.Context(), ev)
	if err != nil {
		logger.Error("story reply notification failed", "type", ev.Type, "table", ev.Table, "err", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if body, ok := noOpBodies[out.Result]; ok {
		writeText(w, http.StatusOK, body)
		return
	}
	writeJSON(w, http.StatusOK, SentEnvelope{Success: true, Result: out.MessageID})
}
