package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pathways-backend/internal/http/response"
	"github.com/yungbote/pathways-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime"
	"github.com/yungbote/pathways-backend/internal/services"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: logger.OrNop(log).With("handler", "RealtimeHandler"), hub: hub}
}

// GET /progress/stream
// Every open stream for a user joins the user's channel, so all of their
// tabs and devices see the same progress events.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID, err := services.CurrentUserID(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	client := h.hub.NewSSEClient(userID)
	defer h.hub.CloseClient(client)

	h.hub.AddChannel(client, userID.String())
	td := ctxutil.GetTraceData(c.Request.Context())
	if td != nil {
		client.Logger = client.Logger.With("request_id", td.RequestID)
	}
	client.Logger.Debug("sse stream open", "user_id", userID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	client.Logger.Debug("sse stream closed", "user_id", userID)
}
