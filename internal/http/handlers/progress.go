package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pathways-backend/internal/http/response"
	"github.com/yungbote/pathways-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GET /progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	view, err := h.progress.GetProgress(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /progress/milestones/:milestone_id/toggle
func (h *ProgressHandler) Toggle(c *gin.Context) {
	res, err := h.progress.Toggle(c.Request.Context(), c.Param("milestone_id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	msg := "Milestone marked as incomplete"
	if res.IsComplete {
		msg = "Milestone marked as complete"
	}
	response.RespondOK(c, gin.H{
		"milestone_id": res.MilestoneID,
		"isComplete":   res.IsComplete,
		"message":      msg,
	})
}

// DELETE /progress
func (h *ProgressHandler) Reset(c *gin.Context) {
	if err := h.progress.Reset(c.Request.Context()); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":              "All progress has been reset",
		"completed_milestones": []string{},
	})
}

// GET /progress/history?limit=N|all
func (h *ProgressHandler) ListHistory(c *gin.Context) {
	limit, err := services.ParseHistoryLimit(c.Query("limit"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	snaps, err := h.progress.ListHistory(c.Request.Context(), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	entries := newHistory(snaps)
	response.RespondOK(c, gin.H{
		"history":       entries,
		"total_entries": len(entries),
	})
}

// GET /progress/history/milestone/:milestone_id
func (h *ProgressHandler) ListMilestoneHistory(c *gin.Context) {
	milestoneID := c.Param("milestone_id")
	snaps, err := h.progress.ListMilestoneHistory(c.Request.Context(), milestoneID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	entries := newHistory(snaps)
	response.RespondOK(c, gin.H{
		"milestone_id":  milestoneID,
		"history":       entries,
		"total_entries": len(entries),
	})
}
