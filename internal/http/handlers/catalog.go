package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pathways-backend/internal/http/response"
	"github.com/yungbote/pathways-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /stages
func (h *CatalogHandler) ListStages(c *gin.Context) {
	stages, err := h.catalog.ListStages(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, stages)
}

// GET /stages/:id
func (h *CatalogHandler) GetStage(c *gin.Context) {
	stage, err := h.catalog.GetStage(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, stage)
}

// GET /milestones?stageId=S1
func (h *CatalogHandler) ListMilestones(c *gin.Context) {
	stageID := c.Query("stageId")
	if stageID == "" {
		stageID = c.Query("stage_id")
	}
	milestones, err := h.catalog.ListMilestones(c.Request.Context(), stageID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, milestones)
}

// GET /milestones/:id
func (h *CatalogHandler) GetMilestone(c *gin.Context) {
	m, err := h.catalog.GetMilestone(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, m)
}

// GET /resources?category=&search=
func (h *CatalogHandler) ListResources(c *gin.Context) {
	resources, err := h.catalog.ListResources(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, resources)
}

// GET /resources/:id
func (h *CatalogHandler) GetResource(c *gin.Context) {
	r, err := h.catalog.GetResource(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, r)
}
