package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pathways-backend/internal/http/response"
	"github.com/yungbote/pathways-backend/internal/services"
)

type OnboardingHandler struct {
	onboarding services.OnboardingService
}

func NewOnboardingHandler(onboarding services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

type onboardingRequest struct {
	ChildAgeRange   string `json:"childAgeRange" binding:"required"`
	DiagnosisStatus string `json:"diagnosisStatus" binding:"required"`
	PrimaryConcern  string `json:"primaryConcern" binding:"required"`
}

func (r onboardingRequest) answers() services.OnboardingAnswers {
	return services.OnboardingAnswers{
		ChildAgeRange:   r.ChildAgeRange,
		DiagnosisStatus: r.DiagnosisStatus,
		PrimaryConcern:  r.PrimaryConcern,
	}
}

// POST /onboarding
func (h *OnboardingHandler) Submit(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	resp, err := h.onboarding.Submit(c.Request.Context(), req.answers())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, newOnboardingView(resp))
}

// GET /onboarding
func (h *OnboardingHandler) GetLatest(c *gin.Context) {
	resp, err := h.onboarding.GetLatest(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, newOnboardingView(resp))
}

// POST /onboarding/recommend
func (h *OnboardingHandler) Recommend(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rec, err := h.onboarding.Preview(req.answers())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"recommendedStageId": rec.Stage,
		"explanation":        rec,
	})
}
