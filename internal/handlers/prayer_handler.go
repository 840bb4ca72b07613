package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koinonia-app/koinonia-api/internal/domain/prayer"
	"github.com/koinonia-app/koinonia-api/internal/middleware"
	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/services"
)

type PrayerHandler struct {
	prayers *services.PrayerService
}

func NewPrayerHandler(prayers *services.PrayerService) *PrayerHandler {
	return &PrayerHandler{prayers: prayers}
}

// Create handles POST /api/prayers
func (h *PrayerHandler) Create(c *gin.Context) {
	var req services.CreatePrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	p, err := h.prayers.Create(middleware.CurrentUser(c).ID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Prayer created", p)
}

// Get handles GET /api/prayers/:prayer_id
func (h *PrayerHandler) Get(c *gin.Context) {
	prayerID, ok := parseIDParam(c, "prayer_id")
	if !ok {
		return
	}

	p, err := h.prayers.Get(middleware.CurrentUser(c).ID, prayerID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", p)
}

// Update handles PATCH /api/prayers/:prayer_id
func (h *PrayerHandler) Update(c *gin.Context) {
	prayerID, ok := parseIDParam(c, "prayer_id")
	if !ok {
		return
	}

	var req services.UpdatePrayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	p, err := h.prayers.Update(middleware.CurrentUser(c).ID, prayerID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Prayer updated", p)
}

// Delete handles DELETE /api/prayers/:prayer_id
func (h *PrayerHandler) Delete(c *gin.Context) {
	prayerID, ok := parseIDParam(c, "prayer_id")
	if !ok {
		return
	}

	if err := h.prayers.Delete(middleware.CurrentUser(c).ID, prayerID); err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Prayer deleted", nil)
}

// statusFilter parses the optional ?status= query.
func statusFilter(c *gin.Context) (*prayer.Status, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status, ok := prayer.StatusFromString(raw)
	if !ok {
		response.BadRequestError(c, "unknown prayer status: "+raw)
		return nil, false
	}
	return &status, true
}

// List handles GET /api/prayers. ?mine=true restricts to the caller's
// own prayers; ?status= filters by lifecycle state.
func (h *PrayerHandler) List(c *gin.Context) {
	p := pagination(c)
	status, ok := statusFilter(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUser(c).ID
	if c.Query("mine") == "true" {
		prayers, total, err := h.prayers.ListMine(userID, status, p)
		if err != nil {
			response.DomainError(c, err)
			return
		}
		response.SuccessResponse(c, http.StatusOK, "", newListEnvelope(prayers, total, p))
		return
	}

	prayers, total, err := h.prayers.List(userID, status, p)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", newListEnvelope(prayers, total, p))
}

// Support handles POST /api/prayers/:prayer_id/support
func (h *PrayerHandler) Support(c *gin.Context) {
	prayerID, ok := parseIDParam(c, "prayer_id")
	if !ok {
		return
	}

	// Message is optional; an empty body is fine.
	var body struct {
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&body)

	rel, err := h.prayers.Support(middleware.CurrentUser(c).ID, prayerID, body.Message)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Support recorded", rel)
}

// Supports handles GET /api/prayers/:prayer_id/supports
func (h *PrayerHandler) Supports(c *gin.Context) {
	prayerID, ok := parseIDParam(c, "prayer_id")
	if !ok {
		return
	}

	rels, err := h.prayers.Supports(middleware.CurrentUser(c).ID, prayerID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", rels)
}
