package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koinonia-app/koinonia-api/internal/middleware"
	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// The event API speaks is_public; internally privacy is stored the same
// way as groups and prayers, so the boundary inverts the flag.
type createEventBody struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	ImageURL    string     `json:"image_url"`
	IsPublic    *bool      `json:"is_public"`
}

type updateEventBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ImageURL    *string    `json:"image_url"`
	IsPublic    *bool      `json:"is_public"`
}

// Create handles POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var body createEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	req := services.CreateEventRequest{
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		ImageURL:    body.ImageURL,
	}
	if body.IsPublic != nil {
		req.Private = !*body.IsPublic
	}

	e, err := h.events.Create(middleware.CurrentUser(c).ID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Event created", e)
}

// Get handles GET /api/events/:event_id
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	e, err := h.events.Get(middleware.CurrentUser(c).ID, eventID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", e)
}

// Update handles PATCH /api/events/:event_id
func (h *EventHandler) Update(c *gin.Context) {
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	var body updateEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	req := services.UpdateEventRequest{
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		ImageURL:    body.ImageURL,
	}
	if body.IsPublic != nil {
		private := !*body.IsPublic
		req.Private = &private
	}

	e, err := h.events.Update(middleware.CurrentUser(c).ID, eventID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event updated", e)
}

// Delete handles DELETE /api/events/:event_id
func (h *EventHandler) Delete(c *gin.Context) {
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	if err := h.events.Delete(middleware.CurrentUser(c).ID, eventID); err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event deleted", nil)
}

// List handles GET /api/events. ?mine=true restricts to events the caller
// owns or attends; ?upcoming=true hides past events.
func (h *EventHandler) List(c *gin.Context) {
	p := pagination(c)
	upcoming := c.DefaultQuery("upcoming", "true") == "true"

	if c.Query("mine") == "true" {
		events, total, err := h.events.ListMine(middleware.CurrentUser(c).ID, upcoming, p)
		if err != nil {
			response.DomainError(c, err)
			return
		}
		response.SuccessResponse(c, http.StatusOK, "", newListEnvelope(events, total, p))
		return
	}

	events, total, err := h.events.ListPublic(upcoming, p)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", newListEnvelope(events, total, p))
}

// Attendees handles GET /api/events/:event_id/attendees
func (h *EventHandler) Attendees(c *gin.Context) {
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	rels, err := h.events.Attendees(middleware.CurrentUser(c).ID, eventID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", rels)
}

// Leave handles POST /api/events/:event_id/leave
func (h *EventHandler) Leave(c *gin.Context) {
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	if err := h.events.Leave(middleware.CurrentUser(c).ID, eventID); err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Left event", nil)
}

// Attend handles POST /api/events/:event_id/attend
func (h *EventHandler) Attend(c *gin.Context) {
	eventID, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	rel, err := h.events.SetAttendance(middleware.CurrentUser(c).ID, eventID, body.Status)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Attendance recorded", rel)
}
