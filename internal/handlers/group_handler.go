package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koinonia-app/koinonia-api/internal/middleware"
	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/services"
)

type GroupHandler struct {
	groups *services.GroupService
}

func NewGroupHandler(groups *services.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req services.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	g, err := h.groups.Create(middleware.CurrentUser(c).ID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Group created", g)
}

// Get handles GET /api/groups/:group_id
func (h *GroupHandler) Get(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	g, err := h.groups.Get(middleware.CurrentUser(c).ID, groupID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", g)
}

// Update handles PATCH /api/groups/:group_id
func (h *GroupHandler) Update(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	var req services.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	g, err := h.groups.Update(middleware.CurrentUser(c).ID, groupID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Group updated", g)
}

// Delete handles DELETE /api/groups/:group_id
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	if err := h.groups.Delete(middleware.CurrentUser(c).ID, groupID); err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Group deleted", nil)
}

// List handles GET /api/groups. ?mine=true restricts to the caller's
// memberships.
func (h *GroupHandler) List(c *gin.Context) {
	p := pagination(c)

	if c.Query("mine") == "true" {
		groups, total, err := h.groups.ListMine(middleware.CurrentUser(c).ID, p)
		if err != nil {
			response.DomainError(c, err)
			return
		}
		response.SuccessResponse(c, http.StatusOK, "", newListEnvelope(groups, total, p))
		return
	}

	groups, total, err := h.groups.ListPublic(p)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", newListEnvelope(groups, total, p))
}

// Members handles GET /api/groups/:group_id/members
func (h *GroupHandler) Members(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	members, err := h.groups.Members(middleware.CurrentUser(c).ID, groupID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", members)
}

// Join handles POST /api/groups/:group_id/join
func (h *GroupHandler) Join(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	rel, err := h.groups.Join(middleware.CurrentUser(c).ID, groupID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Joined group", rel)
}

// Leave handles POST /api/groups/:group_id/leave
func (h *GroupHandler) Leave(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id")
	if !ok {
		return
	}

	if err := h.groups.Leave(middleware.CurrentUser(c).ID, groupID); err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Left group", nil)
}
