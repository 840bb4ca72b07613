package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/middleware"
	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/services"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create handles POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	ps, err := h.posts.Create(middleware.CurrentUser(c).ID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Post created", ps)
}

// Get handles GET /api/posts/:post_id
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		return
	}

	ps, err := h.posts.Get(postID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", ps)
}

// Update handles PATCH /api/posts/:post_id
func (h *PostHandler) Update(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		return
	}

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	ps, err := h.posts.Update(middleware.CurrentUser(c).ID, postID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Post updated", ps)
}

// Delete handles DELETE /api/posts/:post_id
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		return
	}

	if err := h.posts.Delete(middleware.CurrentUser(c).ID, postID); err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Post deleted", nil)
}

// List handles GET /api/posts. ?group_id= filters the feed to one group.
func (h *PostHandler) List(c *gin.Context) {
	p := pagination(c)

	var groupID *uuid.UUID
	if raw := c.Query("group_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequestError(c, "group_id must be a valid UUID")
			return
		}
		groupID = &id
	}

	posts, total, err := h.posts.List(middleware.CurrentUser(c).ID, groupID, p)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", newListEnvelope(posts, total, p))
}

// Like handles POST /api/posts/:post_id/like as a toggle.
func (h *PostHandler) Like(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		return
	}

	liked, count, err := h.posts.ToggleLike(middleware.CurrentUser(c).ID, postID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{"liked": liked, "like_count": count})
}

// Comment handles POST /api/posts/:post_id/comments
func (h *PostHandler) Comment(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		return
	}

	var body struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	comment, err := h.posts.Comment(middleware.CurrentUser(c).ID, postID, body.Content)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Comment added", comment)
}

// Comments handles GET /api/posts/:post_id/comments
func (h *PostHandler) Comments(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		return
	}

	comments, err := h.posts.Comments(postID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", comments)
}
