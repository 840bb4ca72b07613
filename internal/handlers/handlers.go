// Package handlers wires HTTP requests to the services. Handlers parse
// and bind input, delegate to a service, and map the result through the
// response package; no business or authorization logic lives here.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// parseIDParam reads a UUID path parameter, replying 400 on garbage.
// The bool reports whether the handler should continue.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequestError(c, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads ?page= and ?page_size= with sane defaults.
func pagination(c *gin.Context) storage.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	p := storage.PaginationParams{Page: page, PageSize: pageSize}
	p.Normalize()
	return p
}

// listEnvelope is the payload shape for paginated collections.
type listEnvelope struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func newListEnvelope(items any, total int64, p storage.PaginationParams) listEnvelope {
	return listEnvelope{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}
}
