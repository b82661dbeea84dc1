package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	MAX_PAGE_SIZE     = 100
	DEFAULT_PAGE_SIZE = 20
)

// PaginationQueryParams holds the pagination query parameters shared by list endpoints
type PaginationQueryParams struct {
	Limit  int    `form:"limit,default=20"`
	Offset uint64 `form:"offset,default=0"`
}

// ListNotificationsQueryParams holds query parameters for GET /notifications
type ListNotificationsQueryParams struct {
	PaginationQueryParams
	UnreadOnly bool `form:"unread_only,default=false"`
}

// ParsePaginationQuery parses and caps the pagination query parameters
func ParsePaginationQuery(c *gin.Context) (*PaginationQueryParams, error) {
	var params PaginationQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	params.normalize()
	return &params, nil
}

// ParseListNotificationsQuery parses query parameters for GET /notifications
func ParseListNotificationsQuery(c *gin.Context) (*ListNotificationsQueryParams, error) {
	var params ListNotificationsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	params.normalize()
	return &params, nil
}

func (p *PaginationQueryParams) normalize() {
	if p.Limit <= 0 {
		p.Limit = DEFAULT_PAGE_SIZE
	}
	if p.Limit > MAX_PAGE_SIZE {
		p.Limit = MAX_PAGE_SIZE
	}
}

// parseIDParam parses a uuid path parameter
func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return id, nil
}
