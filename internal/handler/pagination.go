package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"playnote/backend/internal/repository"
)

// PaginationHeader carries the metadata of list responses.
const PaginationHeader = "X-Pagination"

// parsePageRequest reads pageNumber and pageSize from the query string.
// Missing or malformed values fall back to page 1 and the default size;
// oversized pages are clamped by the repository.
func parsePageRequest(c *gin.Context) repository.PageRequest {
	page, err := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	if err != nil {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(repository.DefaultPageSize)))
	if err != nil {
		size = repository.DefaultPageSize
	}

	return repository.PageRequest{PageNumber: page, PageSize: size}
}

func writePaginationHeader(c *gin.Context, meta repository.PaginationMetadata) {
	encoded, err := json.Marshal(meta)
	if err != nil {
		return
	}
	c.Header(PaginationHeader, string(encoded))
}
