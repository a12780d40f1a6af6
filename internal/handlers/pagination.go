package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads "page" and "pageSize" query parameters, clamps them and
// returns the matching offset.
func pageParams(c *gin.Context) (page, pageSize, offset int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}

	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	switch {
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	case pageSize <= 0:
		pageSize = defaultPageSize
	}

	return page, pageSize, (page - 1) * pageSize
}

// paginatedData wraps a page of rows with the counters list screens expect.
func paginatedData(rows interface{}, totalRows int64, page, pageSize int) gin.H {
	totalPages := 0
	if totalRows > 0 {
		totalPages = int(math.Ceil(float64(totalRows) / float64(pageSize)))
	}
	return gin.H{
		"rows":        rows,
		"totalRows":   totalRows,
		"totalPages":  totalPages,
		"currentPage": page,
		"pageSize":    pageSize,
	}
}
