package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// itemJSON formats one batch-endpoint result row as {id, status, error?}
// plus whatever operation-specific fields extra carries. No separate
// message field is written; error is present only when errMsg is non-empty.
func itemJSON(item, status, errMsg string, extra gin.H) gin.H {
	out := gin.H{"id": item, "status": status}
	if errMsg != "" {
		out["error"] = errMsg
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func parsePagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.Query("skip"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	return skip, limit
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
