package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/pkg/ginutil"
)

func badRequest(c *gin.Context, err error) {
	common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
}

// pathID parses a positive id path parameter and writes 400 when it is malformed
func pathID(c *gin.Context, key, label string) (uint64, bool) {
	id, err := ginutil.ParamID(c, key)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid "+label, err)
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	return ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "limit", 10)
}
