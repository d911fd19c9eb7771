package controller

import (
	"edu_eval_backend/internal/ingest"
	"edu_eval_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 将业务错误映射为统一响应
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrGroupEmpty),
		errors.Is(err, util.ErrStudentNotFound),
		errors.Is(err, util.ErrCriterionNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, ingest.ErrInvalidPayload),
		errors.Is(err, util.ErrInvalidRating),
		errors.Is(err, util.ErrInvalidKind),
		errors.Is(err, util.ErrNoCompetencyLinks),
		errors.Is(err, util.ErrScoreOutOfRange),
		errors.Is(err, util.ErrValueOutOfRange):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func readBody(ctx *gin.Context) ([]byte, bool) {
	raw, err := ctx.GetRawData()
	if err != nil || len(raw) == 0 {
		util.BadRequest(ctx, "request body is required")
		return nil, false
	}
	return raw, true
}
