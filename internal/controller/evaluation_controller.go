package controller

import (
	"edu_eval_backend/internal/service"
	"edu_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EvaluationController struct {
	EvaluationService *service.EvaluationService
}

func NewEvaluationController(evaluationService *service.EvaluationService) *EvaluationController {
	return &EvaluationController{EvaluationService: evaluationService}
}

// RecordCriterionEvaluation godoc
// @Summary 记录评价标准评分
// @Tags 评价
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CriterionEvaluationRequest true "评分（0-4）"
// @Success 201 {object} util.Response{data=model.CriterionEvaluation}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /evaluations/criteria [post]
func (c *EvaluationController) RecordCriterionEvaluation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CriterionEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ev, err := c.EvaluationService.RecordCriterionEvaluation(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, ev)
}

// RecordLinkedEvaluation godoc
// @Summary 记录任务/情境评价
// @Description 未提供 numericValue 时按评级（RED/YELLOW/GREEN/BLUE）与类型对应的锚点换算
// @Tags 评价
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.LinkedEvaluationRequest true "评价及能力关联"
// @Success 201 {object} util.Response{data=model.LinkedEvaluation}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /evaluations/linked [post]
func (c *EvaluationController) RecordLinkedEvaluation(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LinkedEvaluationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ev, err := c.EvaluationService.RecordLinkedEvaluation(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, ev)
}
