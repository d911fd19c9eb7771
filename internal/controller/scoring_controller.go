package controller

import (
	"edu_eval_backend/internal/service"
	"edu_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoringController struct {
	ScoringService *service.ScoringService
}

func NewScoringController(scoringService *service.ScoringService) *ScoringController {
	return &ScoringController{ScoringService: scoringService}
}

// GetDescriptorScores godoc
// @Summary 班级描述符得分
// @Description 按学生、按 DO 描述符汇总评价标准得分（0-4）。evolutive=true 时按五、六年级权重融合
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param group path string true "班级代码"
// @Param evolutive query bool false "是否启用跨年级融合"
// @Success 200 {object} util.Response{data=scoring.ScoreTable}
// @Failure 404 {object} util.Response "班级无学生"
// @Router /scoring/groups/{group}/descriptors [get]
func (c *ScoringController) GetDescriptorScores(ctx *gin.Context) {
	evolutive := util.ParseBool(ctx.Query("evolutive"), false)
	table, err := c.ScoringService.DescriptorScores(ctx.Request.Context(), ctx.Param("group"), evolutive)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, table)
}

// GetCompetencyScores godoc
// @Summary 班级能力得分
// @Description 任务/情境评价经关联权重分摊到各能力，含季度趋势与最终分（0-10）
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param group path string true "班级代码"
// @Success 200 {object} util.Response{data=service.CompetencyReport}
// @Failure 404 {object} util.Response "班级无学生"
// @Router /scoring/groups/{group}/competencies [get]
func (c *ScoringController) GetCompetencyScores(ctx *gin.Context) {
	report, err := c.ScoringService.CompetencyScores(ctx.Request.Context(), ctx.Param("group"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// GetStudentSummary godoc
// @Summary 学生评分概览
// @Tags 评分
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentSummary}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /scoring/students/{id}/summary [get]
func (c *ScoringController) GetStudentSummary(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid student id")
		return
	}
	summary, err := c.ScoringService.StudentSummary(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ComputeDescriptorScores godoc
// @Summary 计算描述符得分（无状态）
// @Description 请求体: {"criteria": [...], "evaluations": [...], "cohortWeights": {"course5": 0.4, "course6": 0.6}}
// @Tags 评分
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param evolutive query bool false "是否启用跨年级融合"
// @Param body body object true "评价数据"
// @Success 200 {object} util.Response{data=scoring.ScoreTable}
// @Failure 400 {object} util.Response
// @Router /scoring/descriptors/compute [post]
func (c *ScoringController) ComputeDescriptorScores(ctx *gin.Context) {
	raw, ok := readBody(ctx)
	if !ok {
		return
	}
	evolutive := util.ParseBool(ctx.Query("evolutive"), false)
	table, err := c.ScoringService.ComputeDescriptorPayload(ctx.Request.Context(), raw, evolutive)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, table)
}

// ComputeCompetencyScores godoc
// @Summary 计算能力得分（无状态）
// @Description 请求体: {"evaluations": [...], "competencies": [...], "now": "2025-11-10T00:00:00Z"}
// @Tags 评分
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "评价数据"
// @Success 200 {object} util.Response{data=service.CompetencyReport}
// @Failure 400 {object} util.Response
// @Router /scoring/competencies/compute [post]
func (c *ScoringController) ComputeCompetencyScores(ctx *gin.Context) {
	raw, ok := readBody(ctx)
	if !ok {
		return
	}
	report, err := c.ScoringService.ComputeCompetencyPayload(ctx.Request.Context(), raw)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
