package controller

import (
	"edu_eval_backend/internal/service"
	"edu_eval_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	ExportService *service.ExportService
}

func NewExportController(exportService *service.ExportService) *ExportController {
	return &ExportController{ExportService: exportService}
}

// ExportGroup godoc
// @Summary 导出班级 XADE 成绩表
// @Description 生成 CSV 并上传至存储，返回下载地址与未能匹配的学科领域
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param group path string true "班级代码"
// @Success 201 {object} util.Response{data=service.ExportReport}
// @Failure 404 {object} util.Response "班级无学生"
// @Router /exports/xade/groups/{group} [post]
func (c *ExportController) ExportGroup(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.ExportService.ExportGroup(ctx.Request.Context(), ctx.Param("group"), user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, report)
}

// ListExports godoc
// @Summary 班级导出记录
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param group path string true "班级代码"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /exports/xade/groups/{group} [get]
func (c *ExportController) ListExports(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, total, err := c.ExportService.History(ctx.Param("group"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// ComputeExport godoc
// @Summary 生成 XADE 成绩表（无状态）
// @Description 请求体: {"students": [...], "evaluations": [{"studentId", "area", "score"}]}。format=csv 时直接返回表格文本
// @Tags 导出
// @Accept json
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "json 或 csv"
// @Param body body object true "名册与评分"
// @Success 200 {object} util.Response{data=scoring.ExportResult}
// @Failure 400 {object} util.Response
// @Router /exports/xade/compute [post]
func (c *ExportController) ComputeExport(ctx *gin.Context) {
	raw, ok := readBody(ctx)
	if !ok {
		return
	}
	result, err := c.ExportService.ComputePayload(ctx.Request.Context(), raw)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if ctx.Query("format") == "csv" {
		ctx.Header("Content-Disposition", `attachment; filename="xade.csv"`)
		ctx.Data(http.StatusOK, util.MimeCSV, []byte(result.Table))
		return
	}
	util.Success(ctx, result)
}
