package app

import (
	"edu_eval_backend/docs"
	"edu_eval_backend/internal/config"
	"edu_eval_backend/internal/middleware"
	"edu_eval_backend/internal/util"
	"edu_eval_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 教师接口（token 由外部认证服务签发）
	teacher := router.Group("/api")
	teacher.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(util.RoleTeacher))
	{
		a.registerScoringRoutes(teacher, c)
		a.registerEvaluationRoutes(teacher, c)
		a.registerExportRoutes(teacher, c)
	}
}

func (a *App) registerScoringRoutes(group *gin.RouterGroup, c *controllers) {
	scoring := group.Group("/scoring")
	{
		scoring.GET("/groups/:group/descriptors", c.scoring.GetDescriptorScores)
		scoring.GET("/groups/:group/competencies", c.scoring.GetCompetencyScores)
		scoring.GET("/students/:id/summary", c.scoring.GetStudentSummary)
		scoring.POST("/descriptors/compute", c.scoring.ComputeDescriptorScores)
		scoring.POST("/competencies/compute", c.scoring.ComputeCompetencyScores)
	}
}

func (a *App) registerEvaluationRoutes(group *gin.RouterGroup, c *controllers) {
	evaluations := group.Group("/evaluations")
	{
		evaluations.POST("/criteria", c.evaluation.RecordCriterionEvaluation)
		evaluations.POST("/linked", c.evaluation.RecordLinkedEvaluation)
	}
}

func (a *App) registerExportRoutes(group *gin.RouterGroup, c *controllers) {
	exports := group.Group("/exports/xade")
	{
		exports.POST("/compute", c.export.ComputeExport)
		exports.POST("/groups/:group", c.export.ExportGroup)
		exports.GET("/groups/:group", c.export.ListExports)
	}
}
