package app

import (
	"context"
	"edu_eval_backend/internal/config"
	"edu_eval_backend/internal/controller"
	"edu_eval_backend/internal/repository"
	"edu_eval_backend/internal/service"
	"edu_eval_backend/pkg/configwatcher"
	"edu_eval_backend/pkg/database"
	"edu_eval_backend/pkg/logger"
	"edu_eval_backend/pkg/monitoring"
	"edu_eval_backend/pkg/security"
	"edu_eval_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	student    *repository.StudentRepository
	curriculum *repository.CurriculumRepository
	evaluation *repository.EvaluationRepository
	export     *repository.ExportRepository
}

type services struct {
	storage    *service.StorageService
	scoring    *service.ScoringService
	evaluation *service.EvaluationService
	export     *service.ExportService
}

type controllers struct {
	scoring    *controller.ScoringController
	evaluation *controller.EvaluationController
	export     *controller.ExportController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		student:    repository.NewStudentRepository(db),
		curriculum: repository.NewCurriculumRepository(db),
		evaluation: repository.NewEvaluationRepository(db),
		export:     repository.NewExportRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	s.storage = service.NewStorageService(cfg)

	settings, err := service.NewScoringSettings(cfg.Scoring)
	if err != nil {
		return nil, err
	}
	warnOnAnchorMismatch(cfg.Scoring)

	cache := service.NewResultCache(rdb, cfg.Scoring.CacheTTL)
	s.scoring = service.NewScoringService(repos.student, repos.curriculum, repos.evaluation, cache, settings)
	s.evaluation = service.NewEvaluationService(repos.evaluation, repos.student, repos.curriculum, s.scoring)

	s.export, err = service.NewExportService(repos.student, repos.curriculum, repos.evaluation, s.storage, repos.export, cfg.Export)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// warnOnAnchorMismatch 任务与情境使用不同锚点表时，同一评级会得到不同数值
func warnOnAnchorMismatch(cfg config.ScoringConfig) {
	if cfg.TaskAnchors != cfg.SituationAnchors {
		logger.Log.Warn("Task and situation ratings use different anchor tables",
			zap.String("task_anchors", cfg.TaskAnchors),
			zap.String("situation_anchors", cfg.SituationAnchors),
		)
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		scoring:    controller.NewScoringController(s.scoring),
		evaluation: controller.NewEvaluationController(s.evaluation),
		export:     controller.NewExportController(s.export),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerReloaders 配置文件变更时刷新评分参数与导出列
func (a *App) registerReloaders() {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := a.services.scoring.ApplyConfig(cfg.Scoring); err != nil {
			logger.Log.Error("Rejected scoring config", zap.Error(err))
			return
		}
		warnOnAnchorMismatch(cfg.Scoring)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := a.services.export.ApplyConfig(cfg.Export); err != nil {
			logger.Log.Error("Rejected export config", zap.Error(err))
		}
	})
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	if a.Config.Path == "" {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.Path, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func connectRedis(cfg *config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		logger.Log.Info("Redis not configured, scoring cache disabled")
		return nil
	}
	rdb, err := database.InitRedis(cfg)
	if err != nil {
		logger.Log.Warn("Redis unavailable, scoring cache disabled", zap.Error(err))
		return nil
	}
	return rdb
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb := connectRedis(&cfg.Redis)
	app.Redis = rdb

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)
	app.registerReloaders()

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	a.startBackgroundTasks(bgCtx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
