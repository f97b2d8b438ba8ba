// Package app 提供应用程序的初始化、运行与优雅关闭.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/api"
	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/handle"
	"github.com/yeisme/filevault/pkg/internal/jobs"
	"github.com/yeisme/filevault/pkg/internal/router"
	"github.com/yeisme/filevault/pkg/internal/storage"
	"github.com/yeisme/filevault/pkg/log"
	"github.com/yeisme/filevault/pkg/metrics"
	"github.com/yeisme/filevault/pkg/middleware"
	"github.com/yeisme/filevault/pkg/scheduler"
	"github.com/yeisme/filevault/pkg/tracing"
)

// App HTTP 服务.
type App struct {
	Engine    *gin.Engine
	Core      *Core
	Scheduler *scheduler.Scheduler
	config    *configs.AppConfig
	logger    zerolog.Logger
}

// NewApp 加载配置并装配全部组件.
func NewApp(configPath string) (*App, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	log.Init()

	config := configs.GetConfig()

	if err := tracing.InitTracer(config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	opts := storage.Options{}
	if config.Metrics.Enabled {
		opts.Registry = metrics.GetRegistry()
	}

	ctx := context.Background()

	core, err := BuildCore(ctx, config, opts)
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		_ = core.Close()

		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	if err := jobs.RegisterCronJobs(ctx, sched, core.Sweeper, config.Vault); err != nil {
		_ = core.Close()

		return nil, fmt.Errorf("register jobs: %w", err)
	}

	return &App{
		Engine:    newEngine(config, core, sched),
		Core:      core,
		Scheduler: sched,
		config:    config,
		logger:    log.Component("app"),
	}, nil
}

// newEngine 按固定顺序挂载中间件与路由.
func newEngine(config *configs.AppConfig, core *Core, sched *scheduler.Scheduler) *gin.Engine {
	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(core.Manager),
		middleware.ErrorMiddleware(),
	)

	if config.Server.Gzip {
		engine.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	metrics.Mount(config.Metrics, engine)
	router.RegisterSwaggerRoute(engine, config.Server)

	handlers := handle.New(core.Vault, core.Accounts, core.Sessions, core.Sweeper, config)
	api.RegisterGroup(engine, handlers, router.Options{
		Auth:      config.Auth,
		RateLimit: config.RateLimit,
		Sessions:  core.Sessions,
		Scheduler: sched,
	})

	return engine
}

// Run 启动服务，收到 SIGINT/SIGTERM 后优雅关闭.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              a.config.Server.Addr(),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	a.Scheduler.Start()

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", srv.Addr).Str("version", configs.AppVersion).Msg("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	var runErr error

	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down")
	case runErr = <-errCh:
	}

	return errors.Join(runErr, a.shutdown(srv))
}

// shutdown 依次停止 HTTP、调度器、后台清理与存储.
func (a *App) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.GetShutdownPeriod())
	defer cancel()

	var errs []error

	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	if err := a.Scheduler.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("scheduler shutdown: %w", err))
	}

	if err := a.Core.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage close: %w", err))
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}

	return errors.Join(errs...)
}
