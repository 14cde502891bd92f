package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"necklace_web/internal/api"
	"necklace_web/internal/logger"
	"necklace_web/internal/middleware"
	"necklace_web/internal/repository"
	"necklace_web/internal/service"
	"necklace_web/internal/storage"
	"necklace_web/pkg/config"
)

func main() {
	// .env 不存在時直接使用環境變數與配置文件
	_ = godotenv.Load()

	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Log)
	log.Info().Str("address", cfg.Server.Address).Str("db_driver", cfg.DB.Driver).Msg("main started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化 repositories
	var repos *repository.Repositories
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage, data is lost on exit")
		repos = repository.NewMemoryRepositories()

	default:
		log.Info().Str("db", cfg.DB.Redacted()).Msg("connecting to database")

		db, err := storage.NewPostgresDB(cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		// 確保在程序結束時關閉數據庫連接
		defer db.Close()

		if err := db.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("database is not reachable")
		}
		repos = repository.NewRepositories(db)
	}

	// 初始化 services
	services := service.NewServices(repos, log)

	// 設置 Gin 路由
	srv := newHTTPServer(cfg.Server, newRouter(cfg.Server, services, log))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("address", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// 事件訂閱是被劫持的連接，Shutdown 不會替我們關閉
		services.Feed.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}

// newRouter 建立掛好中間件與路由的 gin 引擎
func newRouter(cfg config.ServerConfig, services *service.Services, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log))
	api.SetupRoutes(r, services, log)
	return r
}

// newHTTPServer 依配置建立帶有逾時設定的 HTTP 伺服器
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
