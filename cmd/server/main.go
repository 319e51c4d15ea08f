package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/yamdb/internal/config"
	"github.com/user/yamdb/internal/handler"
	"github.com/user/yamdb/internal/logging"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/router"
	"github.com/user/yamdb/internal/service"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		slog.Info("未找到 .env 文件，使用系统环境变量")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("数据库连接失败", "error", err)
		os.Exit(1)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 多实例部署时用 Redis 串行化同一账号的注册
	var locker service.Locker = service.NewLocalLocker()
	if rdb := cfg.NewRedisClient(); rdb != nil {
		defer rdb.Close()
		locker = service.NewRedisLocker(rdb)
		slog.Info("使用 Redis 分布式锁", "addr", cfg.RedisAddr)
	}

	// 确认码通知：配置了 RabbitMQ 则投递到队列，否则写日志
	var sender service.NotificationSender = &service.LogNotifier{ShowBody: !cfg.IsProduction()}
	if cfg.RabbitMQURL != "" {
		sender = service.NewAMQPNotifier(cfg.RabbitMQURL)
	}

	issuer := middleware.TokenIssuer{Secret: cfg.AppSecret, Expiry: cfg.JWTExpiry}
	accounts := service.NewAccountService(repos.User, sender, issuer, locker, service.AccountOptions{
		Codes:    service.CodeGenerator{Alphabet: cfg.CodeAlphabet, Length: cfg.CodeLength},
		Limits:   cfg.Limits,
		CodeTTL:  cfg.CodeTTL,
		HashCost: cfg.CodeHashCost,
		MailFrom: cfg.MailFrom,
	})
	reviews := service.NewReviewService(repos.Review, repos.Comment)
	catalog := service.NewCatalogService(repos.Title, repos.Genre, repos.Category)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handler.RegisterValidators(); err != nil {
		slog.Error("注册校验规则失败", "error", err)
		os.Exit(1)
	}
	r := gin.New()

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 中间件
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	// 初始化 Handler
	h := handler.NewHandler(repos, cfg, accounts, reviews, catalog)

	// 启动定时清理任务
	cleanupSvc := service.NewCleanupService(repos.User, cfg.CodeTTL, cfg.CleanupInterval)
	cleanupSvc.Start()

	// 注册路由
	router.RegisterRoutes(r, h, middleware.Authenticate(issuer, repos.User))

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		slog.Info("服务器启动", "addr", "http://localhost:"+cfg.Port, "site", cfg.SiteName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("服务器启动失败", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("服务器强制关闭", "error", err)
	}
	cleanupSvc.Stop()
	accounts.Wait()

	slog.Info("服务器已退出")
}
