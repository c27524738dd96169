package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	coreauth "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/auth"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/cache"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/config"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/database"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/logger"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/server"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/mail"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/repo"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/service"
	mdw "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/middleware"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := buildLogger(cfg)
	defer cleanup()

	if cfg.Session.Secret == "" {
		log.Fatal("session secret not set (APP_SESSION_SECRET or session.secret)")
	}

	// 数据库（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移：三张表缺失时建出来
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Cafe{}, &domain.Comment{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 会话令牌
	sessions := &coreauth.Sessions{
		Secret: []byte(cfg.Session.Secret),
		Issuer: cfg.Session.Issuer,
		TTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
	}
	cookie := mdw.CookieOpts{
		Name:   cfg.Session.CookieName,
		TTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
		Secure: cfg.Session.Secure,
	}

	// 缓存可选：没配 redis 地址就直连数据库
	var cc *cache.Cache
	if cfg.Redis.Addr != "" {
		cc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("cafe list cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	users := repo.NewUserRepo(db)
	cafes := repo.NewCafeRepo(db)
	comments := repo.NewCommentRepo(db)

	relay := mail.NewRelay(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.To)

	r := router.NewEngine(router.Deps{
		Log:          log,
		Auth:         service.NewAuthService(users, log),
		Cafes:        service.NewCafeService(cafes, cc, log),
		Comments:     service.NewCommentService(comments, log),
		Relay:        relay,
		Sessions:     sessions,
		Users:        users,
		Cookie:       cookie,
		TemplateGlob: "web/templates/*.html",
		StaticDir:    "web/static",
		AboutPage:    cfg.Features.About,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("cafe list starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("cafe list start FAILED", zap.Error(err))
		}
	}()
	log.Info("cafe list started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("cafe list stopped gracefully")
}

// buildLogger 配了 log.file.filename 就同时落盘并按 lumberjack 切割
func buildLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	if f.Filename == "" {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON,
		f.Filename, f.MaxSizeMB, f.MaxBackups, f.MaxAgeDays, f.Compress)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
