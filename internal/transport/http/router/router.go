package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	coreauth "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/auth"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/mail"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/service"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/handler"
	mdw "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/middleware"
)

type Deps struct {
	Log      *zap.Logger
	Auth     *service.AuthService
	Cafes    *service.CafeService
	Comments *service.CommentService
	Relay    *mail.Relay
	Sessions *coreauth.Sessions
	Users    domain.UserRepository
	Cookie   mdw.CookieOpts

	TemplateGlob string
	StaticDir    string
	AboutPage    bool // features.about
}

func NewEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
		mdw.Session(d.Sessions, d.Cookie, d.Users),
	)

	r.LoadHTMLGlob(d.TemplateGlob)
	if d.StaticDir != "" {
		r.Static("/static", d.StaticDir)
	}

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authH := handler.NewAuthHandler(d.Auth, d.Sessions, d.Cookie, d.Log)
	cafeH := handler.NewCafeHandler(d.Cafes, d.Comments, d.Log)
	contactH := handler.NewContactHandler(d.Relay, d.Log)

	// 匿名可达
	r.GET("/register", authH.ShowRegister)
	r.POST("/register", authH.Register)
	r.GET("/login", authH.ShowLogin)
	r.POST("/login", authH.Login)
	r.GET("/logout", authH.Logout)
	r.GET("/", cafeH.Index)
	r.GET("/cafe/:id", cafeH.Show)
	r.POST("/cafe/:id", cafeH.PostComment) // 登录校验在表单校验之后，handler 内处理
	r.GET("/contact", contactH.Show)
	r.POST("/contact", contactH.Send)
	if d.AboutPage {
		r.GET("/about", handler.About)
	}

	// 登录可达
	loggedIn := r.Group("", mdw.RequireLogin())
	loggedIn.GET("/new-cafe", cafeH.ShowCreate)
	loggedIn.POST("/new-cafe", cafeH.Create)
	loggedIn.GET("/edit-cafe/:id", cafeH.ShowEdit)
	loggedIn.POST("/edit-cafe/:id", cafeH.Update)

	// 仅超级管理员，匿名也直接 403（fail closed）
	admin := r.Group("", mdw.RequireSuperAdmin())
	admin.GET("/delete/:id", cafeH.Delete)

	return r
}
