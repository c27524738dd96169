package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/auth"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/policy"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/flash"
)

const keyCurrentUser = "currentUser"

type CookieOpts struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Session 解析会话 cookie 并回源查用户，塞进请求上下文
// 解析或查询失败一律当匿名处理，不中断请求
func Session(s *auth.Sessions, opts CookieOpts, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, err := c.Cookie(opts.Name); err == nil && tok != "" {
			if claims, err := s.Parse(tok); err == nil {
				if u, err := users.FindByID(claims.UID); err == nil && u != nil {
					c.Set(keyCurrentUser, u)
				}
			}
		}
		c.Next()
	}
}

// CurrentUser 未登录返回 nil
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(keyCurrentUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func SetSession(c *gin.Context, opts CookieOpts, token string) {
	c.SetCookie(opts.Name, token, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
}

func ClearSession(c *gin.Context, opts CookieOpts) {
	c.SetCookie(opts.Name, "", -1, "/", "", opts.Secure, true)
}

// RequireLogin 未登录跳转登录页
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			flash.Set(c, "Please log in to continue.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin 非超级管理员直接 403，不泄露细节
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.IsSuperAdmin(CurrentUser(c)) {
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Code":    http.StatusForbidden,
				"Message": "Forbidden",
				"User":    CurrentUser(c),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
