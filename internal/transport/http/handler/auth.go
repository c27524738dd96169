package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	coreauth "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/auth"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/service"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/flash"
	mdw "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/middleware"
)

type AuthHandler struct {
	auth     *service.AuthService
	sessions *coreauth.Sessions
	cookie   mdw.CookieOpts
	log      *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, sessions *coreauth.Sessions, cookie mdw.CookieOpts, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie, log: log}
}

type registerForm struct {
	Email string `form:"email" binding:"required,email"`
	// bcrypt 上限 72 字节；多字节字符绕过 max 时由服务层兜底
	Password string `form:"password" binding:"required,max=72"`
	Name     string `form:"name" binding:"required"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "register.html", gin.H{"Error": formMessage(err), "Form": form})
		return
	}
	u, err := h.auth.Register(form.Email, form.Name, form.Password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		flash.Set(c, "You've already signed up with that email, log in instead!")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, service.ErrPasswordTooLong):
		render(c, http.StatusOK, "register.html", gin.H{"Error": "Password must be 72 characters or fewer.", "Form": form})
	case err != nil:
		h.log.Error("register failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
	default:
		h.establishSession(c, u)
	}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "login.html", gin.H{"Error": formMessage(err), "Form": form})
		return
	}
	u, err := h.auth.Login(form.Email, form.Password)
	switch {
	case errors.Is(err, service.ErrUnknownEmail):
		flash.Set(c, "That email does not exist, please try again.")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, service.ErrWrongPassword):
		flash.Set(c, "Password incorrect, please try again.")
		c.Redirect(http.StatusFound, "/login")
	case err != nil:
		h.log.Error("login failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
	default:
		h.establishSession(c, u)
	}
}

// Logout 已登出时调用也安全
func (h *AuthHandler) Logout(c *gin.Context) {
	mdw.ClearSession(c, h.cookie)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) establishSession(c *gin.Context, u *domain.User) {
	token, err := h.sessions.Issue(u.ID, u.Name)
	if err != nil {
		h.log.Error("issue session failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	mdw.SetSession(c, h.cookie, token)
	c.Redirect(http.StatusFound, "/")
}
