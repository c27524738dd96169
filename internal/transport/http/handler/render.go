package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/flash"
	mdw "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/middleware"
)

// render 统一注入当前用户与 flash 消息后出模板
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = mdw.CurrentUser(c)
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = flash.Take(c)
	}
	c.HTML(status, tmpl, data)
}

func renderError(c *gin.Context, status int, msg string) {
	render(c, status, "error.html", gin.H{"Code": status, "Message": msg})
	c.Abort()
}

func notFound(c *gin.Context)  { renderError(c, http.StatusNotFound, "Not Found") }
func forbidden(c *gin.Context) { renderError(c, http.StatusForbidden, "Forbidden") }

// paramID 路径里的数字 id，非法一律按 404 处理
func paramID(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		notFound(c)
		return 0, false
	}
	return uint(v), true
}

// formMessage 把 binding 校验错误翻译成表单可见的提示
func formMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required."
		case "email":
			return "Please enter a valid email address."
		case "url":
			return "Image URL must be a well-formed URL."
		case "min", "max":
			if fe.Field() == "Password" {
				return "Password must be 72 characters or fewer."
			}
			return "Rating must be between 1 and 10."
		}
	}
	return "Please check the form and try again."
}
