package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// About 是否注册由 features.about 配置决定
func About(c *gin.Context) {
	render(c, http.StatusOK, "about.html", nil)
}
