// Package flash 一次性提示消息，放在短生命周期 cookie 里
// 跨一次重定向携带，读取即清除
package flash

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

const cookieName = "cafe_flash"

func Set(c *gin.Context, msg string) {
	c.SetCookie(cookieName, url.QueryEscape(msg), 60, "/", "", false, true)
}

// Take 读出并立即失效，失败当作没有消息
func Take(c *gin.Context) string {
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}
