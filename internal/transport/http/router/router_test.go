package router

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	coreauth "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/auth"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/mail"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/repo"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/service"
	mdw "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/middleware"
)

const testCookieName = "cafe_session"

type webEnv struct {
	r  *gin.Engine
	db *gorm.DB
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Cafe{}, &domain.Comment{}))
	return db
}

func newWebEnv(t *testing.T, about bool) *webEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	log := zap.NewNop()
	users := repo.NewUserRepo(db)

	r := NewEngine(Deps{
		Log:      log,
		Auth:     service.NewAuthService(users, log),
		Cafes:    service.NewCafeService(repo.NewCafeRepo(db), nil, log),
		Comments: service.NewCommentService(repo.NewCommentRepo(db), log),
		Relay:    mail.NewRelay("127.0.0.1", 1, "nobody@example.com", "", "inbox@example.com"),
		Sessions: &coreauth.Sessions{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour},
		Users:    users,
		Cookie:   mdw.CookieOpts{Name: testCookieName, TTL: time.Hour},

		TemplateGlob: "../../../../web/templates/*.html",
		AboutPage:    about,
	})
	return &webEnv{r: r, db: db}
}

func (e *webEnv) do(t *testing.T, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testCookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// register 注册并返回会话 cookie
func (e *webEnv) register(t *testing.T, email, name, password string) *http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/register", url.Values{
		"email":    {email},
		"name":     {name},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	return sessionCookie(t, w)
}

func (e *webEnv) createCafe(t *testing.T, ck *http.Cookie, name string, rating int) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPost, "/new-cafe", url.Values{
		"name":    {name},
		"summary": {"Great coffee"},
		"rating":  {fmt.Sprint(rating)},
		"body":    {"Cozy place near the Vrijthof."},
	}, ck)
}

func TestRegisterEstablishesSession(t *testing.T) {
	env := newWebEnv(t, false)

	ck := env.register(t, "a@x.com", "Alice", "pw1")

	w := env.do(t, http.MethodGet, "/", nil, ck)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Log Out (Alice)")
}

func TestRegisterDuplicateEmailRedirectsToLogin(t *testing.T) {
	env := newWebEnv(t, false)

	env.register(t, "a@x.com", "Alice", "pw1")

	w := env.do(t, http.MethodPost, "/register", url.Values{
		"email":    {"a@x.com"},
		"name":     {"Impostor"},
		"password": {"pw2"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&domain.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "second registration never creates a user")
}

func TestRegisterPasswordTooLongRedisplaysForm(t *testing.T) {
	env := newWebEnv(t, false)

	w := env.do(t, http.MethodPost, "/register", url.Values{
		"email":    {"a@x.com"},
		"name":     {"Alice"},
		"password": {strings.Repeat("x", 80)},
	})
	assert.Equal(t, http.StatusOK, w.Code, "form redisplayed, no redirect")
	assert.Contains(t, w.Body.String(), "Password must be 72 characters or fewer.")

	// 没有残留账号，同一邮箱用正常口令可以注册并登录
	env.register(t, "a@x.com", "Alice", "pw1")
}

func TestLogin(t *testing.T) {
	env := newWebEnv(t, false)
	env.register(t, "a@x.com", "Alice", "pw1")

	w := env.do(t, http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"pw1"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	sessionCookie(t, w)

	// 密码错误：回登录页，不发会话
	w = env.do(t, http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"nope"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	for _, ck := range w.Result().Cookies() {
		assert.NotEqual(t, testCookieName, ck.Name)
	}

	// 未注册邮箱同样拒绝
	w = env.do(t, http.MethodPost, "/login", url.Values{"email": {"nobody@x.com"}, "password": {"pw1"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogoutSafeWhenAnonymous(t *testing.T) {
	env := newWebEnv(t, false)
	w := env.do(t, http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCreateCafeListedWithContributor(t *testing.T) {
	env := newWebEnv(t, false)
	ck := env.register(t, "a@x.com", "Alice", "pw1")

	w := env.createCafe(t, ck, "Joe's", 7)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	w = env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Joe&#39;s")
	assert.Contains(t, w.Body.String(), "Alice")
}

func TestCreateCafeRatingOutOfRangeRejected(t *testing.T) {
	env := newWebEnv(t, false)
	ck := env.register(t, "a@x.com", "Alice", "pw1")

	w := env.createCafe(t, ck, "Joe's", 11)
	assert.Equal(t, http.StatusOK, w.Code, "form redisplayed, not redirected")
	assert.Contains(t, w.Body.String(), "Rating must be between 1 and 10")

	// 0 是 int 零值，撞 required 校验
	w = env.createCafe(t, ck, "Joe's", 0)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rating is required.")

	w = env.do(t, http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "Joe&#39;s", "rejected entry never listed")
}

func TestCreateCafeRequiresLogin(t *testing.T) {
	env := newWebEnv(t, false)
	w := env.do(t, http.MethodGet, "/new-cafe", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestShowCafe(t *testing.T) {
	env := newWebEnv(t, false)
	ck := env.register(t, "a@x.com", "Alice", "pw1")
	env.createCafe(t, ck, "Joe's", 7)

	// 匿名可看详情
	w := env.do(t, http.MethodGet, "/cafe/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Joe&#39;s")

	w = env.do(t, http.MethodGet, "/cafe/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousCommentDiscarded(t *testing.T) {
	env := newWebEnv(t, false)
	ck := env.register(t, "a@x.com", "Alice", "pw1")
	env.createCafe(t, ck, "Joe's", 7)

	w := env.do(t, http.MethodPost, "/cafe/1", url.Values{"comment_text": {"drive-by comment"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&domain.Comment{}).Count(&count).Error)
	assert.Zero(t, count, "anonymous submission never persisted")
}

func TestAuthenticatedComment(t *testing.T) {
	env := newWebEnv(t, false)
	ck := env.register(t, "a@x.com", "Alice", "pw1")
	env.createCafe(t, ck, "Joe's", 7)

	w := env.do(t, http.MethodPost, "/cafe/1", url.Values{"comment_text": {"lovely spot"}}, ck)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lovely spot")

	var count int64
	require.NoError(t, env.db.Model(&domain.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEditOwnership(t *testing.T) {
	env := newWebEnv(t, false)
	admin := env.register(t, "admin@x.com", "Admin", "pw0") // id=1 超级管理员
	alice := env.register(t, "a@x.com", "Alice", "pw1")     // id=2
	bob := env.register(t, "b@x.com", "Bob", "pw2")         // id=3

	env.createCafe(t, alice, "Joe's", 7)

	// 无关用户被拒
	w := env.do(t, http.MethodGet, "/edit-cafe/1", nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 投稿人可编辑
	w = env.do(t, http.MethodGet, "/edit-cafe/1", nil, alice)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/edit-cafe/1", url.Values{
		"name":    {"Joe's Rebranded"},
		"summary": {"Still great"},
		"rating":  {"9"},
		"body":    {"Updated review."},
	}, alice)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cafe/1", w.Header().Get("Location"))

	// 超级管理员也可编辑别人的条目
	w = env.do(t, http.MethodGet, "/edit-cafe/1", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteRequiresSuperAdmin(t *testing.T) {
	env := newWebEnv(t, false)
	env.register(t, "admin@x.com", "Admin", "pw0") // id=1
	alice := env.register(t, "a@x.com", "Alice", "pw1")
	env.createCafe(t, alice, "Joe's", 7)

	// 非超级管理员（id=2）→ 403，条目保留
	w := env.do(t, http.MethodGet, "/delete/1", nil, alice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 匿名同样 403
	w = env.do(t, http.MethodGet, "/delete/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&domain.Cafe{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteAsSuperAdmin(t *testing.T) {
	env := newWebEnv(t, false)
	admin := env.register(t, "admin@x.com", "Admin", "pw0")
	env.createCafe(t, admin, "Joe's", 7)

	w := env.do(t, http.MethodGet, "/delete/1", nil, admin)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = env.do(t, http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "Joe&#39;s")
}

func TestContactAlwaysConfirms(t *testing.T) {
	env := newWebEnv(t, false)

	w := env.do(t, http.MethodGet, "/contact", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 中继不可达（127.0.0.1:1），页面仍然确认
	w = env.do(t, http.MethodPost, "/contact", url.Values{
		"name":    {"Carol"},
		"email":   {"c@x.com"},
		"phone":   {"+31 6 1234"},
		"message": {"hello"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Successfully sent your message")

	// 表单体解析不了也一样：记日志，照常确认
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Successfully sent your message")
}

func TestAboutRouteGatedByConfig(t *testing.T) {
	off := newWebEnv(t, false)
	w := off.do(t, http.MethodGet, "/about", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	on := newWebEnv(t, true)
	w = on.do(t, http.MethodGet, "/about", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	env := newWebEnv(t, false)
	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
