package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/policy"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/service"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/flash"
	mdw "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/transport/http/middleware"
)

type CafeHandler struct {
	cafes    *service.CafeService
	comments *service.CommentService
	log      *zap.Logger
}

func NewCafeHandler(cafes *service.CafeService, comments *service.CommentService, log *zap.Logger) *CafeHandler {
	return &CafeHandler{cafes: cafes, comments: comments, log: log}
}

type cafeForm struct {
	Name            string `form:"name" binding:"required"`
	Summary         string `form:"summary" binding:"required"`
	Rating          int    `form:"rating" binding:"required,min=1,max=10"`
	Body            string `form:"body" binding:"required"`
	ImgURL          string `form:"img_url" binding:"omitempty,url"`
	ContributorName string `form:"contributor_name"`
}

type commentForm struct {
	Text string `form:"comment_text" binding:"required"`
}

func (h *CafeHandler) Index(c *gin.Context) {
	cafes, err := h.cafes.List(c.Request.Context())
	if err != nil {
		h.log.Error("list cafes failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{"Cafes": cafes})
}

func (h *CafeHandler) Show(c *gin.Context) {
	cafe, ok := h.findCafe(c)
	if !ok {
		return
	}
	h.renderDetail(c, cafe, "")
}

// PostComment 先校验表单再看登录态：匿名提交内容直接丢弃，跳登录页
func (h *CafeHandler) PostComment(c *gin.Context) {
	cafe, ok := h.findCafe(c)
	if !ok {
		return
	}
	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderDetail(c, cafe, formMessage(err))
		return
	}
	actor := mdw.CurrentUser(c)
	if actor == nil {
		flash.Set(c, "You need to login or register to comment.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if _, err := h.comments.Create(actor, cafe, form.Text); err != nil {
		h.log.Error("create comment failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	h.renderDetail(c, cafe, "")
}

func (h *CafeHandler) ShowCreate(c *gin.Context) {
	render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": false, "Form": cafeForm{}})
}

func (h *CafeHandler) Create(c *gin.Context) {
	actor := mdw.CurrentUser(c)
	var form cafeForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": false, "Form": form, "Error": formMessage(err)})
		return
	}
	_, err := h.cafes.Create(c.Request.Context(), actor, cafeInput(form))
	switch {
	case errors.Is(err, service.ErrCafeNameTaken):
		render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": false, "Form": form, "Error": "A cafe with that name already exists."})
	case errors.Is(err, service.ErrRatingRange):
		render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": false, "Form": form, "Error": "Rating must be between 1 and 10."})
	case err != nil:
		h.log.Error("create cafe failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
	default:
		c.Redirect(http.StatusFound, "/")
	}
}

func (h *CafeHandler) ShowEdit(c *gin.Context) {
	cafe, ok := h.editableCafe(c)
	if !ok {
		return
	}
	form := cafeForm{
		Name:            cafe.Name,
		Summary:         cafe.Summary,
		Rating:          cafe.Rating,
		Body:            cafe.Body,
		ImgURL:          cafe.ImgURL,
		ContributorName: cafe.ContributorName,
	}
	render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": true, "Form": form, "CafeID": cafe.ID})
}

func (h *CafeHandler) Update(c *gin.Context) {
	cafe, ok := h.editableCafe(c)
	if !ok {
		return
	}
	actor := mdw.CurrentUser(c)
	var form cafeForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": true, "Form": form, "CafeID": cafe.ID, "Error": formMessage(err)})
		return
	}
	err := h.cafes.Update(c.Request.Context(), actor, cafe, cafeInput(form))
	switch {
	case errors.Is(err, service.ErrCafeNameTaken):
		render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": true, "Form": form, "CafeID": cafe.ID, "Error": "A cafe with that name already exists."})
	case errors.Is(err, service.ErrRatingRange):
		render(c, http.StatusOK, "cafe-form.html", gin.H{"IsEdit": true, "Form": form, "CafeID": cafe.ID, "Error": "Rating must be between 1 and 10."})
	case err != nil:
		h.log.Error("update cafe failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
	default:
		c.Redirect(http.StatusFound, fmt.Sprintf("/cafe/%d", cafe.ID))
	}
}

// Delete 路由层已经挡掉非超级管理员
func (h *CafeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.cafes.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			notFound(c)
			return
		}
		h.log.Error("delete cafe failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *CafeHandler) findCafe(c *gin.Context) (*domain.Cafe, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	cafe, err := h.cafes.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			notFound(c)
		} else {
			h.log.Error("load cafe failed", zap.Error(err))
			renderError(c, http.StatusInternalServerError, "Something went wrong")
		}
		return nil, false
	}
	return cafe, true
}

// editableCafe 编辑入口统一做归属校验：投稿人或超级管理员
func (h *CafeHandler) editableCafe(c *gin.Context) (*domain.Cafe, bool) {
	cafe, ok := h.findCafe(c)
	if !ok {
		return nil, false
	}
	if !policy.CanEditCafe(mdw.CurrentUser(c), cafe) {
		forbidden(c)
		return nil, false
	}
	return cafe, true
}

func (h *CafeHandler) renderDetail(c *gin.Context, cafe *domain.Cafe, formErr string) {
	comments, err := h.comments.ListByCafe(cafe.ID)
	if err != nil {
		h.log.Error("list comments failed", zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	data := gin.H{"Cafe": cafe, "Comments": comments}
	if formErr != "" {
		data["Error"] = formErr
	}
	render(c, http.StatusOK, "cafe.html", data)
}

func cafeInput(f cafeForm) service.CafeInput {
	return service.CafeInput{
		Name:            f.Name,
		Summary:         f.Summary,
		Body:            f.Body,
		ImgURL:          f.ImgURL,
		ContributorName: f.ContributorName,
		Rating:          f.Rating,
	}
}
