package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/core/cache"
	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
)

const (
	cafeListKey = "cafes:index"
	cafeListTTL = 60 * time.Second
)

// CafeInput 新建/编辑共用的可变字段
type CafeInput struct {
	Name            string
	Summary         string
	Body            string
	ImgURL          string
	ContributorName string
	Rating          int
}

type CafeService struct {
	cafes domain.CafeRepository
	cache *cache.Cache // 可为 nil（未配置 redis）
	log   *zap.Logger
}

func NewCafeService(cafes domain.CafeRepository, cc *cache.Cache, log *zap.Logger) *CafeService {
	return &CafeService{cafes: cafes, cache: cc, log: log}
}

// List 首页列表，启用缓存时走 GetOrLoad
func (s *CafeService) List(ctx context.Context) ([]domain.Cafe, error) {
	if s.cache == nil {
		return s.cafes.List()
	}
	out, err := cache.GetOrLoadJSON[[]domain.Cafe](s.cache, ctx, cafeListKey, cafeListTTL,
		func(ctx context.Context) (*[]domain.Cafe, error) {
			cafes, e := s.cafes.List()
			if e != nil {
				return nil, e
			}
			return &cafes, nil
		})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return *out, nil
}

func (s *CafeService) Get(id uint) (*domain.Cafe, error) {
	c, err := s.cafes.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *CafeService) Create(ctx context.Context, actor *domain.User, in CafeInput) (*domain.Cafe, error) {
	if in.Rating < 1 || in.Rating > 10 {
		return nil, ErrRatingRange
	}
	contributorName := in.ContributorName
	if contributorName == "" {
		contributorName = actor.Name
	}
	c := &domain.Cafe{
		ContributorID:   actor.ID,
		ContributorName: contributorName,
		Name:            in.Name,
		Summary:         in.Summary,
		Date:            time.Now().Format(domain.DateLayout),
		Body:            in.Body,
		ImgURL:          in.ImgURL,
		Rating:          in.Rating,
	}
	if err := s.cafes.Create(c); err != nil {
		if isDupKey(err) {
			return nil, ErrCafeNameTaken
		}
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("cafe created", zap.Uint("id", c.ID), zap.String("name", c.Name), zap.Uint("contributor", actor.ID))
	return c, nil
}

// Update 覆盖全部可变字段，Date 与 ContributorID 保持创建时的值
func (s *CafeService) Update(ctx context.Context, actor *domain.User, c *domain.Cafe, in CafeInput) error {
	if in.Rating < 1 || in.Rating > 10 {
		return ErrRatingRange
	}
	contributorName := in.ContributorName
	if contributorName == "" {
		contributorName = actor.Name
	}
	c.Name = in.Name
	c.Summary = in.Summary
	c.Body = in.Body
	c.ImgURL = in.ImgURL
	c.ContributorName = contributorName
	c.Rating = in.Rating
	if err := s.cafes.Update(c); err != nil {
		if isDupKey(err) {
			return ErrCafeNameTaken
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete 评论随咖啡馆一并删除（仓储层单事务）
func (s *CafeService) Delete(ctx context.Context, id uint) error {
	c, err := s.cafes.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	if err := s.cafes.DeleteWithComments(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("cafe deleted", zap.Uint("id", id))
	return nil
}

func (s *CafeService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cafeListKey)
	}
}
