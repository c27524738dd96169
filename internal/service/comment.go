package service

import (
	"go.uber.org/zap"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
)

type CommentService struct {
	comments domain.CommentRepository
	log      *zap.Logger
}

func NewCommentService(comments domain.CommentRepository, log *zap.Logger) *CommentService {
	return &CommentService{comments: comments, log: log}
}

func (s *CommentService) Create(author *domain.User, cafe *domain.Cafe, text string) (*domain.Comment, error) {
	cm := &domain.Comment{
		Text:     text,
		AuthorID: author.ID,
		CafeID:   cafe.ID,
	}
	if err := s.comments.Create(cm); err != nil {
		return nil, err
	}
	s.log.Info("comment created", zap.Uint("cafe", cafe.ID), zap.Uint("author", author.ID))
	return cm, nil
}

func (s *CommentService) ListByCafe(cafeID uint) ([]domain.Comment, error) {
	return s.comments.ListByCafe(cafeID)
}
