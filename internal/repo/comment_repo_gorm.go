package repo

import (
	"gorm.io/gorm"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(cm *domain.Comment) error { return r.db.Create(cm).Error }

func (r *CommentRepo) ListByCafe(cafeID uint) ([]domain.Comment, error) {
	var cms []domain.Comment
	err := r.db.Preload("Author").Where("cafe_id = ?", cafeID).Order("id asc").Find(&cms).Error
	return cms, err
}
