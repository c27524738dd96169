package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"
)

type CafeRepo struct{ db *gorm.DB }

func NewCafeRepo(db *gorm.DB) *CafeRepo { return &CafeRepo{db: db} }

func (r *CafeRepo) Create(c *domain.Cafe) error { return r.db.Create(c).Error }

func (r *CafeRepo) FindByID(id uint) (*domain.Cafe, error) {
	var c domain.Cafe
	err := r.db.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

// List 未定义排序键，保持插入顺序（id 递增）
func (r *CafeRepo) List() ([]domain.Cafe, error) {
	var cafes []domain.Cafe
	err := r.db.Order("id asc").Find(&cafes).Error
	return cafes, err
}

func (r *CafeRepo) Update(c *domain.Cafe) error { return r.db.Save(c).Error }

func (r *CafeRepo) DeleteWithComments(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cafe_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Cafe{}, "id = ?", id).Error
	})
}
