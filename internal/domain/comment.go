package domain

import "time"

// Comment 创建后不可变，没有编辑/删除入口
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"index;not null" json:"authorId"`
	CafeID    uint      `gorm:"index;not null" json:"cafeId"`
	CreatedAt time.Time `json:"createdAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

func (Comment) TableName() string { return "comments" }

type CommentRepository interface {
	Create(cm *Comment) error
	ListByCafe(cafeID uint) ([]Comment, error)
}
