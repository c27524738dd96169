package domain

import "time"

// Cafe 目录里的一条咖啡馆点评
// ContributorName 为创建/编辑时的快照，允许与 User.Name 漂移
type Cafe struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ContributorID   uint   `gorm:"index;not null" json:"contributorId"`
	ContributorName string `gorm:"size:100" json:"contributorName"`
	Name            string `gorm:"uniqueIndex;size:191;not null" json:"name"`
	Summary         string `gorm:"size:250;not null" json:"summary"`
	// 创建日提交时固定，如 "August 24, 2026"
	Date      string    `gorm:"size:250;not null" json:"date"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ImgURL    string    `gorm:"size:250" json:"imgUrl"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 10" json:"rating"`
	CreatedAt time.Time `json:"createdAt"`

	Contributor *User     `gorm:"foreignKey:ContributorID" json:"-"`
	Comments    []Comment `gorm:"foreignKey:CafeID" json:"-"`
}

func (Cafe) TableName() string { return "cafelist" }

// DateLayout Cafe.Date 的展示格式
const DateLayout = "January 02, 2006"

type CafeRepository interface {
	Create(c *Cafe) error
	FindByID(id uint) (*Cafe, error)
	List() ([]Cafe, error)
	Update(c *Cafe) error
	// DeleteWithComments 同一事务内先删评论再删咖啡馆
	DeleteWithComments(id uint) error
}
