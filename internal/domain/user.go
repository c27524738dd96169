package domain

import "time"

// SuperAdminID 第一个注册用户即超级管理员
const SuperAdminID uint = 1

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id uint) (*User, error)
	FindByEmail(email string) (*User, error)
}
