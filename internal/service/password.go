package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 自带随机盐，比较走恒定时间路径
// 超过 72 字节 bcrypt 拒绝哈希，不会静默截断

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
