// Package policy 纯函数的授权判定，不做任何 IO
package policy

import "github.com/Jorick-Python/Maastricht-cafe-list-website/internal/domain"

// IsSuperAdmin 只有首个注册用户（id=1）是超级管理员
func IsSuperAdmin(u *domain.User) bool {
	return u != nil && u.ID == domain.SuperAdminID
}

// CanEditCafe 投稿人本人或超级管理员可编辑
// 匿名（u 为 nil）一律拒绝
func CanEditCafe(u *domain.User, c *domain.Cafe) bool {
	if u == nil || c == nil {
		return false
	}
	return u.ID == c.ContributorID || IsSuperAdmin(u)
}

// CanDeleteCafe 删除仅限超级管理员
func CanDeleteCafe(u *domain.User) bool { return IsSuperAdmin(u) }
