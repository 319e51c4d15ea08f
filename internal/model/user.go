package model

import (
	"time"
)

// 账号角色
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Roles 允许的角色列表
var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

// ValidRole 角色是否合法
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AccountState 注册流程状态
type AccountState string

const (
	StateUnregistered        AccountState = "unregistered"
	StatePendingConfirmation AccountState = "pending_confirmation"
	StateAuthenticated       AccountState = "authenticated"
)

// User 用户模型
type User struct {
	ID               uint       `json:"-" gorm:"primaryKey"`
	Username         string     `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email            string     `json:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName        string     `json:"first_name" gorm:"size:150"`
	LastName         string     `json:"last_name" gorm:"size:150"`
	Bio              string     `json:"bio" gorm:"type:text"`
	Role             string     `json:"role" gorm:"size:16;default:'user';not null"`
	IsSuperuser      bool       `json:"-" gorm:"default:false"`
	ConfirmationCode *string    `json:"-" gorm:"size:72"` // bcrypt 哈希
	CodeIssuedAt     *time.Time `json:"-"`
	ConfirmedAt      *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

// State 当前注册流程状态
func (u *User) State() AccountState {
	switch {
	case u.ConfirmedAt != nil:
		return StateAuthenticated
	case u.ConfirmationCode != nil:
		return StatePendingConfirmation
	default:
		return StateUnregistered
	}
}
