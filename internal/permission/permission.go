// Package permission 根据角色、所有权和登录状态决定一次操作是否被允许。
//
// Decide 是一张纯决策表：无副作用，对任意输入都有结果，
// 在任何写操作之前针对每个请求调用一次。
package permission

import (
	"github.com/user/yamdb/internal/apperr"
)

// Role 权限等级：anonymous < user < moderator < admin（超级用户视同 admin）
type Role int

const (
	Anonymous Role = iota
	User
	Moderator
	Admin
)

func (r Role) String() string {
	switch r {
	case Anonymous:
		return "anonymous"
	case User:
		return "user"
	case Moderator:
		return "moderator"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole 将账号中存储的角色字符串转换为 Role。
// 未知角色按普通用户处理，不授予任何额外权限。
func ParseRole(role string, superuser bool) Role {
	if superuser {
		return Admin
	}
	switch role {
	case "admin":
		return Admin
	case "moderator":
		return Moderator
	default:
		return User
	}
}

// Action 操作类型
type Action string

const (
	List     Action = "list"
	Retrieve Action = "retrieve"
	Create   Action = "create"
	Update   Action = "update"
	Delete   Action = "delete"
)

// IsRead 是否为只读操作
func (a Action) IsRead() bool {
	return a == List || a == Retrieve
}

// ResourceKind 资源类型
type ResourceKind string

const (
	Title    ResourceKind = "title"
	Genre    ResourceKind = "genre"
	Category ResourceKind = "category"
	Account  ResourceKind = "account"
	Review   ResourceKind = "review"
	Comment  ResourceKind = "comment"
)

// Decision 决策结果
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Actor 发起操作的身份
type Actor struct {
	Role      Role
	AccountID uint
}

// AnonymousActor 未登录访问者
func AnonymousActor() Actor {
	return Actor{Role: Anonymous}
}

// NewActor 由账号信息构造身份
func NewActor(accountID uint, role string, superuser bool) Actor {
	return Actor{Role: ParseRole(role, superuser), AccountID: accountID}
}

// IsAnonymous 是否未登录
func (a Actor) IsAnonymous() bool {
	return a.Role == Anonymous
}

// Operation 传输层传入的一次操作描述
type Operation struct {
	Actor   Actor
	Action  Action
	Kind    ResourceKind
	OwnerID *uint
}

// IsOwner 操作者是否为资源作者
func (op Operation) IsOwner() bool {
	return !op.Actor.IsAnonymous() && op.OwnerID != nil && *op.OwnerID == op.Actor.AccountID
}

// Decide 权限决策表
func Decide(role Role, isOwner, isAnonymous bool, action Action, kind ResourceKind) Decision {
	if isAnonymous || role <= Anonymous {
		isAnonymous = true
		role = Anonymous
		isOwner = false
	}
	privileged := role >= Admin

	switch kind {
	case Title, Genre, Category:
		if action.IsRead() {
			return Allow
		}
		return Decision(privileged)
	case Account:
		// 个人资料走单独的 AuthorizeSelf，这里即使是本人也只允许管理员
		return Decision(privileged)
	case Review, Comment:
		switch {
		case action.IsRead():
			return Allow
		case action == Create:
			return Decision(!isAnonymous)
		case action == Update || action == Delete:
			return Decision(isOwner || role >= Moderator)
		}
	}
	return Deny
}

// Authorize 对一次操作做出决策
func Authorize(op Operation) Decision {
	return Decide(op.Actor.Role, op.IsOwner(), op.Actor.IsAnonymous(), op.Action, op.Kind)
}

// AuthorizeSelf 个人资料（/users/me）只要求已登录
func AuthorizeSelf(actor Actor) Decision {
	return Decision(!actor.IsAnonymous())
}

// Check 决策为 Deny 时返回 AuthorizationError
func Check(op Operation) error {
	if Authorize(op) {
		return nil
	}
	return &apperr.AuthorizationError{
		Action:    string(op.Action),
		Kind:      string(op.Kind),
		Anonymous: op.Actor.IsAnonymous(),
	}
}
